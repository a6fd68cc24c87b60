package mdp

import "fmt"

// Kind tags the two hard error categories package mdp raises:
// InvalidArgument and IllegalAction. The soft NotConverged category, which
// still carries a usable result, is declared in package vi with its own Kind
// type.
type Kind int

const (
	// KindInvalidArgument marks a non-positive tolerance, an out-of-range
	// state/action/next-state query, or a non-positive delta/t.
	KindInvalidArgument Kind = iota
	// KindIllegalAction marks a sampling step attempted with an action not
	// in the current legal set.
	KindIllegalAction
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIllegalAction:
		return "illegal action"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a message, matching the Kind-tagged error idiom
// used elsewhere in this codebase (see vi.Error for the NotConverged kind).
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// ErrInvalidArgument is the sentinel matched via errors.Is for any *Error
// with Kind == KindInvalidArgument.
var ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Msg: "invalid argument"}

// ErrIllegalAction is the sentinel matched via errors.Is for any *Error with
// Kind == KindIllegalAction.
var ErrIllegalAction = &Error{Kind: KindIllegalAction, Msg: "illegal action"}

// Is implements the errors.Is matching contract by Kind, ignoring Msg, so
// callers can write errors.Is(err, mdp.ErrIllegalAction) regardless of the
// message attached at the call site.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func illegalAction(format string, args ...any) error {
	return &Error{Kind: KindIllegalAction, Msg: fmt.Sprintf(format, args...)}
}
