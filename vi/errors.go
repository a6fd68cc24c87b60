package vi

import "fmt"

// Kind tags vi's two error categories: an invalid tolerance (hard) and
// iteration-budget exhaustion (soft — still carries a usable Result).
type Kind int

const (
	// KindInvalidArgument marks a non-positive eps.
	KindInvalidArgument Kind = iota
	// KindNotConverged marks iteration-budget exhaustion before the span
	// fell below eps. The returned Result is still the best-effort
	// policy/gain/bias computed from the last span midpoint.
	KindNotConverged
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotConverged:
		return "not converged"
	default:
		return "unknown"
	}
}

// Error is vi's Kind-tagged error type, matching the shape used by mdp.Error
// elsewhere in this codebase.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("vi: %s: %s", e.Kind, e.Msg) }

// Is lets errors.Is(err, vi.ErrNotConverged) match by Kind, ignoring Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ErrInvalidArgument is the sentinel for a non-positive eps.
var ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Msg: "invalid argument"}

// ErrNotConverged is the sentinel for iteration-budget exhaustion. This is a
// soft failure: callers should use errors.Is to detect it and proceed with
// the returned Result rather than treating it as fatal (SPEC_FULL.md §7).
var ErrNotConverged = &Error{Kind: KindNotConverged, Msg: "iteration budget exhausted before span converged"}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func notConverged(format string, args ...any) error {
	return &Error{Kind: KindNotConverged, Msg: fmt.Sprintf(format, args...)}
}
