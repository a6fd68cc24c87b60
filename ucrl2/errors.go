package ucrl2

import "fmt"

// Error is ucrl2's error type (a message only, no Kind) for the one failure
// mode at construction: a delta outside (0,1), or a non-positive
// states/actions count. Once running, errors from confidence.Region.Update or vi's hard
// failures are returned unwrapped so callers can still errors.Is against
// the originating package's sentinels.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "ucrl2: " + e.Msg }

func invalidArgument(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
