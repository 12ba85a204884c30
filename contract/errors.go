package contract

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code for a rejected operation.
type Code string

const (
	// CodeInvalidDeadline is returned when Init is given a zero deadline window.
	CodeInvalidDeadline Code = "INVALID_DEADLINE"
	// CodeAlreadyActive is returned when StartGame is called during a running game.
	CodeAlreadyActive Code = "ALREADY_ACTIVE"
	// CodeNotActive is returned when PassPotato or CheckDeadline runs against an idle game.
	CodeNotActive Code = "NOT_ACTIVE"
	// CodeNotHolder is returned when someone other than the current holder tries to pass.
	CodeNotHolder Code = "NOT_HOLDER"
	// CodeDeadlinePassed is returned when a pass arrives at or after the deadline.
	CodeDeadlinePassed Code = "DEADLINE_PASSED"
	// CodeNotStarter is returned when someone other than the starter tries to end the game.
	CodeNotStarter Code = "NOT_STARTER"

	// CodeAlreadyInitialized is returned when Init runs twice against the same state.
	CodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	// CodeNotInitialized is returned when any operation runs before Init.
	CodeNotInitialized Code = "NOT_INITIALIZED"
	// CodeInvalidRecipient is returned when a start or pass names an empty address.
	CodeInvalidRecipient Code = "INVALID_RECIPIENT"
	// CodeSelfPassForbidden is returned when the holder passes to themselves
	// and the deployment disallows it.
	CodeSelfPassForbidden Code = "SELF_PASS_FORBIDDEN"

	// CodeUnknownOperation is returned by Dispatch for an unrecognized op name.
	CodeUnknownOperation Code = "UNKNOWN_OPERATION"
	// CodeBadPayload is returned by Dispatch for a malformed payload.
	CodeBadPayload Code = "BAD_PAYLOAD"
)

// Error is a domain rejection: an expected, recoverable outcome of an
// operation. It never carries a cause; infrastructure failures travel as
// *HostFault instead.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches by code so errors.Is(err, &Error{Code: c}) works across values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf extracts the domain code from err, or "" for non-domain errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HostFault wraps a failure of the hosting environment: state store errors,
// a missing or corrupt stored record, or a block counter that ran backwards.
// It is deliberately a separate type from Error so callers cannot confuse
// "your call was rejected" with "the host is broken".
type HostFault struct {
	Op    string // host operation that failed, e.g. "state.get"
	Cause error
}

func (f *HostFault) Error() string {
	if f.Cause == nil {
		return "host fault: " + f.Op
	}
	return fmt.Sprintf("host fault: %s: %v", f.Op, f.Cause)
}

func (f *HostFault) Unwrap() error { return f.Cause }

// IsHostFault reports whether err originated in host infrastructure.
func IsHostFault(err error) bool {
	var f *HostFault
	return errors.As(err, &f)
}

func hostFault(op string, cause error) *HostFault {
	return &HostFault{Op: op, Cause: cause}
}

func hostFaultf(op string, format string, args ...any) *HostFault {
	return &HostFault{Op: op, Cause: fmt.Errorf(format, args...)}
}
