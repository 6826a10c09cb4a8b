package app

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the sync engine can observe. The set is
// closed; code that branches on failures switches on Kind instead of
// inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport covers network unavailability and timeouts.
	KindTransport
	// KindAuth covers a missing identity and a 401 from the backend.
	KindAuth
	// KindRemoteRejection covers a non-success response or an undecodable
	// body.
	KindRemoteRejection
	// KindLocalIO covers local image and database read failures.
	KindLocalIO
	// KindNotFound covers a missing catalog row.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindRemoteRejection:
		return "remote_rejection"
	case KindLocalIO:
		return "local_io"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Detail is the human-readable message that
// ends up in LastError and notices; Err is the underlying cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrTransport       = &Error{Kind: KindTransport, Detail: MsgNetworkUnavailable}
	ErrAuth            = &Error{Kind: KindAuth, Detail: MsgUnauthorized}
	ErrRemoteRejection = &Error{Kind: KindRemoteRejection, Detail: MsgRemoteRejected}
	ErrLocalIO         = &Error{Kind: KindLocalIO, Detail: MsgImageUnreadable}
	ErrNotFound        = &Error{Kind: KindNotFound, Detail: MsgRecordNotFound}
)

// NewError builds a classified error. detail may be empty, in which case
// the wrapped error's text is used as the message.
func NewError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrAuth) holds
// for every auth failure regardless of detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first classified error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the text to record for err: the Detail of the first
// classified error in its chain, else err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String()
	}
	return err.Error()
}
