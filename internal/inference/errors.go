package inference

import (
	"errors"
	"fmt"
)

// Kind classifies a failed inference call.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindModelLoading
	KindTimeout
	KindConnectionFailed
	KindUnexpectedContentType
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindModelLoading:
		return "model_loading"
	case KindTimeout:
		return "timeout"
	case KindConnectionFailed:
		return "connection_failed"
	case KindUnexpectedContentType:
		return "unexpected_content_type"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Generate for every failure. StatusCode and
// Body are set when the API answered; Err is set for transport failures.
type Error struct {
	Kind        Kind
	StatusCode  int
	ContentType string
	Body        string
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout, KindConnectionFailed:
		return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
	case KindUnexpectedContentType:
		return fmt.Sprintf("inference %s: %q", e.Kind, e.ContentType)
	default:
		return fmt.Sprintf("inference %s: status code %d", e.Kind, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Kind
	}
	return KindUnknown
}

func kindForStatus(code int) Kind {
	switch code {
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 503:
		return KindModelLoading
	default:
		return KindServerError
	}
}
