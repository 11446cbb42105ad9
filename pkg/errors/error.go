package errors

import (
	stderrors "errors"
	"io/fs"
	"net/http"
)

const (
	MessageUnknownError = "unknown error"
)

type errorReason string

const (
	UnsupportedArtifactKind   errorReason = "UnsupportedArtifactKind"
	DirectoryNotEmpty         errorReason = "DirectoryNotEmpty"
	MissingModelReference     errorReason = "MissingModelReference"
	MissingExplainerReference errorReason = "MissingExplainerReference"
	RepositoryNotBound        errorReason = "RepositoryNotBound"
	MissingCredentials        errorReason = "MissingCredentials"
	RemoteRequestFailed       errorReason = "RemoteRequestFailed"
	SerializationFailed       errorReason = "SerializationFailed"
	InvalidOptions            errorReason = "InvalidOptions"
)

type Error struct {
	Status   int    `json:"status"`
	Message  string `json:"message,omitempty"`
	Reason   errorReason
	notFound bool
	cause    error
}

func (e *Error) Error() string {
	if len(e.Message) == 0 {
		return MessageUnknownError
	}
	return e.Message
}

func (e *Error) HttpStatus() int {
	if e.Status <= 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(text string) error {
	return NewStatus(http.StatusInternalServerError, text)
}

func NewStatus(status int, text string) error {
	return Smart(status, text)
}

func NewStatusReason(status int, text, reason string) error {
	return Smart(status, text, Reason(reason))
}

func Reason(reason string) errorReason {
	return errorReason(reason)
}

// HasReason reports whether any *Error in the chain of err carries reason.
func HasReason(err error, reason errorReason) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Reason == reason {
			return true
		}
		err = e.cause
	}
	return false
}

// IsNotFound reports whether err is a 404 *Error or wraps fs.ErrNotExist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if stderrors.As(err, &e) && (e.notFound || e.Status == http.StatusNotFound) {
		return true
	}
	return stderrors.Is(err, fs.ErrNotExist)
}

// Smart builds an *Error from any mix of status code, message, reason and
// wrapped error. The first argument of each kind wins.
func Smart(args ...interface{}) error {
	err := &Error{}
	var statusSet, messageSet, reasonSet, errSet bool
	for _, arg := range args {
		switch a := arg.(type) {
		case *Error:
			if errSet {
				continue
			}
			if a.notFound {
				err.Status = http.StatusNotFound
				err.notFound = true
				statusSet = true
			} else if !statusSet {
				err.Status = a.Status
			}
			if !messageSet {
				err.Message = a.Message
			}
			if !reasonSet {
				err.Reason = a.Reason
				reasonSet = true
			}
			err.cause = a
			errSet = true
		case error:
			if errSet {
				continue
			}
			if stderrors.Is(a, fs.ErrNotExist) {
				err.Status = http.StatusNotFound
				err.notFound = true
				statusSet = true
			}
			if !messageSet {
				err.Message = a.Error()
				messageSet = true
			}
			err.cause = a
			errSet = true
		case errorReason:
			if reasonSet {
				continue
			}
			err.Reason = a
			reasonSet = true
		case string:
			if messageSet {
				continue
			}
			err.Message = a
			messageSet = true
		case int:
			if statusSet {
				continue
			}
			err.Status = a
			statusSet = true
		}
	}
	return err
}
