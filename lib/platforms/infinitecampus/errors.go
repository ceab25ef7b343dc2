package infinitecampus

import (
	"errors"
	"fmt"
)

var (
	ErrBadCredentials       = errors.New("incorrect username or password")
	ErrBadApplication       = errors.New("district application name was not accepted, check the district and state")
	ErrCaptcha              = errors.New("too many login attempts, the portal is asking for a captcha, wait before trying again")
	ErrDistrictNotFound     = errors.New("no district matched the given name and state")
	ErrNotAuthenticated     = errors.New("not logged in")
	ErrNotificationNotFound = errors.New("notification does not exist or belongs to another user")
	ErrInvalidInput         = errors.New("portal rejected the request as invalid input")
)

// StatusError is returned when the portal answers with a non-200 status.
type StatusError struct {
	Operation string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected http status %d", e.Operation, e.Status)
}

// UnexpectedResponseError is returned when a response has a shape none of the decoders
// recognize. Body holds the raw response, Summary the readable text of it.
type UnexpectedResponseError struct {
	Operation string
	Body      string
	Summary   string
	Err       error
}

func (e *UnexpectedResponseError) Error() string {
	msg := fmt.Sprintf("%s: unexpected response", e.Operation)
	if e.Err != nil {
		msg += fmt.Sprintf(" (%s)", e.Err.Error())
	}
	if e.Summary != "" {
		msg += fmt.Sprintf(": %s", e.Summary)
	}
	return msg
}

func (e *UnexpectedResponseError) Unwrap() error {
	return e.Err
}
