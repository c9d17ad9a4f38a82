// Package apperr holds the error taxonomy shared by the availability engine,
// the audit recorder and the services that compose them.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("slot no longer available, please retry")
	ErrAuditWrite        = errors.New("audit write failed")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInUse             = errors.New("referenced by existing reservations")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrImmutable         = errors.New("audit entries are immutable")
)

// UnavailableError is returned by write paths when the availability check
// fails. Reason is meant to be shown to the user verbatim.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return e.Reason
}

func IsUnavailable(err error) (*UnavailableError, bool) {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
