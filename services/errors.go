// services/errors.go
package services

import "errors"

// Kind classifies core errors without binding them to any transport status
// scheme; the HTTP layer maps kinds to status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInsufficientStock
	KindInvalidState
	KindAlreadyProcessed
	KindForbidden
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf returns the Kind of err, or 0 for errors from outside the core.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func notFound(msg string) error          { return &Error{Kind: KindNotFound, Message: msg} }
func insufficientStock(msg string) error { return &Error{Kind: KindInsufficientStock, Message: msg} }
func invalidState(msg string) error      { return &Error{Kind: KindInvalidState, Message: msg} }
func alreadyProcessed(msg string) error  { return &Error{Kind: KindAlreadyProcessed, Message: msg} }
func forbidden(msg string) error         { return &Error{Kind: KindForbidden, Message: msg} }
func conflict(msg string) error          { return &Error{Kind: KindConflict, Message: msg} }

// Authentication failures are not core error kinds; the transport maps
// these sentinels itself.
var (
	ErrInvalidCredentials  = errors.New("invalid contact or password")
	ErrInvalidInvitation   = errors.New("invalid invitation code")
	ErrRegistrationPending = errors.New("registration pending approval")
	ErrUserBanned          = errors.New("account is banned")
)
