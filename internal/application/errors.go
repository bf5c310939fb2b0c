package application

import "errors"

// Error taxonomy shared by every operation. Handlers map these onto flash
// messages and redirects; anything outside the taxonomy is an internal error,
// logged in full and surfaced generically.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidID          = errors.New("invalid id")
)

// ValidationError carries a user-facing message for rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

// ValidationMessage returns the user-facing message when err is a
// ValidationError, or "" otherwise.
func ValidationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return ""
}
