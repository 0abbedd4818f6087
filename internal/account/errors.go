package account

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Service matches exactly one of them
// with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

// Error is a failure with a message fit to show the user.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrPasswordMismatch        = &Error{ErrValidation, "Passwords do not match!"}
	ErrPasswordTooShort        = &Error{ErrValidation, fmt.Sprintf("Password must be at least %d characters long!", MinPasswordLength)}
	ErrNewPasswordMismatch     = &Error{ErrValidation, "New passwords do not match!"}
	ErrNewPasswordTooShort     = &Error{ErrValidation, fmt.Sprintf("New password must be at least %d characters long.", MinPasswordLength)}
	ErrCurrentPasswordRequired = &Error{ErrValidation, "Please enter your current password."}
	ErrEmailRequired           = &Error{ErrValidation, "Please enter an email address."}
	ErrEmailTaken              = &Error{ErrValidation, "An account with this email already exists!"}
	ErrInvalidNewsletter       = &Error{ErrValidation, "Unknown newsletter frequency."}
	ErrConfirmation            = &Error{ErrValidation, "Please type DELETE exactly as shown to confirm account deletion."}

	ErrWrongPassword      = &Error{ErrAuth, "Current password is incorrect."}
	ErrInvalidCredentials = &Error{ErrAuth, "Invalid email or password."}
	ErrNotLoggedIn        = &Error{ErrAuth, "You must be logged in to do that."}

	ErrUserNotFound = &Error{ErrNotFound, "No user account found."}
)

func storageError(err error) error {
	if err == nil || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// Message turns an error from Service into notification text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if errors.Is(err, ErrStorage) {
		return "Could not access local storage. Please try again."
	}
	return "Something went wrong: " + err.Error()
}
