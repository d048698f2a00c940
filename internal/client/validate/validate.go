// Package validate holds the client-side registration checks. Each check
// returns a *ValidationError whose message is shown to the user as is.
package validate

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
)

const (
	PasswordMinLen = 6
	PasswordMaxLen = 100
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordLength   = errors.New("password length out of range")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidCode      = errors.New("invalid verification code")
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codeRe  = regexp.MustCompile(`^\d{6}$`)
)

// ValidationError names the offending field. It unwraps to one of the
// Err* sentinels above.
type ValidationError struct {
	Field   string
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Kind }

func Email(email string) error {
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Kind: ErrInvalidEmail, Message: "Please enter a valid email address"}
	}
	return nil
}

// Password checks the length in characters, not bytes.
func Password(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return &ValidationError{Field: "password", Kind: ErrPasswordLength, Message: "Password must be 6 to 100 characters long"}
	}
	return nil
}

func PasswordsMatch(password, repeat string) error {
	if password != repeat {
		return &ValidationError{Field: "passwordRepeat", Kind: ErrPasswordMismatch, Message: "The two passwords do not match"}
	}
	return nil
}

func Code(code string) error {
	if !codeRe.MatchString(code) {
		return &ValidationError{Field: "code", Kind: ErrInvalidCode, Message: "Verification code must be 6 digits"}
	}
	return nil
}

// Registration runs the register-time checks in order and stops at the
// first failure: email, password length, password match, code.
func Registration(f models.RegistrationForm) error {
	if err := Email(f.Email); err != nil {
		return err
	}
	if err := Password(f.Password); err != nil {
		return err
	}
	if err := PasswordsMatch(f.Password, f.PasswordRepeat); err != nil {
		return err
	}
	return Code(f.Code)
}
