package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/session"
)

// MinPasswordLength matches the server's registration rule.
const MinPasswordLength = 8

// ValidationError is raised before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if NormalizeEmail(email) == "" || password == "" {
		return &ValidationError{"Please enter your email and password."}
	}
	return nil
}

// ValidateRegister checks the registration form.
func ValidateRegister(email, password, confirm string) error {
	if NormalizeEmail(email) == "" || password == "" || confirm == "" {
		return &ValidationError{"Please fill in all fields."}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)}
	}
	if password != confirm {
		return &ValidationError{"Passwords do not match."}
	}
	return nil
}

// Login validates the form, exchanges credentials for tokens and signs in.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	pair, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.Session.SignIn(ctx, pair.AccessToken, pair.RefreshToken, email)
}

// Register creates the account, then signs in with the same credentials.
func (a *App) Register(ctx context.Context, email, password, confirm string) error {
	if err := ValidateRegister(email, password, confirm); err != nil {
		return err
	}
	email = NormalizeEmail(email)
	if _, err := a.Client.Register(ctx, email, password); err != nil {
		return err
	}
	return a.Login(ctx, email, password)
}

// StateError reports that an operation needs a different session state.
type StateError struct {
	Want session.State
	Got  session.State
}

func (e *StateError) Error() string {
	switch e.Got {
	case session.StateUnauthenticated:
		return "not signed in (run 'streamtracker login')"
	case session.StateOnboarding:
		return "onboarding not finished (run 'streamtracker onboard')"
	}
	return fmt.Sprintf("session is %s, need %s", e.Got, e.Want)
}

// Require returns a *StateError unless the session is in state want.
func (a *App) Require(want session.State) error {
	if got := a.Session.State(); got != want {
		return &StateError{Want: want, Got: got}
	}
	return nil
}

// IsValidation reports whether err is a form validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ErrorMessage returns the text to show for err on a form.
func ErrorMessage(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	if errors.Is(err, session.ErrStorageUnavailable) {
		return "Could not save your session on this device."
	}
	return api.Message(err)
}
