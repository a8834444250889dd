package auth

import (
	"regexp"
	"strings"
)

type RegistrationForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// FieldErrors maps a form field to its validation message. Empty means the
// form is acceptable.
type FieldErrors map[string]string

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ValidateRegistration checks field shapes only; uniqueness against stored
// users is the Register step's job.
func ValidateRegistration(form RegistrationForm) FieldErrors {
	errs := FieldErrors{}

	username := strings.TrimSpace(form.Username)
	if username == "" {
		errs["username"] = "username is required"
	} else if !usernamePattern.MatchString(username) {
		errs["username"] = "username may only contain letters, digits, and _.-"
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "invalid email address"
	}

	if len(form.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters long"
	} else if !hasLetter.MatchString(form.Password) || !hasDigit.MatchString(form.Password) {
		errs["password"] = "Password must contain letters and numbers"
	}

	if _, ok := errs["password"]; !ok && form.Password != form.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match"
	}

	return errs
}
