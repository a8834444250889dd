package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Register validates the form, hashes the password, and creates the user.
// Field-level problems (including a taken username or email) come back as
// FieldErrors; the error return is for infrastructure failures only.
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*domain.User, FieldErrors, error) {
	if errs := ValidateRegistration(form); len(errs) > 0 {
		return nil, errs, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, form.Username, form.Email, string(hash))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, FieldErrors{"username": "Username already exists"}, nil
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, FieldErrors{"email": "Email already registered"}, nil
		}
		return nil, nil, err
	}

	return user, nil, nil
}

// Login verifies the credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
