package account

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned by the repository for unknown emails.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when registering an already-used email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and hash mismatch so
	// a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("missing required fields")
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Register creates a new user and returns its assigned id. The uniqueness
// check is a pre-insert lookup, not a store constraint; two concurrent
// registrations of the same email can race.
func (s *Service) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

// Login verifies the password against the stored hash and returns the
// client-facing user summary.
func (s *Service) Login(ctx context.Context, email, password string) (*Summary, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	summary := u.Summary()
	return &summary, nil
}
