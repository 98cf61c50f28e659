package account

import "context"

type Repository interface {
	// FindByEmail returns the user with the given email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create stores a new user and assigns its ID.
	Create(ctx context.Context, u *User) error
	// Truncate deletes every user.
	Truncate(ctx context.Context) error
}
