package account

import (
	"context"
	"errors"

	"github.com/synopticmd/api/internal/platform/docstore"
)

const usersCollection = "users"

type storeRepo struct {
	store docstore.Store
}

// NewStoreRepo returns a Repository backed by the document store. The hash
// is stored under the document's "password" field.
func NewStoreRepo(store docstore.Store) Repository {
	return &storeRepo{store: store}
}

func (r *storeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	doc, err := r.store.FindOne(ctx, usersCollection, "email", email)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

func (r *storeRepo) Create(ctx context.Context, u *User) error {
	key, err := r.store.Insert(ctx, usersCollection, docstore.Document{
		"username": u.Username,
		"email":    u.Email,
		"password": u.PasswordHash,
	})
	if err != nil {
		return err
	}
	u.ID = key

	// The store assigns the key after insert; write it back into the
	// document so email lookups can return the id without a second query.
	_, err = r.store.Apply(ctx, usersCollection, "email", u.Email, func(doc docstore.Document) (docstore.Document, error) {
		doc["id"] = key
		return doc, nil
	})
	return err
}

func (r *storeRepo) Truncate(ctx context.Context) error {
	return r.store.Truncate(ctx, usersCollection)
}

func userFromDoc(doc docstore.Document) *User {
	u := &User{}
	if v, ok := doc["id"].(string); ok {
		u.ID = v
	}
	if v, ok := doc["username"].(string); ok {
		u.Username = v
	}
	if v, ok := doc["email"].(string); ok {
		u.Email = v
	}
	if v, ok := doc["password"].(string); ok {
		u.PasswordHash = v
	}
	return u
}
