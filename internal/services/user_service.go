// Package services – UserService
//
// This file implements the UserService, which manages the registry of
// chat-platform users known to the ledger. Registration is insert-only:
// a duplicate id is reported as ErrDuplicateUser rather than silently
// upserted, so the caller stays in charge of the create-vs-update decision
// (the chat layer checks existence on every incoming event anyway).
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
	"github.com/tbourn/go-request-ledger/internal/repo"
)

// UserService provides profile CRUD over the users table. It is safe for
// concurrent use; every method is a single database round-trip.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Register inserts a new user with the given profile fields. Nil name or
// handle are stored as NULL. Registering an id that already exists returns
// ErrDuplicateUser and leaves the existing row untouched.
func (s *UserService) Register(ctx context.Context, id int64, name, userName *string) (*domain.User, error) {
	u, err := repo.CreateUser(ctx, s.DB, id, name, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

// Get returns the full profile record for id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Exists reports whether the user id is registered, without loading the
// profile. Absence is a normal outcome here, never an error.
func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update replaces the name and handle of an existing user. Updating an
// unknown id returns ErrUserNotFound.
func (s *UserService) Update(ctx context.Context, id int64, name, userName *string) error {
	if err := repo.UpdateUser(ctx, s.DB, id, name, userName); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// List returns every registered user keyed by id.
func (s *UserService) List(ctx context.Context) (map[int64]domain.UserProfile, error) {
	return repo.ListUsers(ctx, s.DB)
}
