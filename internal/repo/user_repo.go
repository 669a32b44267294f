// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new user row. A duplicate user id surfaces as the
// driver's unique-constraint error; classification happens in the service
// layer.
func CreateUser(ctx context.Context, db *gorm.DB, id int64, name, userName *string) (*domain.User, error) {
	u := &domain.User{
		UserID:   id,
		Name:     name,
		UserName: userName,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a single user by id, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces the profile fields of an existing user. If no row is
// affected (user missing), it returns ErrNotFound. The primary key is never
// touched.
func UpdateUser(ctx context.Context, db *gorm.DB, id int64, name, userName *string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ?", id).
		Updates(map[string]any{
			"name":      name,
			"user_name": userName,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes a user row. With foreign keys enabled the delete
// cascades to every request the user owns. Deleting an absent user is a
// no-op, not an error.
func DeleteUser(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&domain.User{}).Error
}

// ListUsers returns every known user keyed by id. An empty store yields an
// empty (non-nil) map.
func ListUsers(ctx context.Context, db *gorm.DB) (map[int64]domain.UserProfile, error) {
	var rows []domain.User
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]domain.UserProfile, len(rows))
	for _, u := range rows {
		out[u.UserID] = domain.UserProfile{Name: u.Name, UserName: u.UserName}
	}
	return out, nil
}
