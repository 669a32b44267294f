// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Request
// model: lifecycle transitions (open, fulfill, revert, reassign, delete)
// and the point/range lookups the reporting layer builds on.
//
// Lifecycle writes touch the fulfillment triple (fulfill_message_id,
// fulfill_time, fulfilled_by) only as a whole, in a single UPDATE, so a
// concurrent reader sees the triple either fully null or fully populated.
//
// Error semantics follow the package convention: point lookups return
// ErrNotFound for missing rows, mutations that require an existing row
// return ErrNotFound when zero rows match, and raw driver errors propagate
// untouched.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
)

// CreateRequest inserts a new pending request with req_time set to the
// current UTC time. Unique-key and foreign-key violations surface as raw
// driver errors for the service layer to classify.
func CreateRequest(ctx context.Context, db *gorm.DB, userID int64, isEnglish bool, messageID int64) (*domain.Request, error) {
	r := &domain.Request{
		UserID:    userID,
		IsEnglish: isEnglish,
		MessageID: messageID,
		ReqTime:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FulfillRequest transitions a request to fulfilled by setting the whole
// fulfillment triple in one UPDATE, with fulfill_time set to the current UTC
// time. It returns ErrNotFound if no row matches (user, message). Racing
// fulfills on the same row resolve last-writer-wins at the row level.
func FulfillRequest(ctx context.Context, db *gorm.DB, userID, messageID, fulfillMessageID, fulfilledBy int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Updates(map[string]any{
			"fulfill_message_id": fulfillMessageID,
			"fulfill_time":       time.Now().UTC(),
			"fulfilled_by":       fulfilledBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevertRequest transitions a request back to pending by clearing the whole
// fulfillment triple in one UPDATE. It returns ErrNotFound if no row matches.
func RevertRequest(ctx context.Context, db *gorm.DB, userID, messageID int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Updates(map[string]any{
			"fulfill_message_id": nil,
			"fulfill_time":       nil,
			"fulfilled_by":       nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReassignFulfiller corrects the fulfiller attribution of an already
// fulfilled request, addressed by its acknowledgement message id. Only
// fulfilled_by changes; fulfill_time keeps the original fulfillment instant.
// Returns ErrNotFound if no row carries that acknowledgement id.
func ReassignFulfiller(ctx context.Context, db *gorm.DB, fulfillMessageID, fulfilledBy int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("fulfill_message_id = ?", fulfillMessageID).
		Update("fulfilled_by", fulfilledBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRequest removes a request row unconditionally. Deleting an absent
// message id is a no-op, not an error.
func DeleteRequest(ctx context.Context, db *gorm.DB, messageID int64) error {
	return db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Delete(&domain.Request{}).Error
}

// GetRequest fetches a single request by owner and message id, or
// ErrNotFound if missing.
func GetRequest(ctx context.Context, db *gorm.DB, userID, messageID int64) (*domain.Request, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRequests returns every request in the ledger. Row order is
// unspecified; callers that need an ordering use the scoped lookups below.
func ListRequests(ctx context.Context, db *gorm.DB) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).Find(&out).Error
	return out, err
}

// ListUserRequests returns all requests of one user in submission order
// (message_id ascending).
func ListUserRequests(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("message_id ASC").
		Find(&out).Error
	return out, err
}

// LastUserRequest returns the user's most recent request (message_id
// descending), or ErrNotFound if the user has none.
func LastUserRequest(ctx context.Context, db *gorm.DB, userID int64) (*domain.Request, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("message_id DESC").
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListPending returns every pending request ordered oldest first by
// req_time. An empty ledger yields an empty slice.
func ListPending(ctx context.Context, db *gorm.DB) ([]domain.Request, error) {
	var out []domain.Request
	err := db.WithContext(ctx).
		Where("fulfill_time IS NULL").
		Order("req_time ASC").
		Find(&out).Error
	return out, err
}

// LatestFulfilled returns the most recently fulfilled request (fulfill_time
// descending), or ErrNotFound if nothing has been fulfilled yet.
func LatestFulfilled(ctx context.Context, db *gorm.DB) (*domain.Request, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Where("fulfill_time IS NOT NULL").
		Order("fulfill_time DESC").
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// OldestRequestTime returns the minimum req_time across the whole ledger,
// or ErrNotFound when the ledger is empty.
func OldestRequestTime(ctx context.Context, db *gorm.DB) (time.Time, error) {
	var r domain.Request
	err := db.WithContext(ctx).
		Order("req_time ASC").
		First(&r).Error
	if err != nil {
		return time.Time{}, err
	}
	return r.ReqTime, nil
}
