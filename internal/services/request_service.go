// Package services – RequestService
//
// This file implements the RequestService, which governs the request
// lifecycle: Pending -> Fulfilled -> (revertible back to) Pending, plus
// deletion from either state. It maps driver-level constraint failures to
// stable service errors (ErrDuplicateRequest, ErrUnknownUser) and treats a
// zero-row lifecycle update as ErrRequestNotFound so misaddressed commands
// surface instead of silently doing nothing.
//
// Concurrency & atomicity:
//   - Each mutation is a single statement running in its own transaction;
//     the fulfillment triple is set and cleared as one UPDATE, so readers
//     see it either fully null or fully populated.
//   - Two fulfills racing on one message id resolve last-writer-wins at
//     the row level; no application locking is added on top.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
	"github.com/tbourn/go-request-ledger/internal/metrics"
	"github.com/tbourn/go-request-ledger/internal/repo"
)

// RequestService implements the use-cases around the request ledger.
// It is safe for concurrent use from many event handlers.
type RequestService struct {
	// DB is the GORM handle used for all ledger operations.
	DB *gorm.DB
}

// Open inserts a new pending request for userID carried by messageID.
//
// Errors:
//   - ErrUnknownUser if userID is not registered (foreign key breach).
//   - ErrDuplicateRequest if messageID is already in the ledger.
//   - The underlying DB error for unexpected failures.
func (s *RequestService) Open(ctx context.Context, userID int64, isEnglish bool, messageID int64) (*domain.Request, error) {
	r, err := repo.CreateRequest(ctx, s.DB, userID, isEnglish, messageID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKey(err):
			return nil, ErrUnknownUser
		case errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err):
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	metrics.RequestOpened(isEnglish)
	return r, nil
}

// Fulfill marks the request (userID, messageID) as fulfilled: the
// acknowledgement id, the fulfiller id, and the fulfillment timestamp are
// set together in one atomic update. Returns ErrRequestNotFound when the
// addressed row does not exist.
func (s *RequestService) Fulfill(ctx context.Context, userID, messageID, fulfillMessageID, fulfilledBy int64) error {
	if err := repo.FulfillRequest(ctx, s.DB, userID, messageID, fulfillMessageID, fulfilledBy); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	metrics.RequestFulfilled()
	return nil
}

// Revert clears the fulfillment triple of (userID, messageID) in one atomic
// update, returning the request to pending. Returns ErrRequestNotFound when
// the addressed row does not exist.
func (s *RequestService) Revert(ctx context.Context, userID, messageID int64) error {
	if err := repo.RevertRequest(ctx, s.DB, userID, messageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	metrics.RequestReverted()
	return nil
}

// ReassignFulfiller re-attributes an existing fulfillment, addressed by its
// acknowledgement message id, to a different fulfiller. The fulfillment
// timestamp is untouched. Returns ErrRequestNotFound when no request
// carries that acknowledgement id.
func (s *RequestService) ReassignFulfiller(ctx context.Context, fulfillMessageID, fulfilledBy int64) error {
	if err := repo.ReassignFulfiller(ctx, s.DB, fulfillMessageID, fulfilledBy); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return nil
}

// Delete removes the request carried by messageID from either lifecycle
// state. Deleting an absent id is a no-op.
func (s *RequestService) Delete(ctx context.Context, messageID int64) error {
	if err := repo.DeleteRequest(ctx, s.DB, messageID); err != nil {
		return err
	}
	metrics.RequestDeleted()
	return nil
}

// Get returns the request (userID, messageID), or ErrRequestNotFound.
func (s *RequestService) Get(ctx context.Context, userID, messageID int64) (*domain.Request, error) {
	r, err := repo.GetRequest(ctx, s.DB, userID, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns the whole ledger.
func (s *RequestService) List(ctx context.Context) ([]domain.Request, error) {
	return repo.ListRequests(ctx, s.DB)
}

// ListForUser returns the user's requests in submission order.
func (s *RequestService) ListForUser(ctx context.Context, userID int64) ([]domain.Request, error) {
	return repo.ListUserRequests(ctx, s.DB, userID)
}

// LastForUser returns the user's most recent request, or ErrRequestNotFound
// if the user has never opened one.
func (s *RequestService) LastForUser(ctx context.Context, userID int64) (*domain.Request, error) {
	r, err := repo.LastUserRequest(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

// Pending returns all pending requests, oldest first.
func (s *RequestService) Pending(ctx context.Context) ([]domain.Request, error) {
	return repo.ListPending(ctx, s.DB)
}

// LatestFulfilled returns the most recently fulfilled request, or
// ErrRequestNotFound if nothing has been fulfilled yet.
func (s *RequestService) LatestFulfilled(ctx context.Context) (*domain.Request, error) {
	r, err := repo.LatestFulfilled(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

// OldestRequestTime returns the earliest submission timestamp in the
// ledger, or ErrRequestNotFound when the ledger is empty.
func (s *RequestService) OldestRequestTime(ctx context.Context) (time.Time, error) {
	t, err := repo.OldestRequestTime(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return time.Time{}, ErrRequestNotFound
		}
		return time.Time{}, err
	}
	return t, nil
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// isForeignKey attempts to detect foreign-key violations across drivers
// that may not map to gorm.ErrForeignKeyViolated.
func isForeignKey(err error) bool {
	// SQLite typically: "FOREIGN KEY constraint failed"
	// Postgres typically: "violates foreign key constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}
