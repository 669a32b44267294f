// Package services defines the business logic for the user registry, the
// request ledger, and the aggregation engine. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for the chat-handling layer calling into the
// ledger; translating them into user-visible messages happens there, never
// here.
package services

import "errors"

// Registry and ledger errors.
var (
	// ErrUserNotFound indicates that the addressed user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when registering a user id that is
	// already present. Registration is insert-only; callers wanting
	// upsert semantics check existence first and update.
	ErrDuplicateUser = errors.New("user already registered")

	// ErrRequestNotFound indicates that the addressed request does not
	// exist, for operations whose contract requires one.
	ErrRequestNotFound = errors.New("request not found")

	// ErrDuplicateRequest is returned when opening a request with a
	// message id that is already in the ledger.
	ErrDuplicateRequest = errors.New("request already registered")

	// ErrUnknownUser is returned when opening a request for a user id
	// that has never been registered (foreign key breach).
	ErrUnknownUser = errors.New("request references unknown user")
)
