// Package domain defines the persistence models for users and requests.
// These types are mapped with GORM and form the core data layer of the
// request ledger.
package domain

import "time"

// User represents a chat-platform member known to the ledger. The primary
// key is the platform-assigned user id, never generated locally. Profile
// fields are nullable because the platform does not guarantee either.
//
// Fields:
//   - UserID: platform user id (immutable primary key).
//   - Name: display name, if the platform supplied one.
//   - UserName: public handle, if the platform supplied one.
//
// Deleting a user cascades to all of their requests (see Request).
type User struct {
	UserID   int64   `json:"user_id"   gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Name     *string `json:"name"      gorm:"column:name"`
	UserName *string `json:"user_name" gorm:"column:user_name"`

	// Requests owns the FK declaration: the constraint lands on the
	// requests table, referencing users, with cascade delete.
	Requests []Request `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// UserProfile is the plain name/handle pair returned by listing operations.
// It carries no persistence tags; it never crosses back into the store.
type UserProfile struct {
	Name     *string `json:"name"`
	UserName *string `json:"user_name"`
}

// Request represents a single support ticket opened by a user. The primary
// key is the platform message id that carried the request, used as a
// monotonic proxy for submission order.
//
// A request is either pending (the three fulfillment fields are all null)
// or fulfilled (all three are set). The triple is only ever written as a
// unit, so no reader can observe it partially populated.
//
// Fields:
//   - UserID: owner of the request; FK to users with cascade delete.
//   - IsEnglish: language classification supplied by the caller.
//   - MessageID: platform message id (immutable primary key).
//   - ReqTime: submission timestamp, set once at creation.
//   - FulfillMessageID: id of the acknowledgement message, when fulfilled.
//   - FulfillTime: fulfillment timestamp; always >= ReqTime when present.
//   - FulfilledBy: id of the user credited with fulfilling the request.
//
// Field order is the canonical column order of the requests table; the
// backup exporter depends on it.
type Request struct {
	UserID           int64      `json:"user_id"            gorm:"column:user_id;not null;index"`
	IsEnglish        bool       `json:"is_english"         gorm:"column:is_english;not null"`
	MessageID        int64      `json:"message_id"         gorm:"column:message_id;primaryKey;autoIncrement:false"`
	ReqTime          time.Time  `json:"req_time"           gorm:"column:req_time;not null"`
	FulfillMessageID *int64     `json:"fulfill_message_id" gorm:"column:fulfill_message_id"`
	FulfillTime      *time.Time `json:"fulfill_time"       gorm:"column:fulfill_time"`
	FulfilledBy      *int64     `json:"fulfilled_by"       gorm:"column:fulfilled_by"`
}

// TableName returns the database table name for Request.
func (Request) TableName() string { return "requests" }

// Fulfilled reports whether the request has been fulfilled. The fulfillment
// triple is written atomically, so checking FulfillTime alone is sufficient.
func (r *Request) Fulfilled() bool { return r.FulfillTime != nil }

// Stats is the four-way partition of a request population by language and
// fulfillment state. The four buckets always sum to the population size.
type Stats struct {
	EnglishFulfilled    int64 `json:"english_fulfilled"`
	NonEnglishFulfilled int64 `json:"non_english_fulfilled"`
	EnglishPending      int64 `json:"english_pending"`
	NonEnglishPending   int64 `json:"non_english_pending"`
}

// Total returns the number of requests covered by the four buckets.
func (s Stats) Total() int64 {
	return s.EnglishFulfilled + s.NonEnglishFulfilled + s.EnglishPending + s.NonEnglishPending
}

// Week is a caller-supplied reporting window. Start and End are both
// inclusive dates; the engine extends End by one day and treats the result
// as an exclusive upper bound.
type Week struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// WeekActivity is the per-window report: requests opened within the window
// (by req_time) and requests fulfilled within it (by fulfill_time). A
// request opened in one week and fulfilled in the next counts once in each.
type WeekActivity struct {
	Opened    int64 `json:"opened"`
	Fulfilled int64 `json:"fulfilled"`
}

// LeaderboardEntry is one row of the fulfiller leaderboard.
type LeaderboardEntry struct {
	Fulfilled   int64 `json:"fulfilled"`
	FulfillerID int64 `json:"fulfiller_id"`
}
