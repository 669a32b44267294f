// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate queries behind the
// reporting commands: per-user and global language/fulfillment partitions,
// caller-defined weekly activity windows, and the fulfiller leaderboard.
// Each function is context-aware and safe to call from services.
//
// Every statistic is computed from a single query (or a single read
// transaction for the weekly windows), so each reported figure is
// internally consistent with the ledger at one point in time: the four
// partition buckets always sum to the row count the query saw.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
)

// statsRow is the scan target for the grouped partition query.
type statsRow struct {
	IsEnglish   bool
	IsFulfilled bool
	N           int64
}

// UserStats partitions one user's requests into the four combinations of
// {english, fulfilled} and returns the counts, with absent combinations
// left at zero. A user with no requests yields the zero Stats.
func UserStats(ctx context.Context, db *gorm.DB, userID int64) (domain.Stats, error) {
	var rows []statsRow
	err := db.WithContext(ctx).Raw(
		`SELECT is_english, (fulfill_time IS NOT NULL) AS is_fulfilled, COUNT(*) AS n
		 FROM requests
		 WHERE user_id = ?
		 GROUP BY is_english, is_fulfilled`, userID,
	).Scan(&rows).Error
	if err != nil {
		return domain.Stats{}, err
	}
	return bucketize(rows), nil
}

// GlobalStats is UserStats over the whole ledger.
func GlobalStats(ctx context.Context, db *gorm.DB) (domain.Stats, error) {
	var rows []statsRow
	err := db.WithContext(ctx).Raw(
		`SELECT is_english, (fulfill_time IS NOT NULL) AS is_fulfilled, COUNT(*) AS n
		 FROM requests
		 GROUP BY is_english, is_fulfilled`,
	).Scan(&rows).Error
	if err != nil {
		return domain.Stats{}, err
	}
	return bucketize(rows), nil
}

// bucketize folds grouped rows into the fixed four-bucket shape.
func bucketize(rows []statsRow) domain.Stats {
	var s domain.Stats
	for _, r := range rows {
		switch {
		case r.IsFulfilled && r.IsEnglish:
			s.EnglishFulfilled = r.N
		case r.IsFulfilled && !r.IsEnglish:
			s.NonEnglishFulfilled = r.N
		case !r.IsFulfilled && r.IsEnglish:
			s.EnglishPending = r.N
		default:
			s.NonEnglishPending = r.N
		}
	}
	return s
}

// WeeklyStats counts, for each supplied window, the requests opened within
// it (by req_time) and the requests fulfilled within it (by fulfill_time).
// The window covers [Start, End+24h): the end date is inclusive as a date,
// exclusive as an instant. All windows are evaluated inside one read
// transaction so the report is a consistent snapshot.
func WeeklyStats(ctx context.Context, db *gorm.DB, weeks []domain.Week) (map[string]domain.WeekActivity, error) {
	out := make(map[string]domain.WeekActivity, len(weeks))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range weeks {
			upper := w.End.Add(24 * time.Hour)

			var opened int64
			if err := tx.Model(&domain.Request{}).
				Where("req_time >= ? AND req_time < ?", w.Start, upper).
				Count(&opened).Error; err != nil {
				return err
			}

			var fulfilled int64
			if err := tx.Model(&domain.Request{}).
				Where("fulfill_time >= ? AND fulfill_time < ?", w.Start, upper).
				Count(&fulfilled).Error; err != nil {
				return err
			}

			out[w.Label] = domain.WeekActivity{Opened: opened, Fulfilled: fulfilled}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Leaderboard returns fulfillers ranked by the number of requests credited
// to them, most prolific first. Only fulfilled requests participate. An
// untouched ledger yields an empty slice.
func Leaderboard(ctx context.Context, db *gorm.DB) ([]domain.LeaderboardEntry, error) {
	var out []domain.LeaderboardEntry
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(message_id) AS fulfilled, fulfilled_by AS fulfiller_id
		 FROM requests
		 WHERE fulfilled_by IS NOT NULL
		 GROUP BY fulfilled_by
		 ORDER BY fulfilled DESC`,
	).Scan(&out).Error
	return out, err
}
