// Package services – StatsService
//
// This file implements the StatsService, the reporting facade over the
// aggregation queries. It owns no state and adds no business rules beyond
// input hygiene; the consistency guarantees (single-query partitions, one
// read transaction per weekly report) live in the repo layer.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-request-ledger/internal/domain"
	"github.com/tbourn/go-request-ledger/internal/repo"
)

// StatsService answers the statistical queries behind reporting commands.
type StatsService struct {
	// DB is the GORM handle used for all aggregate reads.
	DB *gorm.DB
}

// ForUser partitions one user's requests by {english, fulfilled} and
// returns the four counts. The buckets sum to the user's request total.
func (s *StatsService) ForUser(ctx context.Context, userID int64) (domain.Stats, error) {
	return repo.UserStats(ctx, s.DB, userID)
}

// Global is ForUser over the entire ledger.
func (s *StatsService) Global(ctx context.Context) (domain.Stats, error) {
	return repo.GlobalStats(ctx, s.DB)
}

// Weekly reports opened and fulfilled counts for each caller-supplied week
// window, keyed by window label. Windows come from the reporting layer; no
// calendar math happens here beyond the inclusive-date to half-open-instant
// conversion documented on repo.WeeklyStats. A nil or empty window list
// yields an empty map.
func (s *StatsService) Weekly(ctx context.Context, weeks []domain.Week) (map[string]domain.WeekActivity, error) {
	if len(weeks) == 0 {
		return map[string]domain.WeekActivity{}, nil
	}
	return repo.WeeklyStats(ctx, s.DB, weeks)
}

// Leaderboard ranks fulfillers by fulfilled-request count, descending.
func (s *StatsService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return repo.Leaderboard(ctx, s.DB)
}
