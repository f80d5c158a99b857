package repositories

import (
	"context"
	"errors"
	"sort"

	"github.com/anonto42/nano-blog/backend/internal/models"
)

// ErrNoAnalyticsData is returned when the store holds no likes at all, so
// callers can tell "checked, nothing yet" apart from a failed scan.
var ErrNoAnalyticsData = errors.New("no analytics data available")

// AnalyticsRepository defines the interface for reaction analytics
type AnalyticsRepository interface {
	DailyTotals(ctx context.Context) ([]models.DailyTotal, error)
}

// LikeAnalyticsRepository aggregates likes per calendar day. It is a pure
// read-only projection over the reaction store.
type LikeAnalyticsRepository struct {
	likes LikeRepository
}

// NewLikeAnalyticsRepository creates a new LikeAnalyticsRepository
func NewLikeAnalyticsRepository(likes LikeRepository) *LikeAnalyticsRepository {
	return &LikeAnalyticsRepository{likes: likes}
}

// DailyTotals buckets all like rows by the UTC calendar date of their
// creation and returns one total per non-empty day, ascending by date.
// The truncation happens here rather than in SQL so the aggregation behaves
// identically on every storage backend.
func (r *LikeAnalyticsRepository) DailyTotals(ctx context.Context) ([]models.DailyTotal, error) {
	times, err := r.likes.CreatedTimes(ctx)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, ErrNoAnalyticsData
	}

	counts := make(map[string]int64)
	for _, ts := range times {
		counts[ts.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	totals := make([]models.DailyTotal, len(dates))
	for i, date := range dates {
		totals[i] = models.DailyTotal{Date: date, TotalLikes: counts[date]}
	}
	return totals, nil
}
