package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-blog/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for reaction data operations
type LikeRepository interface {
	AddLike(ctx context.Context, userID uint, target models.ReactableRef) error
	RemoveLike(ctx context.Context, userID uint, target models.ReactableRef) error
	HasUserLiked(ctx context.Context, userID uint, target models.ReactableRef) (bool, error)
	CountByTarget(ctx context.Context, target models.ReactableRef) (int64, error)
	GetFans(ctx context.Context, target models.ReactableRef) ([]models.User, error)
	DeleteByTarget(ctx context.Context, target models.ReactableRef) error
	CreatedTimes(ctx context.Context) ([]time.Time, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// AddLike records a like for (user, target). Liking something already liked
// is a no-op: the insert lands on the composite unique index with ON CONFLICT
// DO NOTHING, so a concurrent duplicate can never produce a second row.
func (r *PostgresLikeRepository) AddLike(ctx context.Context, userID uint, target models.ReactableRef) error {
	like := models.Like{
		UserID:     userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
}

// RemoveLike deletes the like for (user, target) if present. Unliking
// something never liked succeeds silently.
func (r *PostgresLikeRepository) RemoveLike(ctx context.Context, userID uint, target models.ReactableRef) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Delete(&models.Like{}).Error
}

// HasUserLiked checks if a user currently has an active like on a target
func (r *PostgresLikeRepository) HasUserLiked(ctx context.Context, userID uint, target models.ReactableRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Count(&count).Error
	return count > 0, err
}

// CountByTarget retrieves the total number of likes for a target
func (r *PostgresLikeRepository) CountByTarget(ctx context.Context, target models.ReactableRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error
	return count, err
}

// GetFans retrieves the users who currently have an active like on a target,
// oldest like first. Each fan appears exactly once because the store holds at
// most one like row per (user, target) pair.
func (r *PostgresLikeRepository) GetFans(ctx context.Context, target models.ReactableRef) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.target_kind = ? AND likes.target_id = ?", target.Kind, target.ID).
		Order("likes.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteByTarget removes every like on a target. Called when the target
// itself is deleted so its likes stop counting toward totals and analytics.
func (r *PostgresLikeRepository) DeleteByTarget(ctx context.Context, target models.ReactableRef) error {
	return r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Delete(&models.Like{}).Error
}

// CreatedTimes retrieves the creation timestamps of all likes in the store,
// across all users and targets. Feeds the analytics aggregation.
func (r *PostgresLikeRepository) CreatedTimes(ctx context.Context) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}
