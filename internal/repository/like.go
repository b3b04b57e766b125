package repository

import (
	"context"

	"spotshare/internal/cache"
	"spotshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository maintains the (user, post, owner) like relation and keeps the
// denormalized per-post counter in step with it.
type LikeRepository interface {
	// Like records that userID liked postID owned by ownerID. Returns true if
	// a new row was inserted, false if the like already existed.
	Like(ctx context.Context, userID uint, postID string, ownerID uint) (bool, error)
	// Unlike removes exactly the (userID, postID) pair. Returns true if a row
	// was deleted, false if the user had not liked the post.
	Unlike(ctx context.Context, userID uint, postID string) (bool, error)
	IsLiked(ctx context.Context, userID uint, postID string) (bool, error)
	// ListByUser returns the user's like rows in insertion order.
	ListByUser(ctx context.Context, userID uint) ([]models.Like, error)
	// ListByPost returns the like rows for a post in insertion order.
	ListByPost(ctx context.Context, postID string) ([]models.Like, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Like(ctx context.Context, userID uint, postID string, ownerID uint) (bool, error) {
	inserted := false

	// The row insert and the counter increment commit together so the counter
	// can never drift from the relation.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&models.Like{UserID: userID, PostID: postID, OwnerID: ownerID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already liked; idempotent no-op, counter untouched
			return nil
		}
		inserted = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}

	if inserted {
		cache.InvalidatePost(ctx, postID)
		cache.Invalidate(ctx, cache.UserLikesKey(userID))
	}
	return inserted, nil
}

func (r *likeRepository) Unlike(ctx context.Context, userID uint, postID string) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		// CASE expression rather than GREATEST so the floor works on SQLite too
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}

	if deleted {
		cache.InvalidatePost(ctx, postID)
		cache.Invalidate(ctx, cache.UserLikesKey(userID))
	}
	return deleted, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID uint, postID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	var likes []models.Like

	// Cached per user; Like and Unlike invalidate the key.
	err := cache.Aside(ctx, cache.UserLikesKey(userID), &likes, cache.UserLikesTTL, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("id ASC").
			Find(&likes).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) ListByPost(ctx context.Context, postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
