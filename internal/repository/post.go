// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"spotshare/internal/cache"
	"spotshare/internal/models"
	"spotshare/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	GetByIDs(ctx context.Context, ids []string, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListWithCoordinates(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		log:     observability.NewRepoLogger("posts"),
		metrics: observability.NewDatabaseMetrics(db),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Create", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "user_id": post.UserID})
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string, currentUserID uint) (*models.Post, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "GetByID", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("select", "posts")()

	var post models.Post

	var err error
	if currentUserID == 0 {
		// Anonymous reads share a cache entry; liked is always false for them.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyLiked(r.db.WithContext(ctx), currentUserID).
				Preload("User").
				First(&post, "posts.id = ?", id).Error
		})
	} else {
		err = r.applyLiked(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&post, "posts.id = ?", id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetByIDs resolves a set of post IDs, silently dropping IDs whose post no
// longer exists. Liked-post listings rely on this to filter dangling like rows.
func (r *postRepository) GetByIDs(ctx context.Context, ids []string, currentUserID uint) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Where("posts.id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("select", "posts")()

	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListWithCoordinates(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyLiked(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("latitude <> 0 OR longitude <> 0").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyLiked adds a subquery computing the liked flag for the requesting user
// in the same query.
func (r *postRepository) applyLiked(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("posts.*, EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select("posts.*, false as liked")
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Delete", "posts")
	defer span.End()
	defer r.metrics.TrackQuery("delete", "posts")()

	// Soft delete. Like rows are intentionally left in place; reads filter
	// them out when the post is gone.
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	cache.InvalidatePost(ctx, id)
	return nil
}
