package service

import (
	"context"
	"errors"

	"spotshare/internal/middleware"
	"spotshare/internal/models"
	"spotshare/internal/repository"
)

// LikeService coordinates the like relation with the per-post counter. The
// repository keeps the row insert and the counter change in one transaction;
// this layer adds existence checks and result shaping.
type LikeService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
}

func NewLikeService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
) *LikeService {
	return &LikeService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
	}
}

// Like records userID's like of postID and returns the post with its fresh
// counter. Liking a post twice is a no-op, not an error.
func (s *LikeService) Like(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.likeRepo.Like(ctx, userID, postID, post.UserID)
	if err != nil {
		middleware.LikeOperations.WithLabelValues("like", "error").Inc()
		return nil, err
	}
	if inserted {
		middleware.LikeOperations.WithLabelValues("like", "new").Inc()
	} else {
		middleware.LikeOperations.WithLabelValues("like", "duplicate").Inc()
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// Unlike removes exactly the (userID, postID) pair. The post may already be
// deleted; the pair is removed regardless and a nil post is returned then.
// Unliking a post that was never liked is a no-op.
func (s *LikeService) Unlike(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	deleted, err := s.likeRepo.Unlike(ctx, userID, postID)
	if err != nil {
		middleware.LikeOperations.WithLabelValues("unlike", "error").Inc()
		return nil, err
	}
	if deleted {
		middleware.LikeOperations.WithLabelValues("unlike", "removed").Inc()
	} else {
		middleware.LikeOperations.WithLabelValues("unlike", "absent").Inc()
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// IsLiked reports whether the user has liked the post.
func (s *LikeService) IsLiked(ctx context.Context, userID uint, postID string) (bool, error) {
	return s.likeRepo.IsLiked(ctx, userID, postID)
}

// Likers returns the users who liked a post, in like-insertion order.
func (s *LikeService) Likers(ctx context.Context, postID string) ([]models.User, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	likes, err := s.likeRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return []models.User{}, nil
	}

	ids := make([]uint, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]models.User, 0, len(users))
	for _, l := range likes {
		if u, ok := byID[l.UserID]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}
