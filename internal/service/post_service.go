// Package service implements the application's business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	"spotshare/internal/models"
	"spotshare/internal/repository"

	"github.com/google/uuid"
)

const (
	maxTitleLen   = 300
	maxContentLen = 5000
)

// WeatherProvider captures the conditions snapshot for a coordinate. Satisfied
// by geo.WeatherClient.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*models.Weather, error)
}

type CreatePostInput struct {
	UserID    uint
	Title     string
	Content   string
	PlaceName string
	Latitude  float64
	Longitude float64
	// Weather is the client-supplied snapshot. When nil the server captures
	// one from the weather API at creation time.
	Weather     *models.Weather
	Filename    string
	ContentType string
	Image       []byte
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type DeletePostInput struct {
	UserID uint
	PostID string
}

type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	images   *ImageService
	weather  WeatherProvider
}

func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	images *ImageService,
	weather WeatherProvider,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
		images:   images,
		weather:  weather,
	}
}

// NewPostID mints a short hex post identifier. It is generated before the row
// exists because the uploaded image is stored under it.
func NewPostID() string {
	return uuid.NewString()[:8]
}

// CreatePost validates all input up front, stores the image, resolves the
// weather snapshot, and only then writes the post row. Any failure after the
// image upload removes the uploaded objects again, so a failed create leaves
// nothing behind.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxTitleLen))
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", maxContentLen))
	}
	if strings.TrimSpace(in.PlaceName) == "" {
		return nil, models.NewValidationError("Place name is required")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, models.NewValidationError("Latitude out of range")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, models.NewValidationError("Longitude out of range")
	}
	if len(in.Image) == 0 {
		return nil, models.NewValidationError("Image is required")
	}

	postID := NewPostID()

	stored, err := s.images.Process(ctx, ProcessImageInput{
		UserID:      in.UserID,
		Name:        "posts/" + postID,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Content:     in.Image,
	})
	if err != nil {
		return nil, err
	}

	weather := in.Weather
	if weather == nil && s.weather != nil {
		weather, err = s.weather.Current(ctx, in.Latitude, in.Longitude)
		if err != nil {
			s.images.Cleanup(ctx, stored.Keys)
			return nil, err
		}
	}

	post := &models.Post{
		ID:        postID,
		UserID:    in.UserID,
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  stored.URL,
		PlaceName: in.PlaceName,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if weather != nil {
		post.Weather = *weather
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.images.Cleanup(ctx, stored.Keys)
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string, currentUserID uint) (*models.Post, error) {
	if id == "" {
		return nil, models.NewValidationError("Invalid post ID")
	}
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// ListUserPosts returns a user's posts, newest first. The user must exist.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, in ListPostsInput) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, userID, in.Limit, in.Offset, in.CurrentUserID)
}

// DeletePost soft-deletes the post record. Only the owner may delete. Like
// rows referencing the post stay in place and are filtered out of reads, and
// the image objects stay in the blob store (the soft-deleted row still
// references them).
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

// GetLikedPosts resolves the user's liked posts in like-insertion order.
// Likes whose post has since been deleted are dropped from the result, not
// from storage.
func (s *PostService) GetLikedPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	likes, err := s.likeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return []*models.Post{}, nil
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.PostID)
	}
	posts, err := s.postRepo.GetByIDs(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*models.Post, 0, len(posts))
	for _, l := range likes {
		if p, ok := byID[l.PostID]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
