package service

import (
	"context"

	"spotshare/internal/cache"
	"spotshare/internal/models"
	"spotshare/internal/repository"
)

// FeedService assembles the global feed: recent posts across all users,
// enriched with each owner's display fields.
type FeedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// GetFeed returns a page of the global feed, newest first. The anonymous
// first page is served from a short-lived cache entry since every visitor
// requests the same slice; authenticated reads bypass it because the liked
// flag is per user.
func (s *FeedService) GetFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]models.FeedEntry, error) {
	if currentUserID == 0 && offset == 0 && limit <= 20 {
		var entries []models.FeedEntry
		err := cache.Aside(ctx, cache.FeedFirstPageKey, &entries, cache.FeedTTL, func() error {
			posts, err := s.postRepo.List(ctx, limit, offset, 0)
			if err != nil {
				return err
			}
			entries = buildFeedEntries(posts)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return entries, nil
	}

	posts, err := s.postRepo.List(ctx, limit, offset, currentUserID)
	if err != nil {
		return nil, err
	}
	return buildFeedEntries(posts), nil
}

// GetMapFeed returns feed entries that carry a coordinate, for the map view.
func (s *FeedService) GetMapFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]models.FeedEntry, error) {
	if currentUserID == 0 && offset == 0 && limit <= 20 {
		var entries []models.FeedEntry
		err := cache.Aside(ctx, cache.MapFeedKey, &entries, cache.FeedTTL, func() error {
			posts, err := s.postRepo.ListWithCoordinates(ctx, limit, offset, 0)
			if err != nil {
				return err
			}
			entries = buildFeedEntries(posts)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return entries, nil
	}

	posts, err := s.postRepo.ListWithCoordinates(ctx, limit, offset, currentUserID)
	if err != nil {
		return nil, err
	}
	return buildFeedEntries(posts), nil
}

func buildFeedEntries(posts []*models.Post) []models.FeedEntry {
	entries := make([]models.FeedEntry, 0, len(posts))
	for _, p := range posts {
		entry := models.FeedEntry{
			Post:          *p,
			OwnerUsername: p.User.Username,
			OwnerAvatar:   p.User.Avatar,
		}
		// The owner record travels in the dedicated fields, not nested
		entry.User = models.User{}
		entries = append(entries, entry)
	}
	return entries
}
