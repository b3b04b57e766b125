package server

import (
	"spotshare/internal/middleware"
	"spotshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed. A failed read degrades to an empty page so
// browsing never hard-fails.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	entries, err := s.feedService.GetFeed(c.Context(), page.Limit, page.Offset, userID)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "feed read failed", "error", err)
		return c.JSON([]models.FeedEntry{})
	}

	return c.JSON(entries)
}

// GetMapFeed handles GET /api/feed/map, returning only posts that carry a
// coordinate. Degrades like GetFeed.
func (s *Server) GetMapFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	userID, _ := s.optionalUserID(c)

	entries, err := s.feedService.GetMapFeed(c.Context(), page.Limit, page.Offset, userID)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "map feed read failed", "error", err)
		return c.JSON([]models.FeedEntry{})
	}

	return c.JSON(entries)
}
