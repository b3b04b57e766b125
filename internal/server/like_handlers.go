package server

import (
	"spotshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like. Liking twice is a no-op; the
// response always carries the post with its current counter.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	post, err := s.likeService.Like(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like. The pair is removed even
// when the post has since been deleted; the body is empty in that case.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	post, err := s.likeService.Unlike(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if post == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.JSON(post)
}

// GetLikeStatus handles GET /api/posts/:id/liked
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	liked, err := s.likeService.IsLiked(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"liked": liked})
}

// GetPostLikers handles GET /api/posts/:id/likes
func (s *Server) GetPostLikers(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.likeService.Likers(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}
