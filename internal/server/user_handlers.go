package server

import (
	"context"
	"errors"
	"time"

	"spotshare/internal/middleware"
	"spotshare/internal/models"
	"spotshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), userID, true)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me. The request is multipart when an
// avatar file is attached and plain JSON otherwise.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	in := service.UpdateProfileInput{UserID: userID}

	avatar, contentType, filename, hasAvatar, err := readFormFile(c, "avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read avatar upload"))
	}
	if hasAvatar {
		in.Avatar = avatar
		in.AvatarContentType = contentType
		in.AvatarFilename = filename
		in.Username = c.FormValue("username")
	} else {
		var req struct {
			Username string `json:"username"`
		}
		if err := c.BodyParser(&req); err == nil {
			in.Username = req.Username
		} else {
			in.Username = c.FormValue("username")
		}
	}

	user, err := s.userService.UpdateProfile(ctx, in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(ctx, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseUserID(c, "id")
	if err != nil {
		return nil
	}

	requesterID := c.Locals("userID").(uint)
	profile, err := s.userService.GetProfile(c.Context(), id, id == requesterID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseUserID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID := c.Locals("userID").(uint)

	posts, err := s.postService.ListUserPosts(ctx, targetID, service.ListPostsInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetMyLikedPosts handles GET /api/users/me/liked
func (s *Server) GetMyLikedPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	posts, err := s.postService.GetLikedPosts(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// optionalUserID extracts the requester from the Authorization header on
// public routes without enforcing it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	return middleware.OptionalUserID(c)
}
