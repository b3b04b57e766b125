package server

import (
	"strconv"

	"spotshare/internal/models"
	"spotshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The request is multipart: text fields
// plus the photo under "image". Weather fields are optional; when absent the
// server captures a snapshot from the weather API.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	image, contentType, filename, hasImage, err := readFormFile(c, "image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read image upload"))
	}
	if !hasImage {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image is required"))
	}

	in := service.CreatePostInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		PlaceName:   c.FormValue("place_name"),
		Latitude:    parseFloatForm(c, "latitude", 0),
		Longitude:   parseFloatForm(c, "longitude", 0),
		Filename:    filename,
		ContentType: contentType,
		Image:       image,
	}

	// A client that already holds conditions for the spot sends them along
	if raw := c.FormValue("weather_temperature"); raw != "" {
		temp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid weather temperature"))
		}
		in.Weather = &models.Weather{
			Temperature: temp,
			Description: c.FormValue("weather_description"),
			Icon:        c.FormValue("weather_icon"),
		}
	}

	post, err := s.postService.CreatePost(ctx, in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parsePostID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
