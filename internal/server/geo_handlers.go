package server

import (
	"strconv"

	"spotshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPlacesRadius = 1000
	maxPlacesRadius     = 50000
)

// GetNearbyPlaces handles GET /api/places/nearby?lat=..&lon=..&radius=..&type=..
func (s *Server) GetNearbyPlaces(c *fiber.Ctx) error {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return nil
	}

	radius := c.QueryInt("radius", defaultPlacesRadius)
	if radius <= 0 {
		radius = defaultPlacesRadius
	}
	if radius > maxPlacesRadius {
		radius = maxPlacesRadius
	}

	places, err := s.places.Nearby(c.Context(), lat, lon, radius, c.Query("type"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(places)
}

// SearchPlaces handles GET /api/places/search?q=...
func (s *Server) SearchPlaces(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	places, err := s.places.Search(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(places)
}

// GetPlaceDetails handles GET /api/places/:placeId
func (s *Server) GetPlaceDetails(c *fiber.Ctx) error {
	placeID := c.Params("placeId")
	if placeID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid place ID"))
	}

	place, err := s.places.Details(c.Context(), placeID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(place)
}

// GetWeather handles GET /api/weather?lat=..&lon=..
func (s *Server) GetWeather(c *fiber.Ctx) error {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		return nil
	}

	weather, err := s.weather.Current(c.Context(), lat, lon)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(weather)
}

// parseCoordinates reads and bounds-checks lat/lon query parameters. On
// failure it writes the 400 response and returns ok=false.
func parseCoordinates(c *fiber.Ctx) (lat, lon float64, ok bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Valid lat and lon are required"))
		return 0, 0, false
	}
	return lat, lon, true
}
