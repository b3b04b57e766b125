package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"spotshare/internal/config"
	"spotshare/internal/middleware"
	"spotshare/internal/models"
)

// Place is one result from the places API, trimmed to the fields the mobile
// clients render.
type Place struct {
	PlaceID   string   `json:"place_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
}

// PlacesClient proxies the Google Places JSON API (nearby search, text
// search, details). No retry on failure.
type PlacesClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewPlacesClient returns a client for the configured places API.
func NewPlacesClient(cfg *config.Config) *PlacesClient {
	return &PlacesClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     cfg.PlacesAPIKey,
		baseURL:    cfg.PlacesBaseURL,
	}
}

type placeResult struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	Vicinity         string `json:"vicinity"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Types  []string `json:"types"`
	Rating float64  `json:"rating"`
}

type placesResponse struct {
	Results []placeResult `json:"results"`
	Result  *placeResult  `json:"result"`
	Status  string        `json:"status"`
}

// Nearby returns places around the coordinate within radius meters.
func (c *PlacesClient) Nearby(ctx context.Context, lat, lon float64, radius int, placeType string) ([]Place, error) {
	params := url.Values{}
	params.Add("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64)))
	params.Add("radius", strconv.Itoa(radius))
	if placeType != "" {
		params.Add("type", placeType)
	}
	params.Add("key", c.apiKey)

	return c.fetchList(ctx, fmt.Sprintf("%s/nearbysearch/json?%s", c.baseURL, params.Encode()))
}

// Search returns places matching a free-text query.
func (c *PlacesClient) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("key", c.apiKey)

	return c.fetchList(ctx, fmt.Sprintf("%s/textsearch/json?%s", c.baseURL, params.Encode()))
}

// Details returns a single place by its ID.
func (c *PlacesClient) Details(ctx context.Context, placeID string) (*Place, error) {
	params := url.Values{}
	params.Add("place_id", placeID)
	params.Add("fields", "place_id,name,formatted_address,geometry,types,rating")
	params.Add("key", c.apiKey)

	parsed, err := c.fetch(ctx, fmt.Sprintf("%s/details/json?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	if parsed.Result == nil {
		return nil, models.NewNotFoundError("Place", placeID)
	}
	p := mapPlace(*parsed.Result)
	return &p, nil
}

func (c *PlacesClient) fetchList(ctx context.Context, endpoint string) ([]Place, error) {
	parsed, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		places = append(places, mapPlace(r))
	}
	return places, nil
}

func (c *PlacesClient) fetch(ctx context.Context, endpoint string) (*placesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.NewUpstreamError("places", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.ExternalAPIRequests.WithLabelValues("places", "error").Inc()
		return nil, models.NewUpstreamError("places", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.ExternalAPIRequests.WithLabelValues("places", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, models.NewUpstreamError("places", fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var parsed placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		middleware.ExternalAPIRequests.WithLabelValues("places", "error").Inc()
		return nil, models.NewUpstreamError("places", err)
	}

	// The API reports logical failures in-band with a 200 status
	if parsed.Status != "" && parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		middleware.ExternalAPIRequests.WithLabelValues("places", "error").Inc()
		return nil, models.NewUpstreamError("places", fmt.Errorf("status %s", parsed.Status))
	}
	middleware.ExternalAPIRequests.WithLabelValues("places", "ok").Inc()

	return &parsed, nil
}

func mapPlace(r placeResult) Place {
	address := r.FormattedAddress
	if address == "" {
		address = r.Vicinity
	}
	return Place{
		PlaceID:   r.PlaceID,
		Name:      r.Name,
		Address:   address,
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
		Types:     r.Types,
		Rating:    r.Rating,
	}
}
