// Package geo provides clients for the external places and weather APIs.
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

	"spotshare/internal/cache"
	"spotshare/internal/config"
	"spotshare/internal/middleware"
	"spotshare/internal/models"
)

// WeatherClient fetches current conditions by coordinate (OpenWeatherMap
// contract, metric units). Calls are never retried; a failed snapshot fetch
// surfaces to the caller.
type WeatherClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewWeatherClient returns a client for the configured weather API.
func NewWeatherClient(cfg *config.Config) *WeatherClient {
	return &WeatherClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     cfg.WeatherAPIKey,
		baseURL:    cfg.WeatherBaseURL,
	}
}

type weatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Current returns the conditions snapshot for the coordinate. Responses are
// cached briefly since nearby posts created in quick succession hit the same
// coordinate bucket.
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	var w models.Weather
	err := cache.Aside(ctx, cache.WeatherKey(lat, lon), &w, cache.WeatherTTL, func() error {
		fetched, err := c.fetch(ctx, lat, lon)
		if err != nil {
			return err
		}
		w = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *WeatherClient) fetch(ctx context.Context, lat, lon float64) (*models.Weather, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("appid", c.apiKey)
	params.Add("units", "metric")

	endpoint := fmt.Sprintf("%s/weather?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.NewUpstreamError("weather", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		middleware.ExternalAPIRequests.WithLabelValues("weather", "error").Inc()
		return nil, models.NewUpstreamError("weather", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.ExternalAPIRequests.WithLabelValues("weather", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, models.NewUpstreamError("weather", fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var parsed weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		middleware.ExternalAPIRequests.WithLabelValues("weather", "error").Inc()
		return nil, models.NewUpstreamError("weather", err)
	}
	middleware.ExternalAPIRequests.WithLabelValues("weather", "ok").Inc()

	w := &models.Weather{Temperature: parsed.Main.Temp}
	if len(parsed.Weather) > 0 {
		w.Description = parsed.Weather[0].Description
		w.Icon = parsed.Weather[0].Icon
	}
	return w, nil
}
