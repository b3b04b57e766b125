package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"spotshare/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placesClientFor(srv *httptest.Server) *PlacesClient {
	return NewPlacesClient(&config.Config{
		PlacesAPIKey:  "test-key",
		PlacesBaseURL: srv.URL,
	})
}

func TestPlacesNearby(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"location": r.URL.Query().Get("location"),
			"radius":   r.URL.Query().Get("radius"),
			"type":     r.URL.Query().Get("type"),
			"key":      r.URL.Query().Get("key"),
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"place_id":"p1","name":"Cafe Aurora","vicinity":"12 Harbour St","geometry":{"location":{"lat":59.33,"lng":18.06}},"types":["cafe"],"rating":4.4}
		]}`))
	}))
	defer srv.Close()

	places, err := placesClientFor(srv).Nearby(context.Background(), 59.33, 18.06, 500, "cafe")
	require.NoError(t, err)

	assert.Equal(t, "/nearbysearch/json", gotPath)
	assert.Equal(t, "59.33,18.06", gotQuery["location"])
	assert.Equal(t, "500", gotQuery["radius"])
	assert.Equal(t, "cafe", gotQuery["type"])
	assert.Equal(t, "test-key", gotQuery["key"])

	require.Len(t, places, 1)
	assert.Equal(t, "p1", places[0].PlaceID)
	assert.Equal(t, "Cafe Aurora", places[0].Name)
	assert.Equal(t, "12 Harbour St", places[0].Address)
	assert.Equal(t, 59.33, places[0].Latitude)
	assert.Equal(t, 18.06, places[0].Longitude)
}

func TestPlacesSearchZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	places, err := placesClientFor(srv).Search(context.Background(), "nowhere in particular")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestPlacesDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("place_id"))
		_, _ = w.Write([]byte(`{"status":"OK","result":
			{"place_id":"p1","name":"Cafe Aurora","formatted_address":"12 Harbour St, Stockholm","geometry":{"location":{"lat":59.33,"lng":18.06}}}
		}`))
	}))
	defer srv.Close()

	place, err := placesClientFor(srv).Details(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cafe Aurora", place.Name)
	assert.Equal(t, "12 Harbour St, Stockholm", place.Address)
}

func TestPlacesInBandFailureStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","results":[]}`))
	}))
	defer srv.Close()

	_, err := placesClientFor(srv).Search(context.Background(), "anything")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
