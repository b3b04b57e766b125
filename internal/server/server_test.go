package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"spotshare/internal/blob"
	"spotshare/internal/config"
	"spotshare/internal/database"
	"spotshare/internal/models"
	"spotshare/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-which-is-long-enough-for-hmac"

// newTestServer builds a server against an in-memory database and a fake blob
// store, with all routes registered.
func newTestServer(t *testing.T) (*Server, *fiber.App, *blob.FakeStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := blob.NewFakeStore()
	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		Port:      "0",
		Env:       "test",
	}

	s := NewServerWithDeps(cfg, db, nil, store)
	app := fiber.New(fiber.Config{BodyLimit: 25 * 1024 * 1024})
	s.SetupRoutes(app)
	return s, app, store
}

func createUser(t *testing.T, s *Server, username string) (*models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// postImageForm builds the multipart body for POST /api/posts.
func postImageForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func createPostViaAPI(t *testing.T, app *fiber.App, token string, title string) models.Post {
	t.Helper()
	fields := map[string]string{
		"title":               title,
		"content":             "caught at golden hour",
		"place_name":          "Harbour Pier",
		"latitude":            "59.33",
		"longitude":           "18.06",
		"weather_temperature": "17.5",
		"weather_description": "clear sky",
		"weather_icon":        "01d",
	}
	body, contentType := postImageForm(t, fields, testutil.TinyPNG(t, 48, 48))

	req := httptest.NewRequest(fiber.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	return post
}

func likeURL(postID string) string {
	return fmt.Sprintf("/api/posts/%s/like", postID)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
