// Package test holds cross-package end-to-end scenarios that drive the API
// the way a client would and then audit storage-level invariants.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"aperture/internal/config"
	"aperture/internal/models"
	"aperture/internal/repository"
	"aperture/internal/repository/memstore"
	"aperture/internal/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Sup3rSecret!Pass"

type harness struct {
	app    *fiber.App
	stores *repository.Stores
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "e2e-secret-key-0123456789-0123456789",
		StorageBackend: config.StorageBackendMemory,
		FeatureFlags:   "auto_notifications=on,cached_feeds=on",
	}

	stores := memstore.NewStores(memstore.New())
	srv := server.NewServerWithDeps(cfg, stores, nil, redisClient)
	app := fiber.New()
	srv.SetupRoutes(app)
	return &harness{app: app, stores: stores}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp.StatusCode, parsed
}

func (h *harness) signup(t *testing.T, username string) (string, uint) {
	t.Helper()
	status, body := h.do(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	user := body["user"].(map[string]any)
	return body["token"].(string), uint(user["id"].(float64))
}

// TestSocialScenario walks three users through the whole surface and then
// audits that every denormalized counter matches the rows behind it.
func TestSocialScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	anaToken, _ := h.signup(t, "ana")
	benToken, benID := h.signup(t, "ben")
	calToken, _ := h.signup(t, "cal")

	// Ben posts two photos.
	status, body := h.do(t, http.MethodPost, "/api/photos", benToken, fiber.Map{
		"image_url": "https://example.com/1.jpg", "caption": "first",
	})
	require.Equal(t, http.StatusCreated, status)
	photo1 := uint(body["id"].(float64))

	status, body = h.do(t, http.MethodPost, "/api/photos", benToken, fiber.Map{
		"image_url": "https://example.com/2.jpg", "caption": "second",
	})
	require.Equal(t, http.StatusCreated, status)
	photo2 := uint(body["id"].(float64))

	// Ana and Cal follow Ben and like his first photo.
	for _, token := range []string{anaToken, calToken} {
		status, _ = h.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", benID), token, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = h.do(t, http.MethodPost, fmt.Sprintf("/api/photos/%d/like", photo1), token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	// Ana changes her mind.
	status, likeBody := h.do(t, http.MethodPost, fmt.Sprintf("/api/photos/%d/like", photo1), anaToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, likeBody["liked"])

	// Cal comments; Ana likes the comment.
	status, body = h.do(t, http.MethodPost, fmt.Sprintf("/api/photos/%d/comments", photo1), calToken,
		fiber.Map{"content": "great frame"})
	require.Equal(t, http.StatusCreated, status)
	commentID := uint(body["id"].(float64))

	status, _ = h.do(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/like", commentID), anaToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Ben hears about all of it.
	status, body = h.do(t, http.MethodGet, "/api/notifications/unread-count", benToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), body["count"], "two follows, two likes, one comment; un-liking does not retract")

	// The photo page shows the surviving like and the comment.
	status, body = h.do(t, http.MethodGet, fmt.Sprintf("/api/photos/%d", photo1), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["like_count"])
	assert.Equal(t, float64(1), body["comment_count"])

	// Audit: counters equal active-row counts for every photo.
	for _, photoID := range []uint{photo1, photo2} {
		photo, err := h.stores.Photos.GetByID(ctx, photoID, 0)
		require.NoError(t, err)
		active, err := h.stores.Likes.CountActive(ctx, photoID)
		require.NoError(t, err)
		assert.Equal(t, active, int64(photo.LikeCount), "photo %d", photoID)

		comments, err := h.stores.Comments.CountActiveByPhoto(ctx, photoID)
		require.NoError(t, err)
		assert.Equal(t, comments, int64(photo.CommentCount), "photo %d", photoID)
	}

	// Audit: Ben's follower counter equals his active follower rows.
	ben, err := h.stores.Users.GetByID(ctx, benID, 0)
	require.NoError(t, err)
	followers, err := h.stores.Follows.CountActive(ctx, benID)
	require.NoError(t, err)
	assert.Equal(t, followers, int64(ben.FollowerCount))
}

// TestConcurrentTogglesKeepCounterHonest hammers one photo with parallel
// toggles and checks the counter still equals the number of active rows.
func TestConcurrentTogglesKeepCounterHonest(t *testing.T) {
	stores := memstore.NewStores(memstore.New())
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	require.NoError(t, stores.Users.Create(ctx, owner))
	photo := &models.Photo{UserID: owner.ID, ImageURL: "https://example.com/p.jpg"}
	require.NoError(t, stores.Photos.Create(ctx, photo))

	const users = 16
	const togglesPerUser = 7 // odd count leaves every like active

	userIDs := make([]uint, users)
	for i := range userIDs {
		u := &models.User{
			Username: fmt.Sprintf("u%d", i),
			Email:    fmt.Sprintf("u%d@example.com", i),
			Password: "x",
		}
		require.NoError(t, stores.Users.Create(ctx, u))
		userIDs[i] = u.ID
	}

	var wg sync.WaitGroup
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			for i := 0; i < togglesPerUser; i++ {
				if _, err := stores.Likes.Toggle(ctx, userID, photo.ID); err != nil {
					t.Error(err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	loaded, err := stores.Photos.GetByID(ctx, photo.ID, 0)
	require.NoError(t, err)
	active, err := stores.Likes.CountActive(ctx, photo.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(users), active)
	assert.Equal(t, users, loaded.LikeCount)
}
