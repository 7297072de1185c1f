package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carawynne/inkpress/backend/internal/cache"
	"github.com/carawynne/inkpress/backend/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Subscriber{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, payload string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != "" {
		body = bytes.NewBufferString(payload)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Bulk feature/unfeature must refresh the cached featured listing before
// the mutation's response returns; its TTL alone would keep it stale for
// half an hour.
func TestBulkFeatureInvalidatesFeaturedCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	store := cache.New()
	h := NewPostHandler(db, store)

	r := gin.New()
	r.GET("/api/posts/featured", h.GetFeatured)
	r.POST("/api/admin/posts/bulk", h.BulkUpdate)

	featured := models.Post{Title: "A", Slug: "a", Published: true, Featured: true}
	plain := models.Post{Title: "B", Slug: "b", Published: true}
	if err := db.Create(&featured).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	if err := db.Create(&plain).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	fetchFeatured := func() []models.Post {
		w := doJSON(t, r, http.MethodGet, "/api/posts/featured", "")
		if w.Code != http.StatusOK {
			t.Fatalf("featured listing failed: %d %s", w.Code, w.Body.String())
		}
		var posts []models.Post
		if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
			t.Fatalf("unparseable featured response: %v", err)
		}
		return posts
	}

	// Populates the cache entry.
	if got := fetchFeatured(); len(got) != 1 {
		t.Fatalf("seed state: %d featured posts, want 1", len(got))
	}

	w := doJSON(t, r, http.MethodPost, "/api/admin/posts/bulk",
		fmt.Sprintf(`{"ids":[%d],"action":"feature"}`, plain.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("bulk feature failed: %d %s", w.Code, w.Body.String())
	}

	if got := fetchFeatured(); len(got) != 2 {
		t.Fatalf("stale featured listing after bulk feature: %d posts, want 2", len(got))
	}

	w = doJSON(t, r, http.MethodPost, "/api/admin/posts/bulk",
		fmt.Sprintf(`{"ids":[%d,%d],"action":"unfeature"}`, featured.ID, plain.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("bulk unfeature failed: %d %s", w.Code, w.Body.String())
	}

	if got := fetchFeatured(); len(got) != 0 {
		t.Fatalf("stale featured listing after bulk unfeature: %d posts, want 0", len(got))
	}
}

func TestBulkArchiveInvalidatesListings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	store := cache.New()
	h := NewPostHandler(db, store)

	r := gin.New()
	r.GET("/api/posts/recent", h.GetRecent)
	r.POST("/api/admin/posts/bulk", h.BulkUpdate)

	post := models.Post{Title: "A", Slug: "a", Published: true}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/posts/recent", "")
	if w.Code != http.StatusOK {
		t.Fatalf("recent listing failed: %d", w.Code)
	}
	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil || len(posts) != 1 {
		t.Fatalf("seed state: recent = %v err = %v, want 1 post", posts, err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/admin/posts/bulk",
		fmt.Sprintf(`{"ids":[%d],"action":"archive"}`, post.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("bulk archive failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/posts/recent", "")
	if w.Code != http.StatusOK {
		t.Fatalf("recent listing failed: %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil || len(posts) != 0 {
		t.Fatalf("stale recent listing after bulk archive: %v", posts)
	}
}

func TestBulkUpdateRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	h := NewPostHandler(db, cache.New())

	r := gin.New()
	r.POST("/api/admin/posts/bulk", h.BulkUpdate)

	if w := doJSON(t, r, http.MethodPost, "/api/admin/posts/bulk", `{"ids":[],"action":"archive"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty ids: status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/admin/posts/bulk", `{"ids":[1],"action":"promote"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action: status = %d, want 400", w.Code)
	}
}
