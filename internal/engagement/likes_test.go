package engagement

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carawynne/inkpress/backend/internal/models"
)

// testEngine opens a fresh in-memory database per test so the unique
// indexes and cascades run against a real SQL engine.
func testEngine(t *testing.T) (*Engine, *gorm.DB) {
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

	return New(db), db
}

func seedPost(t *testing.T, db *gorm.DB) *models.Post {
	t.Helper()
	post := models.Post{Title: "First Post", Slug: "first-post", Published: true}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return &post
}

func postLikeCount(t *testing.T, db *gorm.DB, postID int) int {
	t.Helper()
	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	return post.LikeCount
}

func TestLikePostTwice(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	if err := e.LikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("first like failed: %v", err)
	}
	if err := e.LikePost(post.ID, "user:1"); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("second like: got %v, want ErrAlreadyLiked", err)
	}

	if got := postLikeCount(t, db, post.ID); got != 1 {
		t.Fatalf("like_count = %d, want 1", got)
	}
}

func TestLikePostDistinctUsers(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	if err := e.LikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := e.LikePost(post.ID, "user:2"); err != nil {
		t.Fatalf("like from second user failed: %v", err)
	}

	if got := postLikeCount(t, db, post.ID); got != 2 {
		t.Fatalf("like_count = %d, want 2", got)
	}
}

func TestLikeMissingPost(t *testing.T) {
	e, _ := testEngine(t)

	if err := e.LikePost(999, "user:1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLikeWithoutUserKey(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	if err := e.LikePost(post.ID, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestUnlikeNeverLiked(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	if err := e.UnlikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("unlike of absent like should be a no-op, got %v", err)
	}
	if got := postLikeCount(t, db, post.ID); got != 0 {
		t.Fatalf("like_count = %d, want 0 (never below zero)", got)
	}
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	if err := e.LikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := e.UnlikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if got := postLikeCount(t, db, post.ID); got != 0 {
		t.Fatalf("like_count = %d, want 0", got)
	}

	// Liking again after unlike must succeed.
	if err := e.LikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("re-like failed: %v", err)
	}
	if got := postLikeCount(t, db, post.ID); got != 1 {
		t.Fatalf("like_count = %d, want 1", got)
	}
}

func TestLikeSurvivesCounterFailure(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	// Break only the counter column; the like rows stay the source of
	// truth and the insert must still succeed.
	if err := db.Exec("ALTER TABLE posts RENAME COLUMN like_count TO like_count_backup").Error; err != nil {
		t.Fatalf("failed to rename column: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	if err := e.LikePost(post.ID, "user:1"); err != nil {
		t.Fatalf("like must not fail when only the counter bump fails: %v", err)
	}

	var likes int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	if likes != 1 {
		t.Fatalf("like rows = %d, want 1", likes)
	}
	if !strings.Contains(buf.String(), "like_count") {
		t.Fatalf("counter failure was not logged: %q", buf.String())
	}
}

func TestCommentLikes(t *testing.T) {
	e, db := testEngine(t)
	post := seedPost(t, db)

	comment, err := e.CreateComment(post.ID, nil, "Reader", "Nice piece", false)
	if err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	if err := e.LikeComment(comment.ID, "client:abc"); err != nil {
		t.Fatalf("comment like failed: %v", err)
	}
	if err := e.LikeComment(comment.ID, "client:abc"); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("duplicate comment like: got %v, want ErrAlreadyLiked", err)
	}

	var got models.Comment
	if err := db.First(&got, comment.ID).Error; err != nil {
		t.Fatalf("failed to reload comment: %v", err)
	}
	if got.LikeCount != 1 {
		t.Fatalf("comment like_count = %d, want 1", got.LikeCount)
	}

	if err := e.UnlikeComment(comment.ID, "client:abc"); err != nil {
		t.Fatalf("comment unlike failed: %v", err)
	}
	if err := e.UnlikeComment(comment.ID, "client:abc"); err != nil {
		t.Fatalf("repeated unlike should be a no-op, got %v", err)
	}

	if err := db.First(&got, comment.ID).Error; err != nil {
		t.Fatalf("failed to reload comment: %v", err)
	}
	if got.LikeCount != 0 {
		t.Fatalf("comment like_count = %d, want 0", got.LikeCount)
	}
}
