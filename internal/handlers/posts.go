package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/cache"
	"github.com/carawynne/inkpress/backend/internal/models"
)

type PostHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPostHandler(db *gorm.DB, store *cache.Cache) *PostHandler {
	return &PostHandler{db: db, cache: store}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// GetPosts returns the public post listing, filtered by category slug,
// search term and pagination. Results are cached per filter combination.
func (h *PostHandler) GetPosts(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	if limit > 50 {
		limit = 50
	}

	key := cache.PostListKey(category, search, page, limit)
	v, err := h.cache.GetOrCompute(key, []string{cache.TagPosts}, cache.PostListTTL, func() (any, error) {
		query := h.db.Preload("Category").Preload("Author").
			Where("published = ? AND archived = ?", true, false)
		if category != "" {
			query = query.
				Joins("JOIN categories ON categories.id = posts.category_id").
				Where("categories.slug = ?", category)
		}
		if search != "" {
			like := "%" + search + "%"
			query = query.Where("title ILIKE ? OR excerpt ILIKE ?", like, like)
		}

		var posts []models.Post
		err := query.Order("created_at desc").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&posts).Error
		return posts, err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	posts := v.([]models.Post)
	// If no posts, return empty array not null
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single published post by slug
func (h *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	key := cache.PostBySlugKey(slug)
	tags := []string{cache.TagPosts, cache.TagPost}
	v, err := h.cache.GetOrCompute(key, tags, cache.PostBySlugTTL, func() (any, error) {
		var post models.Post
		err := h.db.Preload("Category").Preload("Author").
			Where("slug = ? AND published = ? AND archived = ?", slug, true, false).
			First(&post).Error
		return post, err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, v.(models.Post))
}

// GetFeatured returns the featured posts strip
func (h *PostHandler) GetFeatured(c *gin.Context) {
	limit := intQuery(c, "limit", 5)

	key := cache.FeaturedPostsKey(limit)
	tags := []string{cache.TagPosts, cache.TagFeaturedPosts}
	v, err := h.cache.GetOrCompute(key, tags, cache.FeaturedTTL, func() (any, error) {
		var posts []models.Post
		err := h.db.Preload("Category").Preload("Author").
			Where("featured = ? AND published = ? AND archived = ?", true, true, false).
			Order("created_at desc").
			Limit(limit).
			Find(&posts).Error
		return posts, err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch featured posts"})
		return
	}

	posts := v.([]models.Post)
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetRecent returns the most recent published posts
func (h *PostHandler) GetRecent(c *gin.Context) {
	limit := intQuery(c, "limit", 5)

	key := cache.RecentPostsKey(limit)
	tags := []string{cache.TagPosts, cache.TagRecentPosts}
	v, err := h.cache.GetOrCompute(key, tags, cache.RecentTTL, func() (any, error) {
		var posts []models.Post
		err := h.db.Preload("Category").Preload("Author").
			Where("published = ? AND archived = ?", true, false).
			Order("created_at desc").
			Limit(limit).
			Find(&posts).Error
		return posts, err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent posts"})
		return
	}

	posts := v.([]models.Post)
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post (admin only)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Title == "" || input.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and slug are required"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	post := models.Post{
		Title:      input.Title,
		Slug:       input.Slug,
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		Image:      input.Image,
		CategoryID: input.CategoryID,
		AuthorID:   authorID,
		Featured:   input.Featured,
		Published:  input.Published,
	}

	if err := h.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "A post with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Invalidate before responding so the next read recomputes.
	h.cache.InvalidateTags(cache.TagPosts, cache.TagRecentPosts)
	if post.Featured {
		h.cache.InvalidateTag(cache.TagFeaturedPosts)
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post (admin only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input struct {
		Title      *string `json:"title"`
		Slug       *string `json:"slug"`
		Excerpt    *string `json:"excerpt"`
		Content    *string `json:"content"`
		Image      *string `json:"image"`
		CategoryID *int    `json:"category_id"`
		Featured   *bool   `json:"featured"`
		Published  *bool   `json:"published"`
		Archived   *bool   `json:"archived"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	featuredChanged := false
	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Slug != nil {
		post.Slug = *input.Slug
	}
	if input.Excerpt != nil {
		post.Excerpt = *input.Excerpt
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Image != nil {
		post.Image = *input.Image
	}
	if input.CategoryID != nil {
		post.CategoryID = *input.CategoryID
	}
	if input.Featured != nil && *input.Featured != post.Featured {
		post.Featured = *input.Featured
		featuredChanged = true
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	if input.Archived != nil {
		post.Archived = *input.Archived
	}

	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	h.cache.InvalidateTags(cache.TagPosts, cache.TagPost, cache.TagRecentPosts)
	if featuredChanged {
		h.cache.InvalidateTag(cache.TagFeaturedPosts)
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post and its engagement rows (admin only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := h.deletePostCascade(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	h.cache.InvalidateTags(cache.TagPosts, cache.TagPost, cache.TagRecentPosts)
	if post.Featured {
		h.cache.InvalidateTag(cache.TagFeaturedPosts)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) deletePostCascade(post *models.Post) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", post.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

// BulkUpdate applies archive, delete, feature or unfeature to a set of
// post IDs (admin only)
func (h *PostHandler) BulkUpdate(c *gin.Context) {
	var input models.BulkPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No post IDs given"})
		return
	}

	switch input.Action {
	case "archive":
		if err := h.db.Model(&models.Post{}).Where("id IN ?", input.IDs).
			Update("archived", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk archive failed"})
			return
		}
		h.cache.InvalidateTags(cache.TagPosts, cache.TagPost, cache.TagRecentPosts, cache.TagFeaturedPosts)

	case "delete":
		var posts []models.Post
		if err := h.db.Where("id IN ?", input.IDs).Find(&posts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk delete failed"})
			return
		}
		for i := range posts {
			if err := h.deletePostCascade(&posts[i]); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk delete failed"})
				return
			}
		}
		h.cache.InvalidateTags(cache.TagPosts, cache.TagPost, cache.TagRecentPosts, cache.TagFeaturedPosts)

	case "feature", "unfeature":
		featured := input.Action == "feature"
		if err := h.db.Model(&models.Post{}).Where("id IN ?", input.IDs).
			Update("featured", featured).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk update failed"})
			return
		}
		h.cache.InvalidateTags(cache.TagPosts, cache.TagPost, cache.TagFeaturedPosts)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown bulk action"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bulk action applied", "count": len(input.IDs)})
}
