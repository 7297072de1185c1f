package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carawynne/inkpress/backend/internal/cache"
	"github.com/carawynne/inkpress/backend/internal/models"
)

type CategoryHandler struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCategoryHandler(db *gorm.DB, store *cache.Cache) *CategoryHandler {
	return &CategoryHandler{db: db, cache: store}
}

// GetCategories returns all categories; cached for a day
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	v, err := h.cache.GetOrCompute(cache.CategoryListKey(), []string{cache.TagCategories}, cache.CategoryListTTL, func() (any, error) {
		var categories []models.Category
		err := h.db.Order("name asc").Find(&categories).Error
		return categories, err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	categories := v.([]models.Category)
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a category (admin only)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" || input.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and slug are required"})
		return
	}

	category := models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}
	if err := h.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.cache.InvalidateTag(cache.TagCategories)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a category (admin only)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil {
		category.Slug = *input.Slug
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.cache.InvalidateTag(cache.TagCategories)
	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category with no posts attached (admin only)
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var postCount int64
	if err := h.db.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&postCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if postCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has posts"})
		return
	}

	if err := h.db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	h.cache.InvalidateTag(cache.TagCategories)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
