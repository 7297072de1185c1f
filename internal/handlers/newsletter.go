package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carawynne/inkpress/backend/internal/models"
	"github.com/carawynne/inkpress/backend/internal/newsletter"
)

type NewsletterHandler struct {
	service *newsletter.Service
}

func NewNewsletterHandler(service *newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// siteOrigin is the absolute base for unsubscribe links. The configured
// origin wins; the request host is the dev fallback.
func siteOrigin(c *gin.Context) string {
	if origin := os.Getenv("SITE_ORIGIN"); origin != "" {
		return origin
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// Subscribe adds or reactivates a newsletter subscriber
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var input models.SubscribeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, changed, err := h.service.Subscribe(input.Email)
	if err != nil {
		if errors.Is(err, newsletter.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email address is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	if !changed {
		c.JSON(http.StatusOK, gin.H{"message": "Already subscribed"})
		return
	}

	// The unsubscribe link goes into the welcome email; delivery is the
	// mailer's job, the URL is built here.
	unsubscribeURL := newsletter.BuildUnsubscribeURL(siteOrigin(c), sub.Email, sub.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Subscribed successfully",
		"unsubscribe_url": unsubscribeURL,
	})
}

// Unsubscribe handles the signed unsubscribe link
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || email == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": newsletter.OutcomeInvalid, "error": "Invalid unsubscribe link"})
		return
	}

	outcome, err := h.service.Unsubscribe(email, id, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	switch outcome {
	case newsletter.OutcomeSuccess:
		c.JSON(http.StatusOK, gin.H{"status": outcome, "message": "You have been unsubscribed"})
	case newsletter.OutcomeAlready:
		c.JSON(http.StatusOK, gin.H{"status": outcome, "message": "You were already unsubscribed"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": outcome, "error": "Invalid unsubscribe link"})
	}
}
