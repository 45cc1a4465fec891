package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations *usecase.RecommendationService
	interactions    domain.InteractionRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(recommendations *usecase.RecommendationService, interactions domain.InteractionRepository) *Handler {
	return &Handler{
		recommendations: recommendations,
		interactions:    interactions,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartwise-backend",
		"version": "1.0.0",
	})
}

// recommendRequest is the body of POST /recommendations. Limit is a pointer
// so an absent limit (use the default) is distinguishable from an explicit
// zero (return nothing).
type recommendRequest struct {
	UserID string `json:"userId" binding:"required"`
	Limit  *int   `json:"limit" binding:"omitempty,gte=0,lte=100"`
}

// GetRecommendations handles personalized recommendation requests
func (h *Handler) GetRecommendations(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	limit := -1
	if req.Limit != nil {
		limit = *req.Limit
	}

	recommendations, err := h.recommendations.Recommend(c.Request.Context(), req.UserID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	if len(recommendations) == 0 && limit != 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No recommendations available for this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"userId":          req.UserID,
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// GetPopular handles non-personalized popularity requests
func (h *Handler) GetPopular(c *gin.Context) {
	limit := -1
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	recommendations, err := h.recommendations.Popular(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get popular products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// interactionRequest is the body of POST /interactions.
type interactionRequest struct {
	UserID     string `json:"userId" binding:"required"`
	ProductID  string `json:"productId" binding:"required"`
	ActionType string `json:"actionType" binding:"required"`
}

// RecordInteraction appends a view/purchase/like event to the log
func (h *Handler) RecordInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	action := domain.ActionType(req.ActionType)
	if !action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actionType must be view, purchase or like"})
		return
	}

	interaction := &domain.Interaction{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Action:    action,
	}
	if err := h.interactions.Save(c.Request.Context(), interaction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record interaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "interaction": interaction})
}
