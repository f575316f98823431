package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// CommunityHandler serves reviews and newsletter subscribers.
type CommunityHandler struct {
	reviews     core.ReviewService
	subscribers core.SubscriberService
	logger      *zap.Logger
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(rs core.ReviewService, ss core.SubscriberService, logger *zap.Logger) *CommunityHandler {
	return &CommunityHandler{reviews: rs, subscribers: ss, logger: logger}
}

func (h *CommunityHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *CommunityHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *CommunityHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	sub, err := h.subscribers.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *CommunityHandler) ListSubscribers(c *gin.Context) {
	subs, err := h.subscribers.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// MembershipStats handles GET /subscribers-vs-members (admin).
func (h *CommunityHandler) MembershipStats(c *gin.Context) {
	stats, err := h.subscribers.MembershipStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
