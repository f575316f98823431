package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// ForumHandler serves community posts.
type ForumHandler struct {
	forum  core.ForumService
	logger *zap.Logger
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(fs core.ForumService, logger *zap.Logger) *ForumHandler {
	return &ForumHandler{forum: fs, logger: logger}
}

func (h *ForumHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	post, err := h.forum.Create(c.Request.Context(), middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *ForumHandler) ListPosts(c *gin.Context) {
	result, err := h.forum.List(c.Request.Context(), queryInt(c, "page"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ForumHandler) TrainerPosts(c *gin.Context) {
	posts, err := h.forum.TrainerPosts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Vote returns a handler for PATCH /forum/upvote/:id and /forum/downvote/:id.
func (h *ForumHandler) Vote(kind models.VoteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.forum.Vote(c.Request.Context(), c.Param("id"), kind); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, SuccessResponse{Message: "Vote recorded"})
	}
}
