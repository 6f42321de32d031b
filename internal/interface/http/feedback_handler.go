package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/application"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

type FeedbackHandler struct {
	Feedback  *application.FeedbackService
	Favorites *application.FavoriteService
	Logger    *logrus.Logger
}

func NewFeedbackHandler(fb *application.FeedbackService, favs *application.FavoriteService, logger *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{Feedback: fb, Favorites: favs, Logger: logger}
}

type feedbackRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// AddFeedback POST /api/translations/:id/feedback
func (h *FeedbackHandler) AddFeedback(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	f, err := h.Feedback.AddFeedback(c.Request.Context(), id, middleware.UserID(c), application.FeedbackInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toFeedbackDTO(*f), "feedback added", nil)
}

// ListFeedback GET /api/feedback
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	items, err := h.Feedback.ListFeedback(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, toFeedbackDTOs(items), "feedback")
}

// DeleteFeedback DELETE /api/feedback/:id
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Feedback.DeleteFeedback(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "feedback deleted", nil)
}

// AddFavorite POST /api/translations/:id/favorite
func (h *FeedbackHandler) AddFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.Favorites.AddFavorite(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toFavoriteDTO(*f), "added to favorites", nil)
}

// ListFavorites GET /api/favorites
func (h *FeedbackHandler) ListFavorites(c *gin.Context) {
	items, err := h.Favorites.ListFavorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]favoriteDTO, 0, len(items))
	for _, f := range items {
		out = append(out, toFavoriteDTO(f))
	}
	response.List(c, out, "favorites")
}

// DeleteFavorite DELETE /api/favorites/:id
func (h *FeedbackHandler) DeleteFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Favorites.DeleteFavorite(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "favorite removed", nil)
}
