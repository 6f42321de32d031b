package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/application"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

type TranslationHandler struct {
	Svc    *application.TranslationLogService
	Logger *logrus.Logger
}

func NewTranslationHandler(svc *application.TranslationLogService, logger *logrus.Logger) *TranslationHandler {
	return &TranslationHandler{Svc: svc, Logger: logger}
}

type createTranslationRequest struct {
	SourceLanguageID int    `json:"source_language_id" binding:"required,gt=0"`
	TargetLanguageID int    `json:"target_language_id" binding:"required,gt=0"`
	SourceText       string `json:"source_text" binding:"required,notblank,max=5000"`
}

type detectLanguageRequest struct {
	Text string `json:"text" binding:"required,notblank,max=5000"`
}

// List GET /api/translations
func (h *TranslationHandler) List(c *gin.Context) {
	logs, err := h.Svc.GetUserTranslations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, toTranslationDTOs(logs), "translations")
}

// Get GET /api/translations/:id
func (h *TranslationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.Svc.GetTranslationByID(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTranslationDTO(*t), "translation", nil)
}

// Create POST /api/translations
func (h *TranslationHandler) Create(c *gin.Context) {
	var req createTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	t, err := h.Svc.CreateTranslation(c.Request.Context(), application.CreateTranslationInput{
		SourceLanguageID: req.SourceLanguageID,
		TargetLanguageID: req.TargetLanguageID,
		SourceText:       req.SourceText,
	}, middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTranslationDTO(*t), "translation created", nil)
}

// Delete DELETE /api/translations/:id
func (h *TranslationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteTranslation(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "translation deleted", nil)
}

// Search GET /api/translations/search?q=&size=
func (h *TranslationHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	logs, err := h.Svc.SearchTranslations(c.Request.Context(), middleware.UserID(c), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, toTranslationDTOs(logs), "search results")
}

// Detect POST /api/translations/detect {text}
func (h *TranslationHandler) Detect(c *gin.Context) {
	var req detectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	d, err := h.Svc.DetectLanguage(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := gin.H{"code": d.Code, "name": d.Name, "confidence": d.Confidence, "language": nil}
	if d.Language != nil {
		out["language"] = toLanguageDTO(*d.Language)
	}
	response.Success(c, http.StatusOK, out, "language detected", nil)
}
