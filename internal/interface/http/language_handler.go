package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/application"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

type LanguageHandler struct {
	Svc    *application.LanguageService
	Logger *logrus.Logger
}

func NewLanguageHandler(svc *application.LanguageService, logger *logrus.Logger) *LanguageHandler {
	return &LanguageHandler{Svc: svc, Logger: logger}
}

type languageRequest struct {
	Code   string  `json:"language_code" binding:"required,notblank,langcode"`
	Name   string  `json:"language_name" binding:"required,notblank,max=255"`
	Script *string `json:"script" binding:"omitempty,max=100"`
}

func (r languageRequest) input() application.LanguageInput {
	return application.LanguageInput{Code: r.Code, Name: r.Name, Script: r.Script}
}

// List GET /api/languages
func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := languageListDTO{TotalLanguages: len(langs), Languages: make([]languageDTO, 0, len(langs))}
	for _, l := range langs {
		out.Languages = append(out.Languages, toLanguageDTO(l))
	}
	response.Success(c, http.StatusOK, out, "languages", nil)
}

// Get GET /api/languages/:id
func (h *LanguageHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toLanguageDTO(*l), "language", nil)
}

// Create POST /api/languages (admin)
func (h *LanguageHandler) Create(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toLanguageDTO(*l), "language created", nil)
}

// Update PUT /api/languages/:id (admin)
func (h *LanguageHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toLanguageDTO(*l), "language updated", nil)
}

// Delete DELETE /api/languages/:id (admin)
func (h *LanguageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "language deleted successfully.", nil)
}
