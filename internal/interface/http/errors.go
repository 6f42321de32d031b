package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/application"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
	"github.com/lahjatuna/lahjatuna-api/pkg/validation"
)

const internalErrorMessage = "internal server error"

// writeError maps application errors onto HTTP statuses. Anything unknown is
// logged and answered with a generic 500 so internals never leak.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var nf *application.NotFoundError
	switch {
	case errors.As(err, &nf):
		response.Error[any](c, http.StatusNotFound, nf.Error(), nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrSameLanguage),
		errors.Is(err, application.ErrSourceTextBlank),
		errors.Is(err, application.ErrLanguageBlank),
		errors.Is(err, application.ErrFeedbackEmpty),
		errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrEmailNotConfirmed):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrUsernameTaken),
		errors.Is(err, application.ErrLanguageCodeTaken),
		errors.Is(err, application.ErrLanguageInUse),
		errors.Is(err, application.ErrAlreadyFavorited):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrLanguageUndetected):
		response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, application.ErrTranslationFailed):
		logError(c, logger, err)
		response.Error[any](c, http.StatusBadGateway, "translation service unavailable", nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		logError(c, logger, err)
		response.Error[any](c, http.StatusInternalServerError, internalErrorMessage, nil)
	}
}

func logError(c *gin.Context, logger *logrus.Logger, err error) {
	if logger == nil {
		return
	}
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.CtxRequestID),
		"method":     c.Request.Method,
		"path":       c.FullPath(),
	}).Error("request failed")
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID parses a positive integer route parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.GetHeader("User-Agent")}
}
