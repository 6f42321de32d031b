package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lahjatuna/lahjatuna-api/internal/container"
	handlers "github.com/lahjatuna/lahjatuna-api/internal/interface/http"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

// TranslationModule wires translation history, feedback and favorites.
// Every route is owner scoped and requires authentication.
type TranslationModule struct {
	Translations *handlers.TranslationHandler
	Feedback     *handlers.FeedbackHandler
	JWT          *helpers.JWTManager
}

func NewTranslationModule(t *handlers.TranslationHandler, f *handlers.FeedbackHandler, jwt *helpers.JWTManager) *TranslationModule {
	return &TranslationModule{Translations: t, Feedback: f, JWT: jwt}
}

func (m *TranslationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// model calls are the expensive part; cap them per user
	createLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserAndPath(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByUserAndPath(), nil))
	{
		auth.GET("/translations", m.Translations.List)
		auth.GET("/translations/search", m.Translations.Search)
		auth.POST("/translations/detect", m.Translations.Detect)
		auth.POST("/translations", createLimiter, m.Translations.Create)
		auth.GET("/translations/:id", m.Translations.Get)
		auth.DELETE("/translations/:id", m.Translations.Delete)

		auth.POST("/translations/:id/feedback", m.Feedback.AddFeedback)
		auth.GET("/feedback", m.Feedback.ListFeedback)
		auth.DELETE("/feedback/:id", m.Feedback.DeleteFeedback)

		auth.POST("/translations/:id/favorite", m.Feedback.AddFavorite)
		auth.GET("/favorites", m.Feedback.ListFavorites)
		auth.DELETE("/favorites/:id", m.Feedback.DeleteFavorite)
	}
}
