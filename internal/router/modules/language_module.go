package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/lahjatuna/lahjatuna-api/internal/container"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	handlers "github.com/lahjatuna/lahjatuna-api/internal/interface/http"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

// LanguageModule exposes the catalog: reads for any signed-in user, writes for admins.
type LanguageModule struct {
	Handler *handlers.LanguageHandler
	JWT     *helpers.JWTManager
}

func NewLanguageModule(h *handlers.LanguageHandler, jwt *helpers.JWTManager) *LanguageModule {
	return &LanguageModule{Handler: h, JWT: jwt}
}

func (m *LanguageModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/languages")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("", m.Handler.List)
		auth.GET("/:id", m.Handler.Get)
	}

	admin := auth.Group("")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
