package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lahjatuna/lahjatuna-api/internal/container"
	"github.com/lahjatuna/lahjatuna-api/internal/interface/middleware"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

// DebugModule exposes health and, when enabled, expvar and Prometheus metrics.
type DebugModule struct {
	MetricsEnabled bool
}

func NewDebugModule(metricsEnabled bool) *DebugModule {
	return &DebugModule{MetricsEnabled: metricsEnabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/health", rl, health)
	if !m.MetricsEnabled {
		return
	}
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
}

// health reports each dependency; only the database is fatal.
func health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK

	if pool := container.GetPGPool(); pool != nil {
		if err := pool.Ping(ctx); err != nil {
			checks["postgres"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["postgres"] = "ok"
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = okOrDegraded(rdb.Ping(ctx).Err())
	}
	if model := container.GetTranslator(); model != nil {
		checks["translation_model"] = okOrDegraded(model.CheckHealth(ctx))
	}

	if status != http.StatusOK {
		response.Error[any](c, status, "unhealthy", checks)
		return
	}
	response.Success(c, status, checks, "healthy", nil)
}

func okOrDegraded(err error) string {
	if err != nil {
		return "degraded"
	}
	return "ok"
}
