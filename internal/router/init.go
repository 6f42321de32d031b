package router

import (
	"github.com/lahjatuna/lahjatuna-api/internal/application"
	"github.com/lahjatuna/lahjatuna-api/internal/container"
	pginfra "github.com/lahjatuna/lahjatuna-api/internal/infrastructure/postgres"
	handlers "github.com/lahjatuna/lahjatuna-api/internal/interface/http"
	"github.com/lahjatuna/lahjatuna-api/internal/router/modules"
)

type moduleDeps struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Languages    *handlers.LanguageHandler
	Translations *handlers.TranslationHandler
	Feedback     *handlers.FeedbackHandler
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	users := pginfra.NewUserRepository(pool)
	audit := pginfra.NewAuditRepository(pool)
	langs := pginfra.NewLanguageRepository(pool)
	logs := pginfra.NewTranslationLogRepository(pool)

	// a nil *RabbitPublisher must not become a non-nil interface
	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var model application.Translator
	if m := container.GetTranslator(); m != nil {
		model = m
	}

	userSvc := application.NewUserService(users, audit, container.GetJWT(), container.GetGCS(), cfg.GCSBucket, rdb, pub, logger, cfg)
	langSvc := application.NewLanguageService(langs, rdb, cfg.LanguageCacheTTL, logger)
	logSvc := application.NewTranslationLogService(logs, langs, model, container.GetES(), cfg.ESTranslationsIndex, logger)
	fbSvc := application.NewFeedbackService(pginfra.NewFeedbackRepository(pool), logs, logger)
	favSvc := application.NewFavoriteService(pginfra.NewFavoriteRepository(pool), logs, logger)

	return moduleDeps{
		Auth:         handlers.NewAuthHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		User:         handlers.NewUserHandler(userSvc, logger),
		Languages:    handlers.NewLanguageHandler(langSvc, logger),
		Translations: handlers.NewTranslationHandler(logSvc, logger),
		Feedback:     handlers.NewFeedbackHandler(fbSvc, favSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()
	r.Add(modules.NewAuthModule(deps.Auth, jwt))
	r.Add(modules.NewUserModule(deps.User, jwt))
	r.Add(modules.NewLanguageModule(deps.Languages, jwt))
	r.Add(modules.NewTranslationModule(deps.Translations, deps.Feedback, jwt))
	r.Add(modules.NewDebugModule(container.GetConfig().MetricsEnabled))
}
