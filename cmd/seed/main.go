package main

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/config"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

type seedLanguage struct {
	code, name, script string
}

var starterLanguages = []seedLanguage{
	{"ar", "Arabic", "Arabic"},
	{"en", "English", "Latin"},
	{"fr", "French", "Latin"},
	{"es", "Spanish", "Latin"},
	{"de", "German", "Latin"},
	{"tr", "Turkish", "Latin"},
	{"fa", "Persian", "Arabic"},
	{"ur", "Urdu", "Arabic"},
	{"id", "Indonesian", "Latin"},
	{"ru", "Russian", "Cyrillic"},
	{"zh", "Chinese", "Han"},
	{"ja", "Japanese", "Japanese"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		logger.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Ensure base roles exist
	roleIDs := map[string]string{}
	for _, name := range []string{"admin", "user"} {
		var id string
		if err := db.QueryRow(`
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, name).Scan(&id); err != nil {
			logger.Fatalf("failed to upsert %s role: %v", name, err)
		}
		roleIDs[name] = id
	}
	logger.WithFields(logrus.Fields{"admin": roleIDs["admin"], "user": roleIDs["user"]}).Info("roles ensured")

	email := strings.ToLower(cfg.SeedAdminEmail)
	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT ((lower(email))) DO UPDATE SET updated_at = now()
		RETURNING id
	`, cfg.SeedAdminUsername, email, hash).Scan(&adminID)
	if err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	for _, role := range []string{"admin", "user"} {
		if _, err := db.Exec(`
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, adminID, roleIDs[role]); err != nil {
			logger.Fatalf("failed to assign %s role: %v", role, err)
		}
	}
	logger.WithFields(logrus.Fields{"id": adminID, "email": email, "username": cfg.SeedAdminUsername}).Info("admin account seeded")

	added := 0
	for _, l := range starterLanguages {
		res, err := db.Exec(`
			INSERT INTO languages (language_code, language_name, script)
			VALUES ($1, $2, $3)
			ON CONFLICT ((lower(language_code))) DO NOTHING
		`, l.code, l.name, l.script)
		if err != nil {
			logger.Fatalf("failed to seed language %s: %v", l.code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	logger.WithFields(logrus.Fields{"added": added, "total": len(starterLanguages)}).Info("language catalog seeded")
}
