package translation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ProviderLibreTranslate = "libretranslate"
	ProviderOpenAI         = "openai"
)

// ErrEmptyTranslation is returned when the model answers with no text.
var ErrEmptyTranslation = errors.New("translation model returned an empty response")

// Model is an external machine translation backend.
// Language codes are ISO 639-1 (for example "ar", "en").
type Model interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	CheckHealth(ctx context.Context) error
	Name() string
}

// Config selects and configures a Model.
type Config struct {
	Provider string
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
	Logger   *logrus.Logger
}

// NewModel builds the provider named in cfg and wraps it with metrics.
func NewModel(cfg Config) (Model, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	name := normalizeProviderName(cfg.Provider)
	if name == "" {
		name = ProviderLibreTranslate
	}

	cfg.Logger.WithFields(logrus.Fields{
		"provider": name,
		"endpoint": cfg.Endpoint,
	}).Info("creating translation model")

	var m Model
	switch name {
	case ProviderLibreTranslate:
		m = NewLibreTranslateClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout, cfg.Logger)
	case ProviderOpenAI:
		m = NewOpenAIClient(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.Timeout, cfg.Logger)
	default:
		return nil, fmt.Errorf("unknown translation provider %q (supported: %s)", name, strings.Join(SupportedProviders(), ", "))
	}
	return WithMetrics(m), nil
}

// SupportedProviders lists the provider names NewModel accepts.
func SupportedProviders() []string {
	names := []string{ProviderLibreTranslate, ProviderOpenAI}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeLangCode reduces a BCP 47 tag to its primary subtag.
//   - "EN" -> "en"
//   - "ar-EG" -> "ar"
//   - "zh_Hant" -> "zh"
func NormalizeLangCode(raw string) string {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}
