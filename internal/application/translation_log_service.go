package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
	"github.com/lahjatuna/lahjatuna-api/internal/infrastructure/langdetect"
)

// Translator turns text from one language into another.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Name() string
}

// DetectFunc guesses the language of a text.
type DetectFunc func(text string) (langdetect.Result, bool)

// TranslationLogService validates translation requests, delegates to the
// model and keeps the per-user history.
type TranslationLogService struct {
	Logs      repo.TranslationLogRepository
	Languages repo.LanguageRepository
	Model     Translator
	ES        *elasticsearch.Client
	ESIndex   string
	Detect    DetectFunc
	Logger    *logrus.Logger
}

type CreateTranslationInput struct {
	SourceLanguageID int
	TargetLanguageID int
	SourceText       string
}

// Detection is the outcome of language detection, resolved against the catalog when possible.
type Detection struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Confidence float64          `json:"confidence"`
	Language   *entity.Language `json:"-"`
}

func NewTranslationLogService(logs repo.TranslationLogRepository, langs repo.LanguageRepository, model Translator, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TranslationLogService {
	return &TranslationLogService{
		Logs:      logs,
		Languages: langs,
		Model:     model,
		ES:        es,
		ESIndex:   esIndex,
		Detect:    langdetect.Detect,
		Logger:    discardIfNil(logger),
	}
}

// GetUserTranslations returns the user's history, newest first, with feedback.
func (s *TranslationLogService) GetUserTranslations(ctx context.Context, userID string) ([]entity.TranslationLog, error) {
	return s.Logs.ListByUser(ctx, userID)
}

func (s *TranslationLogService) GetTranslationByID(ctx context.Context, id int, userID string) (*entity.TranslationLog, error) {
	t, err := s.Logs.GetByIDForUser(ctx, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("translation", id)
	}
	return t, err
}

// CreateTranslation checks both languages, asks the model and records the result.
// Nothing is stored when the model fails.
func (s *TranslationLogService) CreateTranslation(ctx context.Context, in CreateTranslationInput, userID string) (*entity.TranslationLog, error) {
	if strings.TrimSpace(in.SourceText) == "" {
		return nil, ErrSourceTextBlank
	}
	if in.SourceLanguageID == in.TargetLanguageID {
		return nil, ErrSameLanguage
	}
	src, err := s.language(ctx, in.SourceLanguageID)
	if err != nil {
		return nil, err
	}
	dst, err := s.language(ctx, in.TargetLanguageID)
	if err != nil {
		return nil, err
	}
	if s.Model == nil {
		return nil, fmt.Errorf("%w: no model configured", ErrTranslationFailed)
	}

	out, err := s.Model.Translate(ctx, in.SourceText, src.Code, dst.Code)
	if err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"provider": s.Model.Name(),
			"source":   src.Code,
			"target":   dst.Code,
		}).Warn("translation model call failed")
		return nil, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	t := &entity.TranslationLog{
		UserID:           userID,
		SourceLanguageID: src.ID,
		TargetLanguageID: dst.ID,
		SourceText:       in.SourceText,
		TargetText:       out,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Logs.Create(ctx, t); err != nil {
		return nil, err
	}
	t.Feedbacks = []entity.Feedback{}
	s.index(ctx, t)
	return t, nil
}

func (s *TranslationLogService) language(ctx context.Context, id int) (*entity.Language, error) {
	l, err := s.Languages.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("language", id)
	}
	return l, err
}

func (s *TranslationLogService) DeleteTranslation(ctx context.Context, id int, userID string) error {
	if err := s.Logs.DeleteForUser(ctx, id, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("translation", id)
		}
		return err
	}
	s.unindex(ctx, id)
	return nil
}

// DetectLanguage guesses the language of text and looks it up in the catalog.
func (s *TranslationLogService) DetectLanguage(ctx context.Context, text string) (*Detection, error) {
	if s.Detect == nil {
		return nil, ErrLanguageUndetected
	}
	res, ok := s.Detect(text)
	if !ok {
		return nil, ErrLanguageUndetected
	}
	d := &Detection{Code: res.Code, Name: res.Name, Confidence: res.Confidence}
	l, err := s.Languages.GetByCode(ctx, res.Code)
	switch {
	case err == nil:
		d.Language = l
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}
	return d, nil
}

type translationDoc struct {
	ID               int       `json:"id"`
	UserID           string    `json:"user_id"`
	SourceLanguageID int       `json:"source_language_id"`
	TargetLanguageID int       `json:"target_language_id"`
	SourceText       string    `json:"source_text"`
	TargetText       string    `json:"target_text"`
	CreatedAt        time.Time `json:"created_at"`
}

func (s *TranslationLogService) searchEnabled() bool {
	return s.ES != nil && s.ESIndex != ""
}

// index is best effort; a failed index never fails the request.
func (s *TranslationLogService) index(ctx context.Context, t *entity.TranslationLog) {
	if !s.searchEnabled() {
		return
	}
	b, _ := json.Marshal(translationDoc{
		ID:               t.ID,
		UserID:           t.UserID,
		SourceLanguageID: t.SourceLanguageID,
		TargetLanguageID: t.TargetLanguageID,
		SourceText:       t.SourceText,
		TargetText:       t.TargetText,
		CreatedAt:        t.CreatedAt,
	})
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: strconv.Itoa(t.ID), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("translation_id", t.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("translation_id", t.ID).Warn("es index response error")
	}
}

func (s *TranslationLogService) unindex(ctx context.Context, id int) {
	if !s.searchEnabled() {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.Itoa(id)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("translation_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// SearchTranslations runs a full-text query over the user's own translations.
func (s *TranslationLogService) SearchTranslations(ctx context.Context, userID, q string, size int) ([]entity.TranslationLog, error) {
	if !s.searchEnabled() || strings.TrimSpace(q) == "" {
		return []entity.TranslationLog{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"source_text", "target_text"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source translationDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.TranslationLog, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		// The filter already scopes by user; this guards against a stale mapping.
		if d.UserID != userID {
			continue
		}
		out = append(out, entity.TranslationLog{
			ID:               d.ID,
			UserID:           d.UserID,
			SourceLanguageID: d.SourceLanguageID,
			TargetLanguageID: d.TargetLanguageID,
			SourceText:       d.SourceText,
			TargetText:       d.TargetText,
			CreatedAt:        d.CreatedAt,
		})
	}
	return out, nil
}

// TranslationIndexMapping is the Elasticsearch mapping for indexed translation logs.
const TranslationIndexMapping = `{
  "mappings": {
    "properties": {
      "id":                 {"type": "integer"},
      "user_id":            {"type": "keyword"},
      "source_language_id": {"type": "integer"},
      "target_language_id": {"type": "integer"},
      "source_text":        {"type": "text"},
      "target_text":        {"type": "text"},
      "created_at":         {"type": "date"}
    }
  }
}`
