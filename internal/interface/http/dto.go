package handlers

import (
	"time"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
)

type userDTO struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	AvatarURL         string    `json:"avatar_url"`
	EmailConfirmed    bool      `json:"email_confirmed"`
	TranslationsCount int       `json:"translations_count"`
	FeedbackCount     int       `json:"feedback_count"`
	Roles             []string  `json:"roles"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toUserDTO(u *entity.User) userDTO {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userDTO{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		AvatarURL:         u.AvatarURL,
		EmailConfirmed:    u.EmailConfirmed,
		TranslationsCount: u.TranslationsCount,
		FeedbackCount:     u.FeedbackCount,
		Roles:             roles,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

type languageDTO struct {
	ID     int     `json:"id"`
	Code   string  `json:"language_code"`
	Name   string  `json:"language_name"`
	Script *string `json:"script"`
}

func toLanguageDTO(l entity.Language) languageDTO {
	return languageDTO{ID: l.ID, Code: l.Code, Name: l.Name, Script: l.Script}
}

type languageListDTO struct {
	TotalLanguages int           `json:"total_languages"`
	Languages      []languageDTO `json:"languages"`
}

type feedbackDTO struct {
	ID               int       `json:"id"`
	TranslationLogID int       `json:"translation_log_id"`
	Rating           *int      `json:"rating"`
	Comment          *string   `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

func toFeedbackDTO(f entity.Feedback) feedbackDTO {
	return feedbackDTO{ID: f.ID, TranslationLogID: f.TranslationLogID, Rating: f.Rating, Comment: f.Comment, CreatedAt: f.CreatedAt}
}

func toFeedbackDTOs(in []entity.Feedback) []feedbackDTO {
	out := make([]feedbackDTO, 0, len(in))
	for _, f := range in {
		out = append(out, toFeedbackDTO(f))
	}
	return out
}

type translationDTO struct {
	ID               int           `json:"id"`
	SourceLanguageID int           `json:"source_language_id"`
	TargetLanguageID int           `json:"target_language_id"`
	SourceText       string        `json:"source_text"`
	TargetText       string        `json:"target_text"`
	CreatedAt        time.Time     `json:"created_at"`
	Feedbacks        []feedbackDTO `json:"feedbacks"`
}

func toTranslationDTO(t entity.TranslationLog) translationDTO {
	return translationDTO{
		ID:               t.ID,
		SourceLanguageID: t.SourceLanguageID,
		TargetLanguageID: t.TargetLanguageID,
		SourceText:       t.SourceText,
		TargetText:       t.TargetText,
		CreatedAt:        t.CreatedAt,
		Feedbacks:        toFeedbackDTOs(t.Feedbacks),
	}
}

func toTranslationDTOs(in []entity.TranslationLog) []translationDTO {
	out := make([]translationDTO, 0, len(in))
	for _, t := range in {
		out = append(out, toTranslationDTO(t))
	}
	return out
}

type favoriteDTO struct {
	ID               int             `json:"id"`
	TranslationLogID int             `json:"translation_log_id"`
	CreatedAt        time.Time       `json:"created_at"`
	Translation      *translationDTO `json:"translation,omitempty"`
}

func toFavoriteDTO(f entity.Favorite) favoriteDTO {
	dto := favoriteDTO{ID: f.ID, TranslationLogID: f.TranslationLogID, CreatedAt: f.CreatedAt}
	if f.Translation != nil {
		t := toTranslationDTO(*f.Translation)
		dto.Translation = &t
	}
	return dto
}
