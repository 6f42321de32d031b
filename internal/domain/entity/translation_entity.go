package entity

import "time"

// TranslationLog records one translation a user requested and the model output.
type TranslationLog struct {
	ID               int
	UserID           string
	SourceLanguageID int
	TargetLanguageID int
	SourceText       string
	TargetText       string
	CreatedAt        time.Time

	Feedbacks []Feedback
}

// Feedback is a user's rating and/or comment on one of their translations.
type Feedback struct {
	ID               int
	UserID           string
	TranslationLogID int
	Rating           *int
	Comment          *string
	CreatedAt        time.Time
}

// Favorite marks a translation as a user's favorite.
type Favorite struct {
	ID               int
	UserID           string
	TranslationLogID int
	CreatedAt        time.Time

	Translation *TranslationLog
}
