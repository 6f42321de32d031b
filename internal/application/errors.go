package application

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrStorageUnavailable = errors.New("avatar storage not configured")

	ErrLanguageCodeTaken = errors.New("language code already exists")
	ErrLanguageInUse     = errors.New("language is referenced by translations")
	ErrLanguageBlank     = errors.New("language code and name cannot be blank")

	ErrSameLanguage       = errors.New("source and target languages cannot be the same")
	ErrSourceTextBlank    = errors.New("source text cannot be blank")
	ErrTranslationFailed  = errors.New("translation model failed")
	ErrLanguageUndetected = errors.New("could not detect the language of the text")

	ErrFeedbackEmpty    = errors.New("feedback needs a rating or a comment")
	ErrAlreadyFavorited = errors.New("translation is already a favorite")
)

// NotFoundError reports a missing row addressed by its numeric id.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func notFound(kind string, id int) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func discardIfNil(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return helpers.NewDiscardLogger()
}
