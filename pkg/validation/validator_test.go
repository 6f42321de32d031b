package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Code     string `json:"language_code" validate:"required,max=5"`
	Password string `json:"password" validate:"pwd"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	t.Parallel()

	err := newValidate().Struct(sample{Code: "", Password: "short", Rating: 9})
	details := ToDetails(err)

	if details["language_code"] != "is required" {
		t.Fatalf("unexpected code message: %v", details)
	}
	if details["password"] != "min length 8" {
		t.Fatalf("unexpected password message: %v", details)
	}
	if details["rating"] != "must be at most 5" {
		t.Fatalf("unexpected rating message: %v", details)
	}
}

func TestToDetailsFallbacks(t *testing.T) {
	t.Parallel()

	if ToDetails(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if got := ToDetails(errors.New("eof")); got["payload"] != "invalid payload" {
		t.Fatalf("unexpected fallback: %v", got)
	}
}

func TestToDetailsTypeMismatch(t *testing.T) {
	t.Parallel()

	var dst struct {
		SourceID int `json:"source_language_id"`
	}
	err := json.Unmarshal([]byte(`{"source_language_id":"ar"}`), &dst)
	if got := ToDetails(err); got["source_language_id"] != "must be of type int" {
		t.Fatalf("unexpected details: %v", got)
	}
	if got := ToDetails(io.EOF); got["payload"] != "request body is empty" {
		t.Fatalf("unexpected details for empty body: %v", got)
	}
}

func TestMessageUnits(t *testing.T) {
	t.Parallel()

	if got := message("max", "255", reflect.String); got != "must be at most 255 characters long" {
		t.Fatalf("unexpected string message %q", got)
	}
	if got := message("gt", "0", reflect.Int); got != "must be greater than 0" {
		t.Fatalf("unexpected number message %q", got)
	}
	if got := message("iso3166_1_alpha2", "", reflect.String); got != "failed 'iso3166_1_alpha2' validation" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestNotBlankAndLangCode(t *testing.T) {
	t.Parallel()

	type language struct {
		Code string `json:"language_code" validate:"required,notblank,langcode"`
		Name string `json:"language_name" validate:"required,notblank,max=255"`
	}
	v := newValidate()

	details := ToDetails(v.Struct(language{Code: "   ", Name: "\t"}))
	if details["language_code"] != "must not be blank" || details["language_name"] != "must not be blank" {
		t.Fatalf("unexpected blank details: %v", details)
	}

	details = ToDetails(v.Struct(language{Code: "x", Name: "Unknown"}))
	if details["language_code"] != "must be a language code between 2 and 50 characters" {
		t.Fatalf("unexpected langcode details: %v", details)
	}

	if err := v.Struct(language{Code: "ar", Name: "Arabic"}); err != nil {
		t.Fatalf("valid language rejected: %v", err)
	}
}
