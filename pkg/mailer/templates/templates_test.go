package templates

import (
	"strings"
	"testing"

	"github.com/lahjatuna/lahjatuna-api/config"
)

func TestRenderConfirmEmail(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{AppName: "lahjatuna-api", CompanyName: "Lahjatuna"}
	data := NewConfirmEmailData(cfg, "amira", "amira@example.test", "http://app.test/confirm?token=abc")

	text, html, err := Render(Universal, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "http://app.test/confirm?token=abc") {
		t.Fatalf("text body missing confirm url: %s", text)
	}
	if !strings.Contains(html, "Confirm email") || !strings.Contains(html, "Hi amira") {
		t.Fatalf("html body missing content: %s", html)
	}
}

func TestRenderResetPasswordDefaultsName(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{CompanyName: "Lahjatuna"}
	data := NewResetPasswordData(cfg, "", "x@example.test", "http://app.test/reset?token=t")

	text, _, err := Render(Universal, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "Hi there") || !strings.Contains(text, "reset?token=t") {
		t.Fatalf("unexpected text body: %s", text)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	t.Parallel()

	if _, _, err := Render("missing", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
