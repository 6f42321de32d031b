package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData is the payload every email template renders; it travels as EmailJob.Data.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	// Action URLs
	ResetURL   string `json:"ResetURL"`
	ConfirmURL string `json:"ConfirmURL"`

	// Additional data
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	IP            string    `json:"IP"`
	Time          string    `json:"Time"`
	TimeAt        time.Time `json:"TimeAt"`
	UserAgent     string    `json:"UserAgent"`
	Location      string    `json:"Location"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func funcs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

// Template base names; each has a .text.tmpl and a .html.tmpl file.
const (
	Universal       = "universal"
	ConfirmEmail    = "confirm_email"
	ResetPassword   = "reset_password"
	PasswordChanged = "password_changed"
)

var (
	parseOnce sync.Once
	textSet   *texttpl.Template
	htmlSet   *htmpl.Template
	parseErr  error
)

// parse loads every embedded template once; a broken file fails all renders.
func parse() error {
	parseOnce.Do(func() {
		textSet, parseErr = texttpl.New("text").Funcs(texttpl.FuncMap(funcs())).ParseFS(FS, "*.text.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse text templates: %w", parseErr)
			return
		}
		htmlSet, parseErr = htmpl.New("html").Funcs(htmpl.FuncMap(funcs())).ParseFS(FS, "*.html.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse html templates: %w", parseErr)
		}
	})
	return parseErr
}

// Render renders the text and html bodies for the given base name.
func Render(name string, data any) (text string, html string, err error) {
	if err := parse(); err != nil {
		return "", "", err
	}
	t := textSet.Lookup(name + ".text.tmpl")
	h := htmlSet.Lookup(name + ".html.tmpl")
	if t == nil || h == nil {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var tb, hb bytes.Buffer
	if err := t.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	if err := h.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return tb.String(), hb.String(), nil
}
