package helpers

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		env, level string
		want       logrus.Level
	}{
		{"development", "", logrus.DebugLevel},
		{"production", "", logrus.InfoLevel},
		{"production", "warn", logrus.WarnLevel},
		{"production", "loud", logrus.InfoLevel},
	}
	for _, tc := range cases {
		l := NewLogger("lahjatuna-api", tc.env, tc.level)
		if l.GetLevel() != tc.want {
			t.Fatalf("env=%s level=%q: expected %v, got %v", tc.env, tc.level, tc.want, l.GetLevel())
		}
	}
	if _, ok := NewLogger("x", "production", "").Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter outside development")
	}
}
