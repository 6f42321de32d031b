package helpers

import (
	"testing"

	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

func TestMapNamedToUniversal(t *testing.T) {
	t.Parallel()

	job := mailer.EmailJob{To: "a@b.test", Template: "confirm_email"}
	MapNamedToUniversal(&job)
	EnsureRecipientAndEmail(&job)

	if job.Template != mailtpl.Universal {
		t.Fatalf("expected universal template, got %q", job.Template)
	}
	if job.Data["Type"] != mailtpl.ConfirmEmail || job.Data["Email"] != "a@b.test" || job.Data["RecipientEmail"] != "a@b.test" {
		t.Fatalf("unexpected data: %v", job.Data)
	}
	if got := SubjectForUniversal(job.Data); got != "Confirm your email address" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestSubjectForUnknownType(t *testing.T) {
	t.Parallel()

	if got := SubjectForUniversal(map[string]any{"Type": "other"}); got != "Notification" {
		t.Fatalf("unexpected subject %q", got)
	}
}
