package helpers

import (
	"fmt"
	"strings"

	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

func SubjectForUniversal(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.ConfirmEmail:
		return "Confirm your email address"
	case mailtpl.ResetPassword:
		return "Reset your password"
	case mailtpl.PasswordChanged:
		return "Your password was changed"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapNamedToUniversal rewrites jobs that name a specific email type so they render
// through the universal template.
func MapNamedToUniversal(job *mailer.EmailJob) {
	switch strings.ToLower(job.Template) {
	case mailtpl.ConfirmEmail, mailtpl.ResetPassword, mailtpl.PasswordChanged:
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if _, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", job.Data["Type"]) == "" {
			job.Data["Type"] = strings.ToLower(job.Template)
		}
		job.Template = mailtpl.Universal
	}
}
