package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var subjects = map[string]string{
	KindWelcome:           "Welcome to ToonsTalk!",
	KindFeedback:          "New feedback | ToonsTalk",
	KindSurvey:            "New survey response | ToonsTalk",
	KindReport:            "New report | ToonsTalk",
	KindDeletionReview:    "Action required: deletion request | ToonsTalk",
	KindDeletionPending:   "Your deletion request | ToonsTalk",
	KindDeletionCompleted: "Your account has been deleted | ToonsTalk",
	KindDeletionReport:    "Account deleted | ToonsTalk",
	KindSubStarted:        "Subscription confirmed | ToonsTalk",
	KindSubCanceled:       "Subscription canceled | ToonsTalk",
}

// Render produces the subject and HTML body for a job.
func Render(job *Job) (string, string, error) {

	subject, ok := subjects[job.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", job.Kind)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, job.Kind+".html", job.Data); err != nil {
		return "", "", err
	}

	return subject, buf.String(), nil

}
