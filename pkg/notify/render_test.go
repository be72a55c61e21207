package notify

import (
	"strings"
	"testing"
)

func TestRenderAllKinds(t *testing.T) {

	data := map[string]string{
		"nickname":   "wiggly-toucan-042",
		"uid":        "abc123",
		"message":    "love the hats",
		"count":      "4",
		"kind":       "user",
		"reporterId": "u1",
		"targetId":   "u2",
		"reason":     "spam",
		"rooms":      "r1, r2",
		"deletedBy":  "user",
		"tier":       "landlord",
	}

	for kind := range subjects {
		job := &Job{Kind: kind, Data: data}
		subject, body, err := Render(job)
		if err != nil {
			t.Fatalf("Render(%s) error: %v", kind, err)
		}
		if subject == "" || body == "" {
			t.Fatalf("Render(%s) produced empty output", kind)
		}
	}

}

func TestRenderUnknownKind(t *testing.T) {
	if _, _, err := Render(&Job{Kind: "nope"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRenderEscapesUserContent(t *testing.T) {

	job := &Job{Kind: KindFeedback, Data: map[string]string{
		"uid":     "abc",
		"message": "<script>alert(1)</script>",
	}}
	_, body, err := Render(job)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("user content must be escaped in email bodies")
	}

}
