package accountcheck

import (
	"testing"
	"toonstalkapi/pkg/config"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func ghostDoc() bson.M {
	return bson.M{
		"_id":         bson.NewObjectID(),
		"onlineState": false,
		"status":      "offline",
		"userId":      "abc123",
		"lastOnline":  "2026-01-01T00:00:00Z",
	}
}

func TestIsGhost(t *testing.T) {

	tests := []struct {
		name   string
		mutate func(bson.M)
		want   bool
	}{
		{name: "minimal ghost", mutate: func(bson.M) {}, want: true},
		{name: "all allowlisted fields", mutate: func(d bson.M) {
			d["welcomeEmailSent"] = false
			d["welcomeEmailAttemptedAt"] = "2026-01-01T00:00:00Z"
			d["welcomeEmailError"] = "smtp timeout"
			d["welcomeEmailSentAt"] = nil
			d["welcomeEmailMessageId"] = ""
		}, want: true},
		{name: "one extra field disqualifies", mutate: func(d bson.M) {
			d["nickname"] = "wiggly-toucan-042"
		}, want: false},
		{name: "online", mutate: func(d bson.M) {
			d["onlineState"] = true
		}, want: false},
		{name: "status not offline", mutate: func(d bson.M) {
			d["status"] = "online"
		}, want: false},
		{name: "missing onlineState", mutate: func(d bson.M) {
			delete(d, "onlineState")
		}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ghostDoc()
			tt.mutate(doc)
			if got := IsGhost(doc, config.GhostFieldAllowlist); got != tt.want {
				t.Fatalf("IsGhost() = %v, want %v", got, tt.want)
			}
		})
	}

}

func TestIsGhostOnDemandAllowlist(t *testing.T) {

	// the narrow list rejects records the scheduled list accepts
	doc := ghostDoc()
	if !IsGhost(doc, config.GhostFieldAllowlist) {
		t.Fatalf("expected ghost under scheduled allowlist")
	}
	if IsGhost(doc, config.GhostFieldAllowlistOnDemand) {
		t.Fatalf("lastOnline is not in the on-demand allowlist, expected non-ghost")
	}

	delete(doc, "lastOnline")
	if !IsGhost(doc, config.GhostFieldAllowlistOnDemand) {
		t.Fatalf("expected ghost under on-demand allowlist")
	}

}
