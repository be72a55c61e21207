package accountcheck

import (
	"testing"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"
)

func staleUser(now time.Time) *schemas.User {
	last := now.Add(-31 * time.Minute)
	return &schemas.User{
		IsAnonymous: true,
		OnlineState: false,
		Status:      "offline",
		LastOnline:  &last,
	}
}

func TestClassifyStaleEligible(t *testing.T) {

	now := time.Now().UTC()
	ok, reason := ClassifyStale(staleUser(now), AuthStatus{Found: true, Providers: 0}, now)
	if !ok {
		t.Fatalf("expected stale-anonymous verdict, got skip: %q", reason)
	}

	// orphaned at the credential store is equally eligible
	ok, _ = ClassifyStale(staleUser(now), AuthStatus{Found: false}, now)
	if !ok {
		t.Fatalf("expected orphaned account to be eligible")
	}

}

func TestClassifyStaleFlipOnePredicate(t *testing.T) {

	now := time.Now().UTC()

	tests := []struct {
		name   string
		mutate func(*schemas.User)
		auth   AuthStatus
	}{
		{name: "not anonymous", mutate: func(u *schemas.User) { u.IsAnonymous = false }, auth: AuthStatus{Found: true}},
		{name: "online", mutate: func(u *schemas.User) { u.OnlineState = true }, auth: AuthStatus{Found: true}},
		{name: "seen 10 minutes ago", mutate: func(u *schemas.User) {
			last := now.Add(-10 * time.Minute)
			u.LastOnline = &last
		}, auth: AuthStatus{Found: true}},
		{name: "no lastOnline", mutate: func(u *schemas.User) { u.LastOnline = nil }, auth: AuthStatus{Found: true}},
		{name: "paid tier", mutate: func(u *schemas.User) { u.SubscriptionTier = config.TIER_LANDLORD }, auth: AuthStatus{Found: true}},
		{name: "nested tier", mutate: func(u *schemas.User) { u.Subscription.Tier = config.TIER_CREATOR }, auth: AuthStatus{Found: true}},
		{name: "owns a room", mutate: func(u *schemas.User) { u.OwnedRooms = []string{"r1"} }, auth: AuthStatus{Found: true}},
		{name: "member of a room", mutate: func(u *schemas.User) { u.Rooms = map[string]bool{"r1": true} }, auth: AuthStatus{Found: true}},
		{name: "linked provider", mutate: func(*schemas.User) {}, auth: AuthStatus{Found: true, Providers: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := staleUser(now)
			tt.mutate(u)
			ok, reason := ClassifyStale(u, tt.auth, now)
			if ok {
				t.Fatalf("expected skip, got eligible")
			}
			if reason == "" {
				t.Fatalf("expected a skip reason")
			}
		})
	}

}

func TestClassifyStaleFreeTierSpelledOut(t *testing.T) {

	now := time.Now().UTC()
	u := staleUser(now)
	u.SubscriptionTier = config.TIER_FREE
	if ok, reason := ClassifyStale(u, AuthStatus{Found: true}, now); !ok {
		t.Fatalf("explicit free tier must stay eligible, got %q", reason)
	}

}
