package accountcheck

import (
	"testing"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"
)

func TestCheckInstantEligibility(t *testing.T) {

	now := time.Now().UTC()

	t.Run("free non-anonymous is instant", func(t *testing.T) {
		u := &schemas.User{Ctime: now.Add(-90 * 24 * time.Hour)}
		ok, reason := CheckInstantEligibility(u, now, 0)
		if !ok {
			t.Fatalf("expected instant eligibility, got %q", reason)
		}
	})

	t.Run("paid tier requires review", func(t *testing.T) {
		u := &schemas.User{SubscriptionTier: config.TIER_LANDLORD}
		ok, reason := CheckInstantEligibility(u, now, 0)
		if ok || reason == "" {
			t.Fatalf("expected review with reason, got ok=%v reason=%q", ok, reason)
		}
	})

	t.Run("nested subscription tier counts", func(t *testing.T) {
		u := &schemas.User{Subscription: schemas.Subscription{Tier: config.TIER_CREATOR}}
		if ok, _ := CheckInstantEligibility(u, now, 0); ok {
			t.Fatalf("expected review for nested paid tier")
		}
	})

	t.Run("anonymous requires review", func(t *testing.T) {
		u := &schemas.User{IsAnonymous: true}
		if ok, _ := CheckInstantEligibility(u, now, 0); ok {
			t.Fatalf("expected review for anonymous account")
		}
	})

	t.Run("age gate disabled by default", func(t *testing.T) {
		u := &schemas.User{Ctime: now.Add(-time.Hour)}
		if ok, _ := CheckInstantEligibility(u, now, 0); !ok {
			t.Fatalf("zero minAge must not gate new accounts")
		}
	})

	t.Run("age gate when enabled", func(t *testing.T) {
		u := &schemas.User{Ctime: now.Add(-time.Hour)}
		if ok, _ := CheckInstantEligibility(u, now, 7*24*time.Hour); ok {
			t.Fatalf("expected review for account younger than gate")
		}
		old := &schemas.User{Ctime: now.Add(-8 * 24 * time.Hour)}
		if ok, _ := CheckInstantEligibility(old, now, 7*24*time.Hour); !ok {
			t.Fatalf("expected instant eligibility past the gate")
		}
	})

}
