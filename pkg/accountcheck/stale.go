package accountcheck

import (
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"
)

// AuthStatus is what the credential store knows about an account at sweep
// time. Found=false means the account is already gone there (orphaned).
type AuthStatus struct {
	Found     bool
	Providers int
}

// ClassifyStale decides whether an anonymous account is eligible for
// automatic removal. The first failing predicate is returned as the skip
// reason so the sweep can log why a candidate survived.
func ClassifyStale(user *schemas.User, auth AuthStatus, now time.Time) (bool, string) {

	if !user.IsAnonymous {
		return false, "not anonymous"
	}
	if user.OnlineState || user.Status != "offline" {
		return false, "currently online"
	}
	if user.LastOnline == nil {
		return false, "no lastOnline timestamp"
	}
	if now.Sub(*user.LastOnline) < config.STALE_ANONYMOUS_AFTER {
		return false, "seen too recently"
	}
	if tier := user.Tier(); tier != config.TIER_FREE {
		return false, "has subscription tier " + tier
	}
	if len(user.OwnedRooms) > 0 {
		return false, "owns rooms"
	}
	if len(user.Rooms) > 0 {
		return false, "has room memberships"
	}
	// a live auth account with linked providers is a real user whose
	// profile write simply went missing; never auto-delete it
	if auth.Found && auth.Providers > 0 {
		return false, "auth account has linked providers"
	}

	return true, ""

}
