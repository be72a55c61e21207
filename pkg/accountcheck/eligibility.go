package accountcheck

import (
	"fmt"
	"time"
	"toonstalkapi/pkg/config"
	"toonstalkapi/pkg/schemas"
)

// CheckInstantEligibility decides whether a self-service deletion request
// may run synchronously or must wait for operator review. minAge of zero
// disables the account-age gate.
func CheckInstantEligibility(user *schemas.User, now time.Time, minAge time.Duration) (bool, string) {

	if user.IsAnonymous {
		return false, "Anonymous accounts are removed automatically and cannot request deletion."
	}
	if tier := user.Tier(); tier != config.TIER_FREE {
		return false, fmt.Sprintf("Active %s subscription — an operator must confirm deletion.", tier)
	}
	if minAge > 0 && !user.Ctime.IsZero() && now.Sub(user.Ctime) < minAge {
		return false, fmt.Sprintf("Account younger than %s — an operator must confirm deletion.", minAge)
	}

	return true, ""

}
