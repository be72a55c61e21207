package accountcheck

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// IsGhost reports whether a raw user document is a ghost: a partial record
// left behind when the offline writer fired after the owning identity was
// already deleted. A ghost carries nothing but fields the automated writers
// produce, and is offline.
//
// The allowlist is passed in because two call sites run with different
// lists (config.GhostFieldAllowlist and config.GhostFieldAllowlistOnDemand).
func IsGhost(doc bson.M, allowlist []string) bool {

	allowed := make(map[string]struct{}, len(allowlist))
	for _, f := range allowlist {
		allowed[f] = struct{}{}
	}

	present := 0
	for field := range doc {
		if field == "_id" {
			continue
		}
		if _, ok := allowed[field]; !ok {
			return false
		}
		present++
	}
	if present > len(allowlist) {
		return false
	}

	if online, ok := doc["onlineState"].(bool); !ok || online {
		return false
	}
	if status, ok := doc["status"].(string); !ok || status != "offline" {
		return false
	}

	return true

}
