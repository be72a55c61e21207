package presence

import (
	"time"
	"toonstalkapi/pkg/config"
)

// SessionSeconds computes the billable-for-stats length of a session in
// whole seconds. Durations outside (0, MAX_SESSION_SECONDS) are clock
// artifacts (skew, a stuck currentSessionStart) and are discarded.
func SessionSeconds(start, end time.Time) (int64, bool) {

	secs := int64(end.Sub(start) / time.Second)
	if secs <= 0 || secs >= config.MAX_SESSION_SECONDS {
		return 0, false
	}
	return secs, true

}
