package sessionsweep

import "time"

type (
	sessionManager interface {
		ExpireIdle(ttl time.Duration) int
		Len() int
	}
)
