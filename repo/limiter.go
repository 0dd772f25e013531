package repo

import (
	"os"
	"strconv"
	"time"
)

// UpdateLimitVariable is the environment variable carrying the update limit
// timestamp. The environment is used deliberately so that subprocesses
// driving repomgr inherit the limit.
const UpdateLimitVariable = "REPOMGR_UPDATE_LIMIT"

// UpdateLimiter marks a window during which each repository is updated at
// most once. Obtained from LimitUpdates, released with Release; limiters
// nest.
type UpdateLimiter struct {
	previous string
	present  bool
	active   bool
}

// LimitUpdates records the current time as the update limit. Repositories
// whose last update is at or after this moment skip their next Update call.
func LimitUpdates() *UpdateLimiter {
	previous, present := os.LookupEnv(UpdateLimitVariable)
	os.Setenv(UpdateLimitVariable, strconv.FormatInt(time.Now().Unix(), 10))
	return &UpdateLimiter{previous: previous, present: present, active: true}
}

// Release restores the previous value of the update limit variable, or
// removes it when there was none. Calling Release more than once is a no-op.
func (l *UpdateLimiter) Release() {
	if !l.active {
		return
	}
	l.active = false
	if l.present {
		os.Setenv(UpdateLimitVariable, l.previous)
	} else {
		os.Unsetenv(UpdateLimitVariable)
	}
}

// updateLimit returns the active update limit as seconds since the epoch, or
// 0 when no limit is set.
func updateLimit() int64 {
	value := os.Getenv(UpdateLimitVariable)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
