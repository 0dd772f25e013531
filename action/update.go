package action

import (
	"github.com/repomgr/repomgr/cache"
	"github.com/repomgr/repomgr/msg"
	"github.com/repomgr/repomgr/repo"
)

// Update pulls new changes into the local clones of the named repositories.
// When more than one repository is given an update limit is set so that
// repositories named twice (directly or through subprocesses) only hit the
// network once.
func Update(names []string) {
	if len(names) == 0 {
		msg.Die("No repositories given to update")
	}
	if len(names) > 1 {
		limiter := repo.LimitUpdates()
		defer limiter.Release()
	}
	if err := cache.SystemLock(); err != nil {
		msg.Die("Failed to acquire cache lock: %s", err)
	}
	defer cache.SystemUnlock()
	for _, name := range names {
		r := mustCoerce(name)
		if err := r.Update(); err != nil {
			msg.Die("Failed to update %s: %s", r, err)
		}
	}
}
