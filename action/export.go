package action

import (
	"github.com/repomgr/repomgr/cache"
	"github.com/repomgr/repomgr/msg"
)

// Export writes the tree of a revision (the backend's default revision when
// empty) to the given directory.
func Export(name, directory, revision string) {
	if directory == "" {
		msg.Die("No directory given to export to")
	}
	r := mustCoerce(name)
	if err := cache.SystemLock(); err != nil {
		msg.Die("Failed to acquire cache lock: %s", err)
	}
	defer cache.SystemUnlock()
	if err := r.Export(directory, revision); err != nil {
		msg.Die("Failed to export %s: %s", r, err)
	}
}
