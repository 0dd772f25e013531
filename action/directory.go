package action

import (
	"github.com/repomgr/repomgr/msg"
)

// FindDirectory prints the directory holding (or selected for) the local
// clone of a repository.
func FindDirectory(name string) {
	r := mustCoerce(name)
	msg.Puts("%s", r.Local)
}
