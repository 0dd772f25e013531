package action

import (
	"github.com/repomgr/repomgr/msg"
)

// Branches prints the branches of a repository, one per line, in natural
// order of the branch names.
func Branches(name string) {
	r := mustCoerce(name)
	branches, err := r.OrderedBranches()
	if err != nil {
		msg.Die("Failed to list branches of %s: %s", r, err)
	}
	for _, rev := range branches {
		msg.Puts("%s (%s)", rev.Branch, rev.ID)
	}
}
