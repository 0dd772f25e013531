package action

import (
	"github.com/repomgr/repomgr/msg"
)

// Tags prints the tags of a repository, one per line, in natural order of
// the tag names.
func Tags(name string) {
	r := mustCoerce(name)
	tags, err := r.OrderedTags()
	if err != nil {
		msg.Die("Failed to list tags of %s: %s", r, err)
	}
	for _, rev := range tags {
		msg.Puts("%s (%s)", rev.Tag, rev.ID)
	}
}
