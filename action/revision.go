package action

import (
	"github.com/repomgr/repomgr/msg"
)

// RevisionNumber prints the local revision number of a revision expression.
func RevisionNumber(name, revision string) {
	r := mustCoerce(name)
	n, err := r.RevisionNumber(revision)
	if err != nil {
		msg.Die("Failed to find revision number in %s: %s", r, err)
	}
	msg.Puts("%d", n)
}

// RevisionID prints the global revision id of a revision expression.
func RevisionID(name, revision string) {
	r := mustCoerce(name)
	id, err := r.RevisionID(revision)
	if err != nil {
		msg.Die("Failed to find revision id in %s: %s", r, err)
	}
	msg.Puts("%s", id)
}

// ControlField prints a Debian control file field referencing the resolved
// revision of a repository.
func ControlField(name, revision string) {
	r := mustCoerce(name)
	field, value, err := r.ControlField(revision)
	if err != nil {
		msg.Die("Failed to generate control field for %s: %s", r, err)
	}
	msg.Puts("%s: %s", field, value)
}

// SumRevisions prints the summed revision numbers of one or more
// repository/revision pairs.
func SumRevisions(arguments []string) {
	sum, err := registry.SumRevisionNumbers(arguments)
	if err != nil {
		msg.Die("Failed to sum revision numbers: %s", err)
	}
	msg.Puts("%d", sum)
}
