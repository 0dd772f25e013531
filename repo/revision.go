package repo

import (
	"fmt"
	"strings"
)

// Revision identifies a point in a repository's history.
//
// The ID is a global identifier (a hexadecimal hash for Mercurial and Git)
// that is comparable between local and remote copies of the repository. The
// local revision number is an incrementing integer that is only meaningful
// within one clone; it is resolved on first use and cached.
type Revision struct {
	// Repository is the repository the revision was found in.
	Repository *Repository

	// ID is the global revision id. Always present.
	ID string

	// Branch is the branch the revision heads, when the revision came from
	// branch enumeration.
	Branch string

	// Tag is the tag pointing at the revision, when the revision came from
	// tag enumeration.
	Tag string

	number   int
	resolved bool
}

// NewRevision creates a revision without a known local revision number. The
// number is resolved from the repository the first time Number is called.
func NewRevision(repository *Repository, id string) *Revision {
	return &Revision{Repository: repository, ID: id}
}

// Number returns the local revision number, resolving it through the owning
// repository on first use. Repeated calls return the cached value.
func (v *Revision) Number() (int, error) {
	if !v.resolved {
		n, err := v.Repository.RevisionNumber(v.ID)
		if err != nil {
			return 0, err
		}
		v.number = n
		v.resolved = true
	}
	return v.number, nil
}

func (v *Revision) String() string {
	var fields []string
	if v.Branch != "" {
		fields = append(fields, fmt.Sprintf("branch=%q", v.Branch))
	}
	if v.Tag != "" {
		fields = append(fields, fmt.Sprintf("tag=%q", v.Tag))
	}
	if v.resolved {
		fields = append(fields, fmt.Sprintf("number=%d", v.number))
	}
	fields = append(fields, fmt.Sprintf("id=%q", v.ID))
	return fmt.Sprintf("Revision(%s)", strings.Join(fields, ", "))
}

// Release is a named revision that signifies a software release. Releases
// are derived from tags or branches by the repository's release filter; the
// identifier is either the full tag/branch name or the substring captured by
// the filter's capture group.
type Release struct {
	Revision   *Revision
	Identifier string
}

func (r *Release) String() string {
	return fmt.Sprintf("Release(identifier=%q, revision=%s)", r.Identifier, r.Revision)
}
