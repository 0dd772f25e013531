package action

import (
	"github.com/repomgr/repomgr/msg"
)

// Releases prints the releases of a repository, one identifier per line, in
// natural order.
func Releases(name string) {
	r := mustCoerce(name)
	releases, err := r.OrderedReleases()
	if err != nil {
		msg.Die("Failed to list releases of %s: %s", r, err)
	}
	for _, release := range releases {
		msg.Puts("%s", release.Identifier)
	}
}

// SelectRelease prints the newest release of a repository that doesn't
// exceed the given ceiling.
func SelectRelease(name, ceiling string) {
	r := mustCoerce(name)
	release, err := r.SelectRelease(ceiling)
	if err != nil {
		msg.Die("Failed to select release of %s: %s", r, err)
	}
	msg.Puts("%s", release.Identifier)
}

// ReleaseToBranch prints the branch name behind a release identifier.
func ReleaseToBranch(name, releaseID string) {
	r := mustCoerce(name)
	branch, err := r.ReleaseToBranch(releaseID)
	if err != nil {
		msg.Die("Failed to translate release %q: %s", releaseID, err)
	}
	msg.Puts("%s", branch)
}

// ReleaseToTag prints the tag name behind a release identifier.
func ReleaseToTag(name, releaseID string) {
	r := mustCoerce(name)
	tag, err := r.ReleaseToTag(releaseID)
	if err != nil {
		msg.Die("Failed to translate release %q: %s", releaseID, err)
	}
	msg.Puts("%s", tag)
}

// Latest prints the newest release identifier of a repository that parses as
// a semantic version.
func Latest(name string) {
	r := mustCoerce(name)
	latest, err := r.LatestSemverRelease()
	if err != nil {
		msg.Die("Failed to list releases of %s: %s", r, err)
	}
	if latest == "" {
		msg.Die("No semver releases found in %s", r)
	}
	msg.Puts("%s", latest)
}
