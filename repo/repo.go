// Package repo provides a uniform interface to Mercurial, Git and Bazaar
// repositories driven through their command line tools.
//
// A Repository pairs a Backend (the VCS specific command templates and
// output parsing) with the logic that is shared between all three systems:
// lazy creation of local clones, throttled updates, tree exports and the
// translation of tags and branches into releases.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/repomgr/repomgr/cache"
	"github.com/repomgr/repomgr/msg"
	gpath "github.com/repomgr/repomgr/path"
	"github.com/repomgr/repomgr/util"
)

// Release schemes determine whether releases are derived from tags or from
// branches.
const (
	SchemeTags     = "tags"
	SchemeBranches = "branches"
)

// DefaultReleaseFilter matches every tag or branch name.
const DefaultReleaseFilter = ".*"

// LastUpdatedFile is the name of the marker file, inside the VCS metadata
// directory, recording the time of the last successful create or update.
const LastUpdatedFile = "repomgr.txt"

// ErrNoMatchingReleases is returned by SelectRelease when no known release
// is at or below the requested ceiling.
type ErrNoMatchingReleases struct {
	Ceiling string
}

func (e ErrNoMatchingReleases) Error() string {
	return fmt.Sprintf("no releases below or equal to %q found in repository", e.Ceiling)
}

// Options are the constructor arguments shared by every backend.
type Options struct {
	// Local is the directory holding (or receiving) the local clone. When
	// empty and Remote is set, a stable cache directory is derived from
	// the remote location.
	Local string

	// Remote is the location of the remote repository. When empty, Local
	// must already contain a supported repository.
	Remote string

	// ReleaseScheme is SchemeTags (the default) or SchemeBranches.
	ReleaseScheme string

	// ReleaseFilter is a regular expression with zero or one capture
	// group, matched against tag/branch names to single out releases.
	// Defaults to DefaultReleaseFilter.
	ReleaseFilter string

	// Runner overrides how external commands run. Used by tests.
	Runner Runner
}

// Repository is a local clone (existing or to be created) of a version
// control repository, together with the release configuration applied to it.
type Repository struct {
	Local         string
	Remote        string
	ReleaseScheme string

	backend       Backend
	releaseFilter *regexp.Regexp // prefix anchored
	filterGroups  int
	runner        Runner
}

// New creates a Repository for the given backend.
//
// At least one of Options.Local and Options.Remote must be set. When only a
// remote is given the local clone is placed in a stable cache directory so
// repeated runs share one clone.
func New(backend Backend, opts Options) (*Repository, error) {
	r := &Repository{
		Local:         opts.Local,
		Remote:        opts.Remote,
		ReleaseScheme: opts.ReleaseScheme,
		backend:       backend,
		runner:        opts.Runner,
	}
	if r.runner == nil {
		r.runner = execRunner{}
	}
	if r.ReleaseScheme == "" {
		r.ReleaseScheme = SchemeTags
	}
	if r.Local == "" && r.Remote == "" {
		return nil, fmt.Errorf("no local and no remote repository specified (one of the two is required)")
	}
	if r.Local == "" {
		r.Local = gpath.CacheDir(r.Remote)
	}
	if !r.Exists() && r.Remote == "" {
		return nil, fmt.Errorf("local repository (%s) doesn't exist and no remote repository specified", r.Local)
	}
	if r.ReleaseScheme != SchemeTags && r.ReleaseScheme != SchemeBranches {
		return nil, fmt.Errorf("release scheme %q is not supported (valid options are %q and %q)",
			r.ReleaseScheme, SchemeTags, SchemeBranches)
	}
	filter := opts.ReleaseFilter
	if filter == "" {
		filter = DefaultReleaseFilter
	}
	compiled, err := regexp.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid release filter %q: %w", filter, err)
	}
	if compiled.NumSubexp() > 1 {
		return nil, fmt.Errorf("release filter is expected to have zero or one capture group, but it has %d",
			compiled.NumSubexp())
	}
	r.filterGroups = compiled.NumSubexp()
	// Tag and branch names only count as releases when the filter matches
	// from the start of the name.
	r.releaseFilter, err = regexp.Compile("^(?:" + filter + ")")
	if err != nil {
		return nil, fmt.Errorf("invalid release filter %q: %w", filter, err)
	}
	return r, nil
}

// NewHg creates a Mercurial repository.
func NewHg(opts Options) (*Repository, error) { return New(HgBackend{}, opts) }

// NewGit creates a Git repository.
func NewGit(opts Options) (*Repository, error) { return New(GitBackend{}, opts) }

// NewBzr creates a Bazaar repository.
func NewBzr(opts Options) (*Repository, error) { return New(BzrBackend{}, opts) }

// Backend returns the VCS specific half of the repository.
func (r *Repository) Backend() Backend { return r.backend }

// Exists reports whether the local directory contains a supported clone.
func (r *Repository) Exists() bool { return r.backend.Exists(r.Local) }

// MetadataDir returns the directory holding the VCS metadata of the local
// clone.
func (r *Repository) MetadataDir() string { return r.backend.MetadataDir(r.Local) }

func (r *Repository) lastUpdatedFile() string {
	return filepath.Join(r.MetadataDir(), LastUpdatedFile)
}

// LastUpdated returns the time of the last successful create or update as
// seconds since the epoch, or 0 when the clone has never been updated.
func (r *Repository) LastUpdated() int64 {
	data, err := os.ReadFile(r.lastUpdatedFile())
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (r *Repository) markUpdated() {
	contents := fmt.Sprintf("%d\n", time.Now().Unix())
	if err := os.WriteFile(r.lastUpdatedFile(), []byte(contents), 0644); err != nil {
		msg.Warn("Failed to record update time of %s: %s", r.Local, err)
	}
}

// Create clones the remote repository into the local directory. It returns
// true when a clone was performed and false when the clone already existed;
// an existing clone is not an error.
func (r *Repository) Create() (bool, error) {
	if r.Exists() {
		return false, nil
	}
	msg.Info("Creating %s clone of %s at %s ..", r.backend.Name(), r.Remote, r.Local)
	if err := r.runner.Run("", r.expandTemplate(r.backend.CreateCommand(), "", "")); err != nil {
		return false, err
	}
	r.markUpdated()
	return true, nil
}

// Update pulls new changes from the remote repository, creating the local
// clone first when needed. Updates are skipped when no remote is configured,
// when the clone was just created, or when an update limit is active (see
// LimitUpdates) and the clone was already updated since the limit was set.
func (r *Repository) Update() error {
	if r.Remote == "" {
		// Without a remote there is nothing to pull from.
		return nil
	}
	created, err := r.Create()
	if err != nil {
		return err
	}
	if created {
		// A fresh clone is already up to date.
		return nil
	}
	if limit := updateLimit(); limit > 0 && r.LastUpdated() >= limit {
		msg.Debug("Skipping update of %s (already updated at or after the current limit)", r.Local)
		return nil
	}
	msg.Info("Updating %s clone of %s at %s ..", r.backend.Name(), r.Remote, r.Local)
	if err := r.runner.Run("", r.expandTemplate(r.backend.UpdateCommand(), "", "")); err != nil {
		return err
	}
	r.markUpdated()
	return nil
}

// Export writes the tree of the given revision (default revision when empty)
// to directory, creating the local clone and the directory as needed.
func (r *Repository) Export(directory, revision string) error {
	if _, err := r.Create(); err != nil {
		return err
	}
	if revision == "" {
		revision = r.backend.DefaultRevision()
	}
	msg.Info("Exporting revision %s of %s to %s ..", revision, r.Local, directory)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}
	return r.runner.Run("", r.expandTemplate(r.backend.ExportCommand(), revision, directory))
}

// RevisionNumber resolves a revision expression (default revision when
// empty) to the local revision number.
func (r *Repository) RevisionNumber(revision string) (int, error) {
	if _, err := r.Create(); err != nil {
		return 0, err
	}
	if revision == "" {
		revision = r.backend.DefaultRevision()
	}
	return r.backend.RevisionNumber(r, revision)
}

// RevisionID resolves a revision expression (default revision when empty) to
// the global revision id.
func (r *Repository) RevisionID(revision string) (string, error) {
	if _, err := r.Create(); err != nil {
		return "", err
	}
	if revision == "" {
		revision = r.backend.DefaultRevision()
	}
	return r.backend.RevisionID(r, revision)
}

// ControlField generates a Debian control file name/value pair pointing at
// the resolved revision, e.g.
//
//	Vcs-Git: https://github.com/git/git.git#8440f74997cf
func (r *Repository) ControlField(revision string) (string, string, error) {
	id, err := r.RevisionID(revision)
	if err != nil {
		return "", "", err
	}
	location := r.Remote
	if location == "" {
		location = r.Local
	}
	return r.backend.ControlField(), fmt.Sprintf("%s#%s", location, id), nil
}

// Branches returns the named branches, keyed by branch name. The local clone
// is created first when needed.
func (r *Repository) Branches() (map[string]*Revision, error) {
	if _, err := r.Create(); err != nil {
		return nil, err
	}
	found, err := r.backend.Branches(r)
	if err != nil {
		return nil, err
	}
	branches := make(map[string]*Revision, len(found))
	for _, rev := range found {
		branches[rev.Branch] = rev
	}
	return branches, nil
}

// OrderedBranches returns the branches sorted by natural order of their
// names, oldest looking name first.
func (r *Repository) OrderedBranches() ([]*Revision, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, err
	}
	ordered := make([]*Revision, 0, len(branches))
	for _, rev := range branches {
		ordered = append(ordered, rev)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return util.NaturalCompare(ordered[i].Branch, ordered[j].Branch) < 0
	})
	return ordered, nil
}

// Tags returns the tags, keyed by tag name. The local clone is created first
// when needed.
func (r *Repository) Tags() (map[string]*Revision, error) {
	if _, err := r.Create(); err != nil {
		return nil, err
	}
	found, err := r.backend.Tags(r)
	if err != nil {
		return nil, err
	}
	tags := make(map[string]*Revision, len(found))
	for _, rev := range found {
		tags[rev.Tag] = rev
	}
	return tags, nil
}

// OrderedTags returns the tags sorted by natural order of their names.
func (r *Repository) OrderedTags() ([]*Revision, error) {
	tags, err := r.Tags()
	if err != nil {
		return nil, err
	}
	ordered := make([]*Revision, 0, len(tags))
	for _, rev := range tags {
		ordered = append(ordered, rev)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return util.NaturalCompare(ordered[i].Tag, ordered[j].Tag) < 0
	})
	return ordered, nil
}

// Releases returns the releases, keyed by release identifier. Tags or
// branches (per the release scheme) are matched against the release filter;
// names that don't match are dropped and a capture group, when present,
// renames the release to the captured substring.
//
// Releases are recomputed on every call because the underlying tags and
// branches may change with every update.
func (r *Repository) Releases() (map[string]*Release, error) {
	var source map[string]*Revision
	var err error
	if r.ReleaseScheme == SchemeBranches {
		source, err = r.Branches()
	} else {
		source, err = r.Tags()
	}
	if err != nil {
		return nil, err
	}
	releases := make(map[string]*Release)
	for name, revision := range source {
		m := r.releaseFilter.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		identifier := name
		if r.filterGroups > 0 {
			identifier = m[1]
		}
		releases[identifier] = &Release{Revision: revision, Identifier: identifier}
		cache.MemPut(r.cacheName(), identifier)
	}
	return releases, nil
}

// OrderedReleases returns the releases sorted by natural order of their
// identifiers, ascending.
func (r *Repository) OrderedReleases() ([]*Release, error) {
	releases, err := r.Releases()
	if err != nil {
		return nil, err
	}
	ordered := make([]*Release, 0, len(releases))
	for _, rel := range releases {
		ordered = append(ordered, rel)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return util.NaturalCompare(ordered[i].Identifier, ordered[j].Identifier) < 0
	})
	return ordered, nil
}

// SelectRelease returns the newest release that is not newer than
// highestAllowed, comparing identifiers in natural order. An exact match
// returns that release; otherwise the closest predecessor wins.
func (r *Repository) SelectRelease(highestAllowed string) (*Release, error) {
	ordered, err := r.OrderedReleases()
	if err != nil {
		return nil, err
	}
	ceiling := util.NaturalSortKey(highestAllowed)
	var matching []*Release
	for _, release := range ordered {
		if util.NaturalSortKey(release.Identifier).Compare(ceiling) <= 0 {
			matching = append(matching, release)
		}
	}
	if len(matching) == 0 {
		return nil, ErrNoMatchingReleases{Ceiling: highestAllowed}
	}
	return matching[len(matching)-1], nil
}

// ReleaseToBranch translates a release identifier to the underlying branch
// name. It is an error to call this on a repository using the tags scheme.
func (r *Repository) ReleaseToBranch(releaseID string) (string, error) {
	if r.ReleaseScheme != SchemeBranches {
		return "", fmt.Errorf("repository isn't using the %q release scheme", SchemeBranches)
	}
	release, err := r.findRelease(releaseID)
	if err != nil {
		return "", err
	}
	return release.Revision.Branch, nil
}

// ReleaseToTag translates a release identifier to the underlying tag name.
// It is an error to call this on a repository using the branches scheme.
func (r *Repository) ReleaseToTag(releaseID string) (string, error) {
	if r.ReleaseScheme != SchemeTags {
		return "", fmt.Errorf("repository isn't using the %q release scheme", SchemeTags)
	}
	release, err := r.findRelease(releaseID)
	if err != nil {
		return "", err
	}
	return release.Revision.Tag, nil
}

func (r *Repository) findRelease(releaseID string) (*Release, error) {
	releases, err := r.Releases()
	if err != nil {
		return nil, err
	}
	release, ok := releases[releaseID]
	if !ok {
		return nil, fmt.Errorf("unknown release %q", releaseID)
	}
	return release, nil
}

// cacheName is the key used for the in-memory release cache.
func (r *Repository) cacheName() string {
	if r.Remote != "" {
		return r.Remote
	}
	return r.Local
}

// LatestSemverRelease returns the newest release identifier that parses as a
// semantic version, or an empty string when none does.
func (r *Repository) LatestSemverRelease() (string, error) {
	if _, err := r.Releases(); err != nil {
		return "", err
	}
	return cache.MemLatest(r.cacheName()), nil
}

// expandTemplate substitutes the {local}, {remote}, {revision} and
// {directory} placeholders in a command template. Every value is shell
// escaped.
func (r *Repository) expandTemplate(template, revision, directory string) string {
	replacer := strings.NewReplacer(
		"{local}", shellquote.Join(r.Local),
		"{remote}", shellquote.Join(r.Remote),
		"{revision}", shellquote.Join(revision),
		"{directory}", shellquote.Join(directory),
	)
	return replacer.Replace(template)
}

func (r *Repository) String() string {
	var fields []string
	if r.Local != "" {
		fields = append(fields, fmt.Sprintf("local=%q", r.Local))
	}
	if r.Remote != "" {
		fields = append(fields, fmt.Sprintf("remote=%q", r.Remote))
	}
	return fmt.Sprintf("%sRepo(%s)", r.backend.Name(), strings.Join(fields, ", "))
}
