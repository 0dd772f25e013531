package repo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/repomgr/repomgr/cfg"
	"github.com/repomgr/repomgr/msg"
)

// ErrUnknownType is returned when a repository type string names no known
// backend.
type ErrUnknownType struct {
	Type string
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown VCS repository type %q", e.Type)
}

// Registry resolves repository names, type strings and remote locations to
// Repository instances, deduplicating construction: identical arguments
// always yield the same instance for the registry's lifetime. Entries are
// never evicted.
type Registry struct {
	// ConfigFiles are the configuration files consulted by FindConfigured,
	// in override order.
	ConfigFiles []string

	mu    sync.Mutex
	repos map[string]*Repository
}

// NewRegistry creates a Registry reading the default configuration files.
func NewRegistry() *Registry {
	return &Registry{
		ConfigFiles: cfg.DefaultFiles(),
		repos:       make(map[string]*Repository),
	}
}

// Factory constructs (or returns the cached) Repository for a type string.
// Accepted types are "hg" (also "mercurial"), "git" and "bzr" (also
// "bazaar").
func (g *Registry) Factory(vcsType string, opts Options) (*Repository, error) {
	var backend Backend
	var canonical string
	switch strings.ToLower(vcsType) {
	case "hg", "mercurial":
		backend, canonical = HgBackend{}, "hg"
	case "git":
		backend, canonical = GitBackend{}, "git"
	case "bzr", "bazaar":
		backend, canonical = BzrBackend{}, "bzr"
	default:
		return nil, ErrUnknownType{Type: vcsType}
	}

	key := cacheKey(canonical, opts)
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.repos[key]; ok {
		msg.Debug("Repository previously constructed, returning cached instance (%s)", key)
		return r, nil
	}
	r, err := New(backend, opts)
	if err != nil {
		return nil, err
	}
	g.repos[key] = r
	return r, nil
}

// FindConfigured resolves a repository name through the configuration files.
func (g *Registry) FindConfigured(name string) (*Repository, error) {
	entry, err := cfg.Find(name, g.ConfigFiles...)
	if err != nil {
		return nil, err
	}
	return g.Factory(entry.Type, Options{
		Local:         entry.Local,
		Remote:        entry.Remote,
		ReleaseScheme: entry.ReleaseScheme,
		ReleaseFilter: entry.ReleaseFilter,
	})
}

// Coerce converts a string to a Repository. The string is tried as a
// configured repository name first, then as a "type+location" prefixed
// remote, then as a remote Git URL (recognized by its ".git" suffix).
func (g *Registry) Coerce(value string) (*Repository, error) {
	r, err := g.FindConfigured(value)
	if err == nil {
		return r, nil
	}
	var noSuch cfg.ErrNoSuchRepository
	if !errors.As(err, &noSuch) {
		return nil, err
	}
	// Check for the repository type prefixed to the remote location with
	// a "+" in between (pragmatic but ugly).
	if vcsType, remote, ok := strings.Cut(value, "+"); ok && vcsType != "" && remote != "" {
		r, err := g.Factory(vcsType, Options{Remote: remote})
		var unknown ErrUnknownType
		if err == nil {
			return r, nil
		} else if !errors.As(err, &unknown) {
			return nil, err
		}
	}
	if strings.HasSuffix(value, ".git") {
		return g.Factory("git", Options{Remote: value})
	}
	return nil, fmt.Errorf("the string %q doesn't match the name of any configured repository"+
		" and can't be parsed as the location of a remote repository"+
		" (maybe you forgot to prefix the type?)", value)
}

// SumRevisionNumbers sums the revision numbers of one or more
// repository/revision pairs. Taking multiple repositories into account when
// generating a build number makes sure the number bumps on every change in
// any of them.
func (g *Registry) SumRevisionNumbers(arguments []string) (int, error) {
	if len(arguments)%2 != 0 {
		return 0, fmt.Errorf("please provide an even number of arguments (one or more repository/revision pairs)")
	}
	sum := 0
	for i := 0; i < len(arguments); i += 2 {
		r, err := g.Coerce(arguments[i])
		if err != nil {
			return 0, err
		}
		n, err := r.RevisionNumber(arguments[i+1])
		if err != nil {
			return 0, err
		}
		sum += n
	}
	return sum, nil
}

// cacheKey canonicalizes constructor arguments into a deduplication key.
func cacheKey(vcsType string, opts Options) string {
	args := map[string]string{
		"local":          opts.Local,
		"remote":         opts.Remote,
		"release_scheme": opts.ReleaseScheme,
		"release_filter": opts.ReleaseFilter,
	}
	parts := []string{"type=" + vcsType}
	for k, v := range args {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
