package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/repomgr/repomgr/cfg"
)

func newTestRegistry(t *testing.T, config string) *Registry {
	t.Helper()
	g := NewRegistry()
	if config == "" {
		g.ConfigFiles = []string{filepath.Join(t.TempDir(), "missing.ini")}
		return g
	}
	file := filepath.Join(t.TempDir(), "repomgr.ini")
	if err := os.WriteFile(file, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	g.ConfigFiles = []string{file}
	return g
}

func TestFactoryUnknownType(t *testing.T) {
	g := newTestRegistry(t, "")
	_, err := g.Factory("svn", Options{Remote: "https://example.com/repo"})
	var unknown ErrUnknownType
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestFactoryDeduplicates(t *testing.T) {
	g := newTestRegistry(t, "")

	first, err := g.Factory("git", Options{Remote: "https://example.com/demo.git"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Factory("git", Options{Remote: "https://example.com/demo.git"})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected identical arguments to return the cached instance")
	}

	other, err := g.Factory("git", Options{Remote: "https://example.com/other.git"})
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("expected a different remote to return a distinct instance")
	}
}

func TestFactoryAliases(t *testing.T) {
	g := newTestRegistry(t, "")

	hg, err := g.Factory("hg", Options{Remote: "https://example.com/repo"})
	if err != nil {
		t.Fatal(err)
	}
	mercurial, err := g.Factory("mercurial", Options{Remote: "https://example.com/repo"})
	if err != nil {
		t.Fatal(err)
	}
	if hg != mercurial {
		t.Error("expected type aliases to share one cache entry")
	}

	bzr, err := g.Factory("bazaar", Options{Remote: "https://example.com/repo"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bzr.Backend().(BzrBackend); !ok {
		t.Errorf("expected a Bazaar backend, got %T", bzr.Backend())
	}
}

func TestCoerce(t *testing.T) {
	g := newTestRegistry(t, "")

	t.Run("git suffix", func(t *testing.T) {
		r, err := g.Coerce("https://github.com/git/git.git")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := r.Backend().(GitBackend); !ok {
			t.Errorf("expected a Git backend, got %T", r.Backend())
		}
		again, err := g.Coerce("https://github.com/git/git.git")
		if err != nil {
			t.Fatal(err)
		}
		if r != again {
			t.Error("expected coercion of the same URL to return the cached instance")
		}
	})

	t.Run("type prefix", func(t *testing.T) {
		r, err := g.Coerce("hg+https://www.mercurial-scm.org/repo/hg")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := r.Backend().(HgBackend); !ok {
			t.Errorf("expected a Mercurial backend, got %T", r.Backend())
		}
		if r.Remote != "https://www.mercurial-scm.org/repo/hg" {
			t.Errorf("unexpected remote %q", r.Remote)
		}
	})

	t.Run("unrecognized string", func(t *testing.T) {
		if _, err := g.Coerce("definitely-not-a-repository"); err == nil {
			t.Fatal("expected an error for an unrecognized string")
		}
	})
}

func TestFindConfigured(t *testing.T) {
	g := newTestRegistry(t, `
[vcs-repo-mgr]
type = git
remote = https://github.com/xolox/python-vcs-repo-mgr.git
release-scheme = tags
release-filter = ^(\d[\d.]*)$
`)

	r, err := g.FindConfigured("vcs-repo-mgr")
	if err != nil {
		t.Fatal(err)
	}
	if r.ReleaseScheme != SchemeTags {
		t.Errorf("unexpected release scheme %q", r.ReleaseScheme)
	}

	// Name matching ignores case and punctuation.
	same, err := g.Coerce("VCS Repo Mgr")
	if err != nil {
		t.Fatal(err)
	}
	if r != same {
		t.Error("expected the normalized name to resolve to the same instance")
	}

	_, err = g.FindConfigured("no-such-repo")
	var noSuch cfg.ErrNoSuchRepository
	if !errors.As(err, &noSuch) {
		t.Fatalf("expected ErrNoSuchRepository, got %v", err)
	}
}

func TestSumRevisionNumbers(t *testing.T) {
	g := newTestRegistry(t, "")
	if _, err := g.SumRevisionNumbers([]string{"repo-without-revision"}); err == nil {
		t.Fatal("expected an error for an odd number of arguments")
	}
}
