package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeRunner returns canned output for captured commands and records every
// shell command line it is asked to run.
type fakeRunner struct {
	// outputs maps a space joined argument vector to the output the
	// command should produce.
	outputs map[string]string

	// commands collects the shell command lines passed to Run.
	commands []string

	// onRun is invoked for every Run call, before recording.
	onRun func(command string)
}

func (f *fakeRunner) Run(dir, command string) error {
	if f.onRun != nil {
		f.onRun(command)
	}
	f.commands = append(f.commands, command)
	return nil
}

func (f *fakeRunner) Output(dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	out, ok := f.outputs[key]
	if !ok {
		return "", &CommandError{Command: key, Err: errors.New("exit status 1")}
	}
	return out, nil
}

// fakeBackend is a minimal backend for exercising the shared Repository
// logic without any external tool.
type fakeBackend struct {
	exists   bool
	metadata string
	branches []*Revision
	tags     []*Revision
}

func (f *fakeBackend) Name() string                    { return "Fake" }
func (f *fakeBackend) DefaultRevision() string         { return "tip" }
func (f *fakeBackend) ControlField() string            { return "Vcs-Fake" }
func (f *fakeBackend) CreateCommand() string           { return "fake clone {remote} {local}" }
func (f *fakeBackend) UpdateCommand() string           { return "fake pull --repository {local} {remote}" }
func (f *fakeBackend) ExportCommand() string           { return "fake export {revision} {directory}" }
func (f *fakeBackend) MetadataDir(local string) string { return f.metadata }
func (f *fakeBackend) Exists(local string) bool        { return f.exists }

func (f *fakeBackend) RevisionNumber(r *Repository, revision string) (int, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeBackend) RevisionID(r *Repository, revision string) (string, error) {
	return "b617731b6c0ca746665f597d2f24b8814b137ebc", nil
}

func (f *fakeBackend) Branches(r *Repository) ([]*Revision, error) { return f.branches, nil }
func (f *fakeBackend) Tags(r *Repository) ([]*Revision, error)     { return f.tags, nil }

func newFakeRepository(t *testing.T, backend *fakeBackend, opts Options) *Repository {
	t.Helper()
	if backend.metadata == "" {
		backend.metadata = t.TempDir()
	}
	if opts.Runner == nil {
		opts.Runner = &fakeRunner{}
	}
	if opts.Local == "" && opts.Remote == "" {
		opts.Local = t.TempDir()
	}
	r, err := New(backend, opts)
	if err != nil {
		t.Fatalf("unexpected construction error: %s", err)
	}
	return r
}

func taggedRevision(r *Repository, tag, id string) *Revision {
	return &Revision{Repository: r, ID: id, Tag: tag}
}

func TestNewValidation(t *testing.T) {
	t.Run("no location at all", func(t *testing.T) {
		if _, err := New(&fakeBackend{}, Options{}); err == nil {
			t.Fatal("expected an error without local and remote")
		}
	})
	t.Run("missing local without remote", func(t *testing.T) {
		local := filepath.Join(t.TempDir(), "does-not-exist")
		if _, err := New(&fakeBackend{}, Options{Local: local}); err == nil {
			t.Fatal("expected an error for a missing local clone without remote")
		}
	})
	t.Run("bogus release scheme", func(t *testing.T) {
		_, err := New(&fakeBackend{exists: true}, Options{Local: t.TempDir(), ReleaseScheme: "bogus"})
		if err == nil || !strings.Contains(err.Error(), "release scheme") {
			t.Fatalf("expected a release scheme error, got %v", err)
		}
	})
	t.Run("two capture groups", func(t *testing.T) {
		_, err := New(&fakeBackend{exists: true}, Options{
			Local:         t.TempDir(),
			ReleaseFilter: `(\d+)\.(\d+)`,
		})
		if err == nil || !strings.Contains(err.Error(), "capture group") {
			t.Fatalf("expected a capture group error, got %v", err)
		}
	})
	t.Run("remote only derives local", func(t *testing.T) {
		r, err := New(&fakeBackend{}, Options{Remote: "https://example.com/demo.git"})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if r.Local == "" {
			t.Fatal("expected a derived local directory")
		}
	})
}

func TestCreateIdempotent(t *testing.T) {
	backend := &fakeBackend{metadata: t.TempDir()}
	runner := &fakeRunner{}
	runner.onRun = func(string) { backend.exists = true }
	r := newFakeRepository(t, backend, Options{
		Local:  filepath.Join(t.TempDir(), "clone"),
		Remote: "https://example.com/demo",
		Runner: runner,
	})

	created, err := r.Create()
	if err != nil {
		t.Fatalf("first create failed: %s", err)
	}
	if !created {
		t.Error("expected the first create to clone")
	}
	created, err = r.Create()
	if err != nil {
		t.Fatalf("second create failed: %s", err)
	}
	if created {
		t.Error("expected the second create to be a no-op")
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected exactly one clone command, got %v", runner.commands)
	}
	if want := "fake clone https://example.com/demo"; !strings.HasPrefix(runner.commands[0], want) {
		t.Errorf("unexpected clone command %q", runner.commands[0])
	}
}

func TestCreateRecordsUpdateTime(t *testing.T) {
	backend := &fakeBackend{metadata: t.TempDir()}
	runner := &fakeRunner{}
	runner.onRun = func(string) { backend.exists = true }
	r := newFakeRepository(t, backend, Options{
		Local:  filepath.Join(t.TempDir(), "clone"),
		Remote: "https://example.com/demo",
		Runner: runner,
	})

	if r.LastUpdated() != 0 {
		t.Error("expected no update time before the first create")
	}
	if _, err := r.Create(); err != nil {
		t.Fatal(err)
	}
	if r.LastUpdated() == 0 {
		t.Error("expected an update time after create")
	}
}

func TestUpdate(t *testing.T) {
	t.Run("no remote is a no-op", func(t *testing.T) {
		runner := &fakeRunner{}
		r := newFakeRepository(t, &fakeBackend{exists: true}, Options{
			Local:  t.TempDir(),
			Runner: runner,
		})
		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
		if len(runner.commands) != 0 {
			t.Errorf("expected no commands, got %v", runner.commands)
		}
	})

	t.Run("fresh clone skips the pull", func(t *testing.T) {
		backend := &fakeBackend{metadata: t.TempDir()}
		runner := &fakeRunner{}
		runner.onRun = func(string) { backend.exists = true }
		r := newFakeRepository(t, backend, Options{
			Local:  filepath.Join(t.TempDir(), "clone"),
			Remote: "https://example.com/demo",
			Runner: runner,
		})
		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
		if len(runner.commands) != 1 {
			t.Fatalf("expected only the clone command, got %v", runner.commands)
		}
	})

	t.Run("existing clone pulls", func(t *testing.T) {
		backend := &fakeBackend{exists: true, metadata: t.TempDir()}
		runner := &fakeRunner{}
		r := newFakeRepository(t, backend, Options{
			Local:  t.TempDir(),
			Remote: "https://example.com/demo",
			Runner: runner,
		})
		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
		if len(runner.commands) != 1 || !strings.HasPrefix(runner.commands[0], "fake pull") {
			t.Fatalf("expected a pull command, got %v", runner.commands)
		}
	})

	t.Run("update limit suppresses redundant pulls", func(t *testing.T) {
		backend := &fakeBackend{exists: true, metadata: t.TempDir()}
		runner := &fakeRunner{}
		r := newFakeRepository(t, backend, Options{
			Local:  t.TempDir(),
			Remote: "https://example.com/demo",
			Runner: runner,
		})
		// Stamp the marker slightly in the future so the clock can't tick
		// past it between here and LimitUpdates.
		marker := filepath.Join(backend.metadata, LastUpdatedFile)
		stamp := strconv.FormatInt(time.Now().Unix()+5, 10)
		if err := os.WriteFile(marker, []byte(stamp+"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		limiter := LimitUpdates()
		defer limiter.Release()

		if err := r.Update(); err != nil {
			t.Fatal(err)
		}
		if len(runner.commands) != 0 {
			t.Errorf("expected the update to be skipped, got %v", runner.commands)
		}
	})
}

func TestExport(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	runner := &fakeRunner{}
	r := newFakeRepository(t, backend, Options{Local: t.TempDir(), Runner: runner})

	directory := filepath.Join(t.TempDir(), "nested", "export")
	if err := r.Export(directory, ""); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		t.Fatal("expected the export directory to be created")
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one export command, got %v", runner.commands)
	}
	// The default revision fills in and the directory is shell quoted.
	if !strings.Contains(runner.commands[0], "fake export tip") {
		t.Errorf("unexpected export command %q", runner.commands[0])
	}
}

func TestControlField(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{
		Local:  t.TempDir(),
		Remote: "https://github.com/xolox/python-vcs-repo-mgr.git",
	})
	field, value, err := r.ControlField("")
	if err != nil {
		t.Fatal(err)
	}
	if field != "Vcs-Fake" {
		t.Errorf("unexpected field name %q", field)
	}
	want := "https://github.com/xolox/python-vcs-repo-mgr.git#b617731b6c0ca746665f597d2f24b8814b137ebc"
	if value != want {
		t.Errorf("unexpected field value %q, want %q", value, want)
	}
}

func TestReleases(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{
		Local:         t.TempDir(),
		ReleaseFilter: `^v(\d+(?:\.\d+)*)$`,
	})
	backend.tags = []*Revision{
		taggedRevision(r, "v2.4.0", "67308bd628c6"),
		taggedRevision(r, "not-a-release", "0000000000"),
		taggedRevision(r, "v0.2", "1111111111"),
		taggedRevision(r, "v0.10", "2222222222"),
	}

	releases, err := r.Releases()
	if err != nil {
		t.Fatal(err)
	}
	if len(releases) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(releases))
	}
	release, ok := releases["2.4.0"]
	if !ok {
		t.Fatal("expected the capture group to rename v2.4.0 to 2.4.0")
	}
	if release.Revision.Tag != "v2.4.0" {
		t.Errorf("release points at tag %q", release.Revision.Tag)
	}
	if _, ok := releases["not-a-release"]; ok {
		t.Error("expected non-matching tags to be dropped")
	}

	ordered, err := r.OrderedReleases()
	if err != nil {
		t.Fatal(err)
	}
	var identifiers []string
	for _, rel := range ordered {
		identifiers = append(identifiers, rel.Identifier)
	}
	want := []string{"0.2", "0.10", "2.4.0"}
	if fmt.Sprint(identifiers) != fmt.Sprint(want) {
		t.Errorf("ordered releases %v, want %v", identifiers, want)
	}
}

func TestReleasesWithoutCaptureGroup(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{Local: t.TempDir()})
	backend.tags = []*Revision{taggedRevision(r, "v2.4.0", "67308bd628c6")}

	releases, err := r.Releases()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := releases["v2.4.0"]; !ok {
		t.Error("expected the full tag name as identifier without a capture group")
	}
}

func TestSelectRelease(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{Local: t.TempDir()})
	backend.tags = []*Revision{
		taggedRevision(r, "0.19", "aaaa"),
		taggedRevision(r, "0.19.3", "bbbb"),
	}

	t.Run("closest predecessor", func(t *testing.T) {
		release, err := r.SelectRelease("0.19.5")
		if err != nil {
			t.Fatal(err)
		}
		if release.Identifier != "0.19.3" {
			t.Errorf("selected %q, want %q", release.Identifier, "0.19.3")
		}
	})

	t.Run("exact match", func(t *testing.T) {
		release, err := r.SelectRelease("0.19")
		if err != nil {
			t.Fatal(err)
		}
		if release.Identifier != "0.19" {
			t.Errorf("selected %q, want %q", release.Identifier, "0.19")
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, err := r.SelectRelease("0.0.1")
		var noMatch ErrNoMatchingReleases
		if !errors.As(err, &noMatch) {
			t.Fatalf("expected ErrNoMatchingReleases, got %v", err)
		}
	})
}

func TestReleaseSchemeTranslation(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{Local: t.TempDir()})
	backend.tags = []*Revision{taggedRevision(r, "1.0", "aaaa")}

	tag, err := r.ReleaseToTag("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if tag != "1.0" {
		t.Errorf("unexpected tag %q", tag)
	}
	if _, err := r.ReleaseToBranch("1.0"); err == nil {
		t.Error("expected a scheme mismatch error for ReleaseToBranch")
	}
	if _, err := r.ReleaseToTag("2.0"); err == nil {
		t.Error("expected an error for an unknown release")
	}
}

func TestRevisionNumberCaching(t *testing.T) {
	backend := &fakeBackend{exists: true, metadata: t.TempDir()}
	r := newFakeRepository(t, backend, Options{Local: t.TempDir()})

	// The fake backend errors on RevisionNumber, so a cached value proves
	// resolution is never re-triggered.
	rev := &Revision{Repository: r, ID: "aaaa", number: 42, resolved: true}
	for i := 0; i < 2; i++ {
		n, err := rev.Number()
		if err != nil {
			t.Fatalf("read %d failed: %s", i, err)
		}
		if n != 42 {
			t.Fatalf("read %d returned %d, want 42", i, n)
		}
	}

	unresolved := NewRevision(r, "aaaa")
	if _, err := unresolved.Number(); err == nil {
		t.Error("expected lazy resolution to consult the repository")
	}
}
