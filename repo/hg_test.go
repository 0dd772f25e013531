package repo

import (
	"testing"
)

func newHgRepository(t *testing.T, runner *fakeRunner) *Repository {
	t.Helper()
	r, err := NewHg(Options{
		Local:  t.TempDir(),
		Remote: "https://www.mercurial-scm.org/repo/hg",
		Runner: runner,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestHgRevisionNumber(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{}}
	r := newHgRepository(t, runner)
	key := "hg --repository " + r.Local + " id --rev default --num"

	runner.outputs[key] = "195+\n"
	n, err := r.backend.RevisionNumber(r, "default")
	if err != nil {
		t.Fatal(err)
	}
	if n != 195 {
		t.Errorf("revision number %d, want 195", n)
	}

	runner.outputs[key] = "not-a-number\n"
	if _, err := r.backend.RevisionNumber(r, "default"); err == nil {
		t.Error("expected an error for non-numeric output")
	}
}

func TestHgRevisionID(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{}}
	r := newHgRepository(t, runner)
	key := "hg --repository " + r.Local + " id --rev default --debug --id"

	runner.outputs[key] = "8bdf6960aa56d6b470f7b433dac333491a7f25e7+\n"
	id, err := r.backend.RevisionID(r, "default")
	if err != nil {
		t.Fatal(err)
	}
	if id != "8bdf6960aa56d6b470f7b433dac333491a7f25e7" {
		t.Errorf("unexpected revision id %q", id)
	}

	runner.outputs[key] = "not hexadecimal\n"
	if _, err := r.backend.RevisionID(r, "default"); err == nil {
		t.Error("expected an error for non-hexadecimal output")
	}
}

func TestHgBranches(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{}}
	r := newHgRepository(t, runner)
	runner.outputs["hg --repository "+r.Local+" branches"] = `default                      195:60bd8e7bdc10
stable                       194:bf4577d2e9bc
garbage line without colon pair
`

	branches, err := r.backend.Branches(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}
	if branches[0].Branch != "default" || branches[0].ID != "60bd8e7bdc10" {
		t.Errorf("unexpected first branch %s", branches[0])
	}
	n, err := branches[0].Number()
	if err != nil {
		t.Fatal(err)
	}
	if n != 195 {
		t.Errorf("parsed revision number %d, want 195", n)
	}
}

func TestHgTags(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{}}
	r := newHgRepository(t, runner)
	runner.outputs["hg --repository "+r.Local+" tags"] = `tip                          195:60bd8e7bdc10
1.0                           50:0a341e9363e3
`

	tags, err := r.backend.Tags(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[1].Tag != "1.0" || tags[1].ID != "0a341e9363e3" {
		t.Errorf("unexpected tag %s", tags[1])
	}
}

func TestHgCommandTemplates(t *testing.T) {
	backend := HgBackend{}
	if backend.DefaultRevision() != "default" {
		t.Errorf("unexpected default revision %q", backend.DefaultRevision())
	}
	if backend.ControlField() != "Vcs-Hg" {
		t.Errorf("unexpected control field %q", backend.ControlField())
	}
}
