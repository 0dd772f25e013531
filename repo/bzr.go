package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repomgr/repomgr/msg"
)

// BzrBackend drives Bazaar repositories through the bzr command line tool.
type BzrBackend struct{}

func (BzrBackend) Name() string            { return "Bazaar" }
func (BzrBackend) DefaultRevision() string { return "last:1" }
func (BzrBackend) ControlField() string    { return "Vcs-Bzr" }

func (BzrBackend) CreateCommand() string { return "bzr branch --use-existing-dir {remote} {local}" }
func (BzrBackend) UpdateCommand() string { return "cd {local} && bzr pull {remote}" }
func (BzrBackend) ExportCommand() string {
	return "cd {local} && bzr export --revision={revision} {directory}"
}

func (BzrBackend) MetadataDir(local string) string {
	return filepath.Join(local, ".bzr")
}

func (b BzrBackend) Exists(local string) bool {
	info, err := os.Stat(filepath.Join(b.MetadataDir(local), "branch-format"))
	return err == nil && info.Mode().IsRegular()
}

// RevisionNumber approximates a flat revision number by counting the log
// entries from the start of history up to the given revision expression.
//
// Bazaar's native numbering uses a dotted merge-aware scheme (e.g. 3112.1.5)
// that doesn't map onto a single integer. The count produced here increases
// as commits are made, which is all callers need, but it is not stable
// across branches with different merge histories.
func (BzrBackend) RevisionNumber(r *Repository, revision string) (int, error) {
	out, err := r.runner.Output(r.Local, "bzr", "log", "--revision=.."+revision, "--line")
	if err != nil {
		return 0, err
	}
	number := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			number++
		}
	}
	if number == 0 {
		return 0, fmt.Errorf("unexpected output from 'bzr log --line': %q", out)
	}
	return number, nil
}

// RevisionID queries version-info with a template that emits only the
// revision id.
func (BzrBackend) RevisionID(r *Repository, revision string) (string, error) {
	out, err := r.runner.Output(r.Local, "bzr", "version-info", "--revision="+revision,
		"--custom", "--template={revision_id}")
	if err != nil {
		return "", err
	}
	result := strings.TrimSpace(out)
	if result == "" {
		return "", fmt.Errorf("unexpected output from 'bzr version-info': %q", out)
	}
	return result, nil
}

// Branches logs a warning and returns nothing: Bazaar has no branch concept
// usable here.
func (BzrBackend) Branches(r *Repository) ([]*Revision, error) {
	msg.Warn("Bazaar support doesn't include branches (consider using tags instead).")
	return nil, nil
}

// Tags reconciles two tag listings. "bzr tags" marks tags pointing at
// non-existing revisions with a "?" placeholder but omits revision ids, while
// "bzr tags --show-ids" includes the ids but no placeholder. Only tags the
// first listing confirms as valid are yielded, with ids from the second.
func (BzrBackend) Tags(r *Repository) ([]*Revision, error) {
	out, err := r.runner.Output(r.Local, "bzr", "tags")
	if err != nil {
		return nil, err
	}
	valid := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 2 && tokens[1] != "?" {
			valid[tokens[0]] = true
		}
	}
	out, err = r.runner.Output(r.Local, "bzr", "tags", "--show-ids")
	if err != nil {
		return nil, err
	}
	var revisions []*Revision
	for _, line := range strings.Split(out, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 2 && valid[tokens[0]] {
			revisions = append(revisions, &Revision{
				Repository: r,
				ID:         tokens[1],
				Tag:        tokens[0],
			})
		}
	}
	return revisions, nil
}
