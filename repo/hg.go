package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// HgBackend drives Mercurial repositories through the hg command line tool.
type HgBackend struct{}

func (HgBackend) Name() string            { return "Mercurial" }
func (HgBackend) DefaultRevision() string { return "default" }
func (HgBackend) ControlField() string    { return "Vcs-Hg" }

func (HgBackend) CreateCommand() string { return "hg clone --noupdate {remote} {local}" }
func (HgBackend) UpdateCommand() string { return "hg pull --repository {local} {remote}" }
func (HgBackend) ExportCommand() string {
	return "hg archive --repository {local} --rev {revision} {directory}"
}

func (HgBackend) MetadataDir(local string) string {
	return filepath.Join(local, ".hg")
}

func (b HgBackend) Exists(local string) bool {
	info, err := os.Stat(b.MetadataDir(local))
	return err == nil && info.IsDir()
}

var hexID = regexp.MustCompile(`^[A-Fa-f0-9]+$`)

// RevisionNumber asks hg for the numeric form of a revision expression. The
// output may carry a trailing "+" when the working directory is dirty; that
// marker is stripped before parsing.
func (HgBackend) RevisionNumber(r *Repository, revision string) (int, error) {
	out, err := r.runner.Output("", "hg", "--repository", r.Local, "id", "--rev", revision, "--num")
	if err != nil {
		return 0, err
	}
	result := strings.TrimSuffix(strings.TrimSpace(out), "+")
	n, err := strconv.Atoi(result)
	if err != nil || result == "" {
		return 0, fmt.Errorf("unexpected output from 'hg id --num': %q", out)
	}
	return n, nil
}

// RevisionID asks hg for the full hexadecimal id of a revision expression.
func (HgBackend) RevisionID(r *Repository, revision string) (string, error) {
	out, err := r.runner.Output("", "hg", "--repository", r.Local, "id", "--rev", revision, "--debug", "--id")
	if err != nil {
		return "", err
	}
	result := strings.TrimSuffix(strings.TrimSpace(out), "+")
	if !hexID.MatchString(result) {
		return "", fmt.Errorf("unexpected output from 'hg id --id': %q", out)
	}
	return result, nil
}

// Branches parses the output of "hg branches". Each line looks like
//
//	default                      195:60bd8e7bdc10
//
// Closed branches are excluded by hg's default listing behavior.
func (b HgBackend) Branches(r *Repository) ([]*Revision, error) {
	out, err := r.runner.Output("", "hg", "--repository", r.Local, "branches")
	if err != nil {
		return nil, err
	}
	return b.parseListing(r, out, false), nil
}

// Tags parses the output of "hg tags", which has the same shape as the
// branch listing.
func (b HgBackend) Tags(r *Repository) ([]*Revision, error) {
	out, err := r.runner.Output("", "hg", "--repository", r.Local, "tags")
	if err != nil {
		return nil, err
	}
	return b.parseListing(r, out, true), nil
}

func (HgBackend) parseListing(r *Repository, out string, tags bool) []*Revision {
	var revisions []*Revision
	for _, line := range strings.Split(out, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) < 2 || !strings.Contains(tokens[1], ":") {
			continue
		}
		numberText, id, _ := strings.Cut(tokens[1], ":")
		number, err := strconv.Atoi(numberText)
		if err != nil {
			continue
		}
		rev := &Revision{
			Repository: r,
			ID:         id,
			number:     number,
			resolved:   true,
		}
		if tags {
			rev.Tag = tokens[0]
		} else {
			rev.Branch = tokens[0]
		}
		revisions = append(revisions, rev)
	}
	return revisions
}
