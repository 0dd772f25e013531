package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GitBackend drives Git repositories through the git command line tool.
// Local clones are created bare since only history metadata is needed.
type GitBackend struct{}

func (GitBackend) Name() string            { return "Git" }
func (GitBackend) DefaultRevision() string { return "master" }
func (GitBackend) ControlField() string    { return "Vcs-Git" }

func (GitBackend) CreateCommand() string { return "git clone --bare {remote} {local}" }
func (GitBackend) UpdateCommand() string {
	return "cd {local} && git fetch {remote} +refs/heads/*:refs/heads/*"
}
func (GitBackend) ExportCommand() string {
	return "cd {local} && git archive {revision} | tar --extract --directory={directory}"
}

// MetadataDir returns the .git directory, or the repository directory itself
// for bare clones (which keep their metadata at the top level).
func (GitBackend) MetadataDir(local string) string {
	directory := filepath.Join(local, ".git")
	if info, err := os.Stat(directory); err == nil && info.IsDir() {
		return directory
	}
	return local
}

func (b GitBackend) Exists(local string) bool {
	info, err := os.Stat(filepath.Join(b.MetadataDir(local), "config"))
	return err == nil && info.Mode().IsRegular()
}

// RevisionNumber counts the commits reachable from a revision expression.
func (GitBackend) RevisionNumber(r *Repository, revision string) (int, error) {
	out, err := r.runner.Output(r.Local, "git", "rev-list", revision, "--count")
	if err != nil {
		return 0, err
	}
	result := strings.TrimSpace(out)
	n, err := strconv.Atoi(result)
	if err != nil || result == "" {
		return 0, fmt.Errorf("unexpected output from 'git rev-list --count': %q", out)
	}
	return n, nil
}

// RevisionID resolves a revision expression to the full object id.
func (GitBackend) RevisionID(r *Repository, revision string) (string, error) {
	out, err := r.runner.Output(r.Local, "git", "rev-parse", revision)
	if err != nil {
		return "", err
	}
	result := strings.TrimSpace(out)
	if !hexID.MatchString(result) {
		return "", fmt.Errorf("unexpected output from 'git rev-parse': %q", out)
	}
	return result, nil
}

// Branches parses the verbose branch listing. Each line looks like
//
//	* master 8440f74 Short subject of the last commit
//
// The current branch marker is stripped and the pseudo entry shown for a
// detached HEAD is skipped.
func (GitBackend) Branches(r *Repository) ([]*Revision, error) {
	out, err := r.runner.Output(r.Local, "git", "branch", "--list", "--verbose")
	if err != nil {
		return nil, err
	}
	var revisions []*Revision
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if strings.HasPrefix(line, "(no branch)") || strings.HasPrefix(line, "(HEAD detached") {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}
		revisions = append(revisions, &Revision{
			Repository: r,
			ID:         tokens[1],
			Branch:     tokens[0],
		})
	}
	return revisions, nil
}

// Tags parses "git show-ref --tags" output. Each line looks like
//
//	67308bd628c6235dbc1bad60c9ad1f2d27d576cc refs/tags/v2.4.0
func (GitBackend) Tags(r *Repository) ([]*Revision, error) {
	out, err := r.runner.Output(r.Local, "git", "show-ref", "--tags")
	if err != nil {
		return nil, err
	}
	var revisions []*Revision
	for _, line := range strings.Split(out, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) < 2 || !strings.HasPrefix(tokens[1], "refs/tags/") {
			continue
		}
		revisions = append(revisions, &Revision{
			Repository: r,
			ID:         tokens[0],
			Tag:        strings.TrimPrefix(tokens[1], "refs/tags/"),
		})
	}
	return revisions, nil
}
