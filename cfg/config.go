// Package cfg handles the configuration files that define repositories by
// name.
//
// Definitions live in INI files. A later file overrides an earlier one when
// both define a section with the same name. A repository definition looks
// like:
//
//	[vcs-repo-mgr]
//	type = git
//	local = ~/projects/vcs-repo-mgr
//	remote = git@github.com:xolox/python-vcs-repo-mgr.git
//	release-scheme = tags
//	release-filter = .*
package cfg

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/repomgr/repomgr/msg"
	gpath "github.com/repomgr/repomgr/path"
)

// SystemConfigFile is the machine wide configuration file.
const SystemConfigFile = "/etc/repomgr.ini"

// UserConfigFile is the per user configuration file. A leading tilde is
// expanded when the file is loaded.
const UserConfigFile = "~/.repomgr.ini"

// Entry is one named repository definition from a configuration file.
type Entry struct {
	Name          string
	Type          string
	Local         string
	Remote        string
	ReleaseScheme string
	ReleaseFilter string
}

// ErrNoSuchRepository is returned when a name matches no configured
// repository.
type ErrNoSuchRepository struct {
	Name string
}

func (e ErrNoSuchRepository) Error() string {
	return fmt.Sprintf("no repositories found matching the name %q", e.Name)
}

// ErrAmbiguousName is returned when a name matches more than one configured
// repository after normalization.
type ErrAmbiguousName struct {
	Name    string
	Matches []string
}

func (e ErrAmbiguousName) Error() string {
	return fmt.Sprintf("multiple repositories found matching the name %q (%s)",
		e.Name, strings.Join(e.Matches, ", "))
}

// DefaultFiles returns the configuration files in override order, the user
// file overriding the system file.
func DefaultFiles() []string {
	return []string{SystemConfigFile, gpath.Expand(UserConfigFile)}
}

// Load reads the given configuration files in order and returns all
// repository definitions. Missing files are skipped. When two files define
// the same section the later file wins key by key.
func Load(files ...string) ([]Entry, error) {
	var sources []interface{}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		msg.Debug("Loading configuration file: %s", f)
		sources = append(sources, f)
	}
	if len(sources) == 0 {
		return nil, nil
	}
	first := sources[0]
	f, err := ini.LooseLoad(first, sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var entries []Entry
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		e := Entry{
			Name:          section.Name(),
			Type:          strings.ToLower(section.Key("type").String()),
			Local:         section.Key("local").String(),
			Remote:        section.Key("remote").String(),
			ReleaseScheme: section.Key("release-scheme").String(),
			ReleaseFilter: section.Key("release-filter").String(),
		}
		if e.Local != "" {
			e.Local = gpath.Expand(e.Local)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Find locates the definition matching name among the given files. Matching
// ignores case and punctuation so that minor spelling variations still
// resolve.
func Find(name string, files ...string) (Entry, error) {
	entries, err := Load(files...)
	if err != nil {
		return Entry{}, err
	}
	var matches []Entry
	for _, e := range entries {
		if NormalizeName(name) == NormalizeName(e.Name) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return Entry{}, ErrNoSuchRepository{Name: name}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, e := range matches {
			names[i] = e.Name
		}
		return Entry{}, ErrAmbiguousName{Name: name, Matches: names}
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName lowercases a repository name and strips everything that is
// not a letter or a digit.
func NormalizeName(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}
