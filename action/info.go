package action

import (
	"gopkg.in/yaml.v2"

	"github.com/repomgr/repomgr/msg"
)

// repoInfo is the YAML shape printed by Info.
type repoInfo struct {
	Type          string   `yaml:"type"`
	Local         string   `yaml:"local"`
	Remote        string   `yaml:"remote,omitempty"`
	Exists        bool     `yaml:"exists"`
	LastUpdated   int64    `yaml:"last-updated,omitempty"`
	ReleaseScheme string   `yaml:"release-scheme"`
	Branches      []string `yaml:"branches"`
	Tags          []string `yaml:"tags"`
	Releases      []string `yaml:"releases"`
}

// Info prints a YAML summary of a repository: locations, scheme and the
// names of its branches, tags and releases.
func Info(name string) {
	r := mustCoerce(name)
	info := repoInfo{
		Type:          r.Backend().Name(),
		Local:         r.Local,
		Remote:        r.Remote,
		Exists:        r.Exists(),
		LastUpdated:   r.LastUpdated(),
		ReleaseScheme: r.ReleaseScheme,
	}
	branches, err := r.OrderedBranches()
	if err != nil {
		msg.Die("Failed to list branches of %s: %s", r, err)
	}
	for _, rev := range branches {
		info.Branches = append(info.Branches, rev.Branch)
	}
	tags, err := r.OrderedTags()
	if err != nil {
		msg.Die("Failed to list tags of %s: %s", r, err)
	}
	for _, rev := range tags {
		info.Tags = append(info.Tags, rev.Tag)
	}
	releases, err := r.OrderedReleases()
	if err != nil {
		msg.Die("Failed to list releases of %s: %s", r, err)
	}
	for _, release := range releases {
		info.Releases = append(info.Releases, release.Identifier)
	}
	out, err := yaml.Marshal(&info)
	if err != nil {
		msg.Die("Failed to render summary of %s: %s", r, err)
	}
	msg.Print(string(out))
}
