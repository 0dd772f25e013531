package action

import (
	"github.com/repomgr/repomgr/msg"
	"github.com/repomgr/repomgr/repo"
)

// The shared registry used by every action. Commands within one process that
// name the same repository get the same instance.
var registry = repo.NewRegistry()

// SetConfigFiles overrides which configuration files the actions consult.
func SetConfigFiles(files []string) {
	registry.ConfigFiles = files
}

// mustCoerce resolves a repository name, type prefixed location or remote
// URL, aborting the program when the string resolves to nothing.
func mustCoerce(value string) *repo.Repository {
	if value == "" {
		msg.Die("No repository given (expected a configured name or a remote location)")
	}
	r, err := registry.Coerce(value)
	if err != nil {
		msg.Die("Failed to resolve repository: %s", err)
	}
	return r
}
