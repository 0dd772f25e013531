// Package path contains path and environment utilities for repomgr.
//
// This includes expansion of configured pathnames and the selection of
// stable cache locations for local clones of remote repositories.
package path

import (
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// CacheRoot is the preferred parent directory for local clones that were not
// given an explicit location. When it is not writable the system temporary
// directory is used instead.
var CacheRoot = "/var/cache/repomgr"

// Expand expands a leading tilde and any environment variables in a
// configured pathname.
func Expand(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home := homeDir()
		if home != "" {
			p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}

// CacheDir maps a remote repository location to a deterministic local
// directory. The same remote always maps to the same directory so repeated
// runs reuse one clone.
func CacheDir(remote string) string {
	root := CacheRoot
	if !writable(filepath.Dir(CacheRoot)) {
		root = filepath.Join(os.TempDir(), "repomgr")
	}
	return filepath.Join(root, url.QueryEscape(remote))
}

// writable reports whether new entries can be created below dir.
func writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.CreateTemp(dir, ".repomgr-probe")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return ""
}
