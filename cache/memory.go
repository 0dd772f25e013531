// Package cache provides an in memory cache of release information gathered
// while a repomgr process runs.
package cache

import (
	"sync"

	"github.com/Masterminds/semver"

	"github.com/repomgr/repomgr/msg"
)

var defaultMemCache = newMemCache()

// MemPut records a release identifier seen for a repository. Identifiers
// that don't parse as semantic versions are remembered but never reported as
// the latest release.
func MemPut(name, version string) {
	defaultMemCache.put(name, version)
}

// MemTouched returns true if releases were recorded for a repository.
func MemTouched(name string) bool {
	return defaultMemCache.touched(name)
}

// MemLatest returns the latest, that is most recent, semver release recorded
// for a repository. This may be a blank string if nothing semver-parsable
// was put.
func MemLatest(name string) string {
	return defaultMemCache.getLatest(name)
}

// MemVersions returns every identifier recorded for a repository, in
// insertion order.
func MemVersions(name string) []string {
	return defaultMemCache.versions(name)
}

type memCache struct {
	sync.RWMutex
	latest map[string]string
	t      map[string]bool
	seen   map[string][]string
}

func newMemCache() *memCache {
	return &memCache{
		latest: make(map[string]string),
		t:      make(map[string]bool),
		seen:   make(map[string][]string),
	}
}

func (m *memCache) put(name, version string) {
	m.Lock()
	defer m.Unlock()
	m.t[name] = true

	found := false
	for _, v := range m.seen[name] {
		if v == version {
			found = true
		}
	}
	if !found {
		m.seen[name] = append(m.seen[name], version)
	}

	sv, err := semver.NewVersion(version)
	if err != nil {
		msg.Debug("Ignoring %s release %s: %s", name, version, err)
		return
	}
	latest, ok := m.latest[name]
	if ok {
		lv, err := semver.NewVersion(latest)
		if err == nil && !sv.GreaterThan(lv) {
			return
		}
	}
	m.latest[name] = version
}

func (m *memCache) touched(name string) bool {
	m.RLock()
	defer m.RUnlock()
	return m.t[name]
}

func (m *memCache) getLatest(name string) string {
	m.RLock()
	defer m.RUnlock()
	return m.latest[name]
}

func (m *memCache) versions(name string) []string {
	m.RLock()
	defer m.RUnlock()
	return append([]string(nil), m.seen[name]...)
}
