package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/repomgr/repomgr/msg"
)

var isStarted bool

// SystemLock starts a system rather than application lock. This way multiple
// repomgr instances don't cause race conditions when cloning or updating in
// the shared cache directories.
func SystemLock() error {
	if isStarted {
		return nil
	}
	if err := waitOnLock(); err != nil {
		return err
	}
	err := startLock()
	isStarted = true
	return err
}

// SystemUnlock removes the system wide cache lock.
func SystemUnlock() {
	if !isStarted {
		return
	}
	lockdone <- struct{}{}
	os.Remove(lockFileName)
	isStarted = false
}

var lockdone = make(chan struct{}, 1)

type lockdata struct {
	Comment string `json:"comment"`
	Pid     int    `json:"pid"`
	Time    string `json:"time"`
}

var lockFileName = filepath.Join(os.TempDir(), "repomgr-lock.json")

func writeLock() error {
	ld := &lockdata{
		Comment: "File managed by repomgr",
		Pid:     os.Getpid(),
		Time:    time.Now().Format(time.RFC3339Nano),
	}
	out, err := json.Marshal(ld)
	if err != nil {
		return err
	}
	return os.WriteFile(lockFileName, out, 0644)
}

func startLock() error {
	if err := writeLock(); err != nil {
		return err
	}

	// Keep refreshing the lock file so a stale one left behind by a killed
	// process only blocks others briefly.
	go func() {
		for {
			select {
			case <-lockdone:
				return
			default:
				time.Sleep(10 * time.Second)
				if err := writeLock(); err != nil {
					msg.Warn("Error refreshing cache lock: %s", err)
					return
				}
			}
		}
	}()

	return nil
}

func waitOnLock() error {
	var announced bool
	for {
		fi, err := os.Stat(lockFileName)
		if err != nil && os.IsNotExist(err) {
			return nil
		} else if err != nil {
			return err
		}

		if time.Since(fi.ModTime()).Seconds() > 15 {
			return nil
		}

		if !announced {
			announced = true
			msg.Info("Waiting on another repomgr process using the cache")
		}

		time.Sleep(time.Second)
	}
}
