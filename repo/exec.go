package repo

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/repomgr/repomgr/msg"
)

// Runner executes the external VCS commands a backend needs. The default
// implementation shells out; tests substitute fakes that return canned
// output.
type Runner interface {
	// Run executes a complete shell command line in dir (or the current
	// directory when dir is empty). Output is only reported on failure.
	Run(dir, command string) error

	// Output executes a program with arguments in dir and returns the
	// captured standard output.
	Output(dir string, args ...string) (string, error)
}

// CommandError describes an external command that exited non-zero. The
// combined output is carried along so callers can show users what the tool
// reported.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	s := fmt.Sprintf("external command failed: %s: %s", e.Command, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		s += "\n" + out
	}
	return s
}

func (e *CommandError) Unwrap() error { return e.Err }

// execRunner is the Runner used outside of tests.
type execRunner struct{}

func (execRunner) Run(dir, command string) error {
	msg.Debug("Running command: %s", command)
	c := exec.Command("sh", "-c", command)
	c.Dir = dir
	out, err := c.CombinedOutput()
	if err != nil {
		return &CommandError{Command: command, Output: string(out), Err: err}
	}
	return nil
}

func (execRunner) Output(dir string, args ...string) (string, error) {
	msg.Debug("Running command: %s", strings.Join(args, " "))
	c := exec.Command(args[0], args[1:]...)
	c.Dir = dir
	var stderr bytes.Buffer
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		return "", &CommandError{
			Command: strings.Join(args, " "),
			Output:  stderr.String(),
			Err:     err,
		}
	}
	return string(out), nil
}
