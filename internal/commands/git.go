package commands

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner runs an external program in dir and returns its stderr.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stderr string, err error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// CommandError is a failed external command.
type CommandError struct {
	Cmd     string
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s failed: %s", e.Cmd, msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// push stages, commits and pushes everything in the repo directory.
func (d *Dispatcher) push(ctx context.Context) (string, error) {
	message := "autocommit_" + timeNow().Format("02012006")
	steps := [][]string{
		{"git", "add", "-A"},
		{"git", "commit", "-m", message},
		{"git", "push"},
	}
	for _, argv := range steps {
		stderr, err := d.runner.Run(ctx, d.repoDir, argv[0], argv[1:]...)
		if err != nil {
			d.log.Warn("push step failed",
				zap.Strings("argv", argv),
				zap.String("stderr", stderr),
				zap.Error(err),
			)
			return "", &CommandError{Cmd: strings.Join(argv[:2], " "), Message: stderr, Err: err}
		}
	}
	d.log.Info("data pushed", zap.String("commit", message), zap.String("repo_dir", d.repoDir))
	return "Pushed " + message, nil
}
