package session

import (
	"errors"
	"fmt"
)

// ErrNoActionRunning is returned for text input while idle.
var ErrNoActionRunning = errors.New("no action running, see /help for commands")

// ActionAlreadyRunningError rejects a new command while a workflow is active.
type ActionAlreadyRunningError struct {
	Name string
}

func (e *ActionAlreadyRunningError) Error() string {
	return fmt.Sprintf("action %s is already running, finish it or /abort", e.Name)
}

// ActionAlreadyDoneError is returned when asking a finished workflow for a prompt.
type ActionAlreadyDoneError struct {
	Name string
}

func (e *ActionAlreadyDoneError) Error() string {
	return fmt.Sprintf("action %s is already done", e.Name)
}

// RetryError is an input error together with the prompt to answer again.
type RetryError struct {
	Err    error
	Prompt string
}

func (e *RetryError) Error() string {
	return e.Err.Error() + "\n" + e.Prompt
}

func (e *RetryError) Unwrap() error { return e.Err }

// CommitError is a failed commit. The workflow stays done and the next
// text input retries the commit.
type CommitError struct {
	Name string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("could not save %s: %v\nsend any message to retry or /abort", e.Name, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
