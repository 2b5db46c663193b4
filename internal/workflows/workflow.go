// Package workflows implements the multi-step data-entry dialogues.
//
// Each workflow is an ordered list of steps with a cursor. Handle feeds one
// line of input to the current step; the step either stores its typed value
// and the cursor advances, or it returns an error and nothing changes. Once
// the cursor passes the last step the workflow is done and Commit writes the
// collected record through the store.
//
// Workflows never log and never hold the store between calls.
package workflows

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// ErrDone is returned by Prompt and Handle once every step has a value.
var ErrDone = errors.New("workflow has no further steps")

// Workflow is a single dialogue.
type Workflow interface {
	// Name is the command that started the workflow.
	Name() string
	// Handle feeds one line of input to the current step.
	Handle(input string, s store.Store) error
	// Done reports whether the cursor is past the last step.
	Done() bool
	// Prompt returns the question for the current step.
	Prompt() (string, error)
	// Commit persists the collected record and returns a confirmation.
	Commit(s store.Store) (string, error)
}

// Env carries the settings that shape parsing and prompts.
type Env struct {
	// DateFormat is the human date format, e.g. "DD.MM.YYYY".
	DateFormat string
}

func (e Env) layout() string {
	return parse.Layout(e.format())
}

func (e Env) format() string {
	if e.DateFormat == "" {
		return parse.DefaultDateFormat
	}
	return e.DateFormat
}

// FormatDate renders t in the configured date format.
func (e Env) FormatDate(t time.Time) string {
	return t.Format(e.layout())
}

func (e Env) datePrompt(what string) string {
	return fmt.Sprintf("Please enter %s (%s) or use /today", what, e.format())
}

// today returns the current local date at midnight.
func today() time.Time {
	return plants.Day(timeNow())
}

// --- Step cursor ---

type step struct {
	name   string
	prompt string
	handle func(input string, s store.Store) error
}

// steps is the cursor shared by every workflow.
type steps struct {
	name   string
	list   []step
	cursor int
}

func (st *steps) Name() string { return st.name }

func (st *steps) Done() bool { return st.cursor >= len(st.list) }

func (st *steps) Prompt() (string, error) {
	if st.Done() {
		return "", ErrDone
	}
	return st.list[st.cursor].prompt, nil
}

// Handle runs the current step. The cursor only moves when the step succeeds.
func (st *steps) Handle(input string, s store.Store) error {
	if st.Done() {
		return ErrDone
	}
	if err := st.list[st.cursor].handle(strings.TrimSpace(input), s); err != nil {
		return err
	}
	st.cursor++
	return nil
}

// ready fails with MissingInputError naming the first step without a value.
func (st *steps) ready() error {
	if !st.Done() {
		return &plants.MissingInputError{Step: st.list[st.cursor].name}
	}
	return nil
}

// need fails with MissingInputError when a collected field is unset.
func need(set bool, step string) error {
	if !set {
		return &plants.MissingInputError{Step: step}
	}
	return nil
}

func formatCm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func activitiesFor(names []string, date time.Time, activity string, note *string) []plants.Activity {
	out := make([]plants.Activity, len(names))
	for i, name := range names {
		out[i] = plants.Activity{Plant: name, Date: date, Activity: activity, Note: note}
	}
	return out
}

var (
	_ Workflow = (*PlantsActivity)(nil)
	_ Workflow = (*WaterLocation)(nil)
	_ Workflow = (*Rain)(nil)
	_ Workflow = (*NewActivity)(nil)
	_ Workflow = (*NewGrowth)(nil)
	_ Workflow = (*NewPlant)(nil)
	_ Workflow = (*UpdatePlant)(nil)
	_ Workflow = (*NewSpecies)(nil)
	_ Workflow = (*UpdateSpecies)(nil)
	_ Workflow = (*LookupSpecies)(nil)
	_ Workflow = (*MoveToGraveyard)(nil)
	_ Workflow = (*NewLocation)(nil)
)
