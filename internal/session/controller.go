// Package session holds the single active workflow and routes input to it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Controller owns the current workflow. It is not safe for concurrent use;
// callers serialize access.
type Controller struct {
	store   store.Store
	dataDir string
	log     *zap.Logger

	active workflows.Workflow
	runID  string
}

// New creates an idle controller. Photos are written under
// <dataDir>/Plants/<plant>/.
func New(s store.Store, dataDir string, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: s, dataDir: dataDir, log: logger}
}

// Idle reports whether no workflow is active.
func (c *Controller) Idle() bool { return c.active == nil }

// Active returns the name of the active workflow, or "".
func (c *Controller) Active() string {
	if c.active == nil {
		return ""
	}
	return c.active.Name()
}

// Start installs w and returns its first prompt. A workflow without steps
// is committed right away.
func (c *Controller) Start(w workflows.Workflow) (string, error) {
	if c.active != nil {
		return "", &ActionAlreadyRunningError{Name: c.active.Name()}
	}
	c.active = w
	c.runID = uuid.New().String()
	c.log.Info("workflow started", zap.String("workflow", w.Name()), zap.String("run_id", c.runID))

	if w.Done() {
		return c.commit()
	}
	return w.Prompt()
}

// ReceiveText feeds one line to the active workflow.
//
// If the workflow is already done (a previous commit failed), the line only
// triggers another commit attempt. Input errors come back as *RetryError
// with the unchanged prompt.
func (c *Controller) ReceiveText(line string) (string, error) {
	if c.active == nil {
		return "", ErrNoActionRunning
	}
	if c.active.Done() {
		return c.commit()
	}

	if err := c.active.Handle(line, c.store); err != nil {
		prompt, perr := c.active.Prompt()
		if perr != nil {
			return "", err
		}
		return "", &RetryError{Err: err, Prompt: prompt}
	}
	if c.active.Done() {
		return c.commit()
	}
	return c.active.Prompt()
}

// Prompt returns the question of the active workflow.
func (c *Controller) Prompt() (string, error) {
	if c.active == nil {
		return "", ErrNoActionRunning
	}
	prompt, err := c.active.Prompt()
	if errors.Is(err, workflows.ErrDone) {
		return "", &ActionAlreadyDoneError{Name: c.active.Name()}
	}
	return prompt, err
}

func (c *Controller) commit() (string, error) {
	w := c.active
	msg, err := w.Commit(c.store)
	if err != nil {
		c.log.Warn("workflow commit failed",
			zap.String("workflow", w.Name()),
			zap.String("run_id", c.runID),
			zap.Error(err),
		)
		return "", &CommitError{Name: w.Name(), Err: err}
	}
	c.log.Info("workflow committed", zap.String("workflow", w.Name()), zap.String("run_id", c.runID))
	c.reset()
	return msg, nil
}

// Abort drops the active workflow, whatever its state.
func (c *Controller) Abort() string {
	if c.active == nil {
		return "Nothing to abort"
	}
	name := c.active.Name()
	c.log.Info("workflow aborted", zap.String("workflow", name), zap.String("run_id", c.runID))
	c.reset()
	return fmt.Sprintf("Aborted %s", name)
}

func (c *Controller) reset() {
	c.active = nil
	c.runID = ""
}

// ReceivePhoto saves a photo of the plant named by caption as
// <dataDir>/Plants/<name without spaces>/<DDMMYYYY>.jpg and returns the path.
// Workflow state is not touched.
func (c *Controller) ReceivePhoto(data []byte, caption string) (string, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", &plants.MissingInputError{Step: "Plant Name"}
	}
	name, err := c.store.ResolvePlantName(caption)
	if err != nil {
		return "", err
	}

	day := plants.Day(timeNow())
	dir := store.PlantDir(c.dataDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &plants.IOError{Detail: "creating " + dir, Err: err}
	}
	file := plants.ImageFileName(day)
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &plants.IOError{Detail: "writing " + path, Err: err}
	}
	if err := c.store.AddImage(name, plants.Image{Date: day, FileName: file}); err != nil {
		return "", err
	}

	c.log.Info("photo saved", zap.String("plant", name), zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}
