package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

var env = workflows.Env{DateFormat: "DD.MM.YYYY"}

// flakyStore fails AppendActivities while failing is set.
type flakyStore struct {
	store.Store
	failing bool
}

func (f *flakyStore) AppendActivities(a []plants.Activity) error {
	if f.failing {
		return &plants.IOError{Detail: "disk unplugged"}
	}
	return f.Store.AppendActivities(a)
}

func newTestController(t *testing.T) (*Controller, *flakyStore, string) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { timeNow = prev })

	dir := t.TempDir()
	fs, err := store.NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, fs.PutPlant(plants.Plant{Name: "Big Basil", Obtained: time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)}))

	flaky := &flakyStore{Store: fs}
	return New(flaky, dir, zap.NewNop()), flaky, dir
}

// --- Workflow routing ---

func TestController_StartTextCommit(t *testing.T) {
	c, s, _ := newTestController(t)

	prompt, err := c.Start(workflows.NewWaterPlants(env))
	require.NoError(t, err)
	assert.Contains(t, prompt, "date")
	assert.Equal(t, "water", c.Active())

	prompt, err = c.ReceiveText("10.05.2024")
	require.NoError(t, err)
	assert.Contains(t, prompt, "plant names")

	msg, err := c.ReceiveText("big basil")
	require.NoError(t, err)
	assert.Contains(t, msg, "Big Basil")
	assert.True(t, c.Idle())

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	assert.Len(t, p.Activities, 1)
}

func TestController_StartWhileRunning(t *testing.T) {
	c, _, _ := newTestController(t)

	_, err := c.Start(workflows.NewWaterPlants(env))
	require.NoError(t, err)

	_, err = c.Start(workflows.NewNewGrowth(env))
	var ar *ActionAlreadyRunningError
	require.True(t, errors.As(err, &ar))
	assert.Equal(t, "water", ar.Name)
	assert.Equal(t, "water", c.Active())
}

func TestController_TextWhileIdle(t *testing.T) {
	c, _, _ := newTestController(t)

	_, err := c.ReceiveText("hello")
	assert.ErrorIs(t, err, ErrNoActionRunning)
}

func TestController_InputErrorRepeatsPrompt(t *testing.T) {
	c, _, _ := newTestController(t)

	first, err := c.Start(workflows.NewNewGrowth(env))
	require.NoError(t, err)

	_, err = c.ReceiveText("Cactus")
	var re *RetryError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, first, re.Prompt)
	assert.Contains(t, err.Error(), first)

	var nf *plants.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestController_CommitFailureRetries(t *testing.T) {
	c, s, _ := newTestController(t)
	s.failing = true

	_, err := c.Start(workflows.NewWaterPlants(env))
	require.NoError(t, err)
	_, err = c.ReceiveText("10.05.2024")
	require.NoError(t, err)

	_, err = c.ReceiveText("Big Basil")
	var ce *CommitError
	require.True(t, errors.As(err, &ce))
	assert.False(t, c.Idle())

	_, err = c.Prompt()
	var ad *ActionAlreadyDoneError
	assert.True(t, errors.As(err, &ad))

	s.failing = false
	msg, err := c.ReceiveText("anything")
	require.NoError(t, err)
	assert.Contains(t, msg, "Watered")
	assert.True(t, c.Idle())
}

func TestController_NoStepWorkflowCommitsOnStart(t *testing.T) {
	c, _, _ := newTestController(t)

	msg, err := c.Start(workflows.NewRain(env))
	require.NoError(t, err)
	assert.Equal(t, "No outside plants to water", msg)
	assert.True(t, c.Idle())
}

func TestController_Abort(t *testing.T) {
	c, s, _ := newTestController(t)
	assert.Equal(t, "Nothing to abort", c.Abort())

	_, err := c.Start(workflows.NewNewSpecies(env))
	require.NoError(t, err)
	_, err = c.ReceiveText("Mint")
	require.NoError(t, err)

	assert.Equal(t, "Aborted new_species", c.Abort())
	assert.True(t, c.Idle())

	ok, err := s.SpeciesExists("Mint")
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh start begins at the first step.
	prompt, err := c.Start(workflows.NewNewSpecies(env))
	require.NoError(t, err)
	assert.Contains(t, prompt, "common name")
}

// --- Photos ---

func TestController_ReceivePhoto(t *testing.T) {
	c, s, dir := newTestController(t)

	path, err := c.ReceivePhoto([]byte("jpeg bytes"), " Big Basil ")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Plants", "BigBasil", "10052024.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "10052024.jpg", p.Images[0].FileName)
}

func TestController_ReceivePhotoErrors(t *testing.T) {
	c, _, dir := newTestController(t)

	_, err := c.ReceivePhoto([]byte("x"), "  ")
	var mi *plants.MissingInputError
	require.True(t, errors.As(err, &mi))
	assert.Equal(t, "Plant Name", mi.Step)

	_, err = c.ReceivePhoto([]byte("x"), "Cactus")
	var nf *plants.NotFoundError
	require.True(t, errors.As(err, &nf))

	_, err = os.Stat(filepath.Join(dir, "Plants", "Cactus"))
	assert.True(t, os.IsNotExist(err))
}

func TestController_PhotoLeavesWorkflowAlone(t *testing.T) {
	c, _, _ := newTestController(t)

	_, err := c.Start(workflows.NewNewGrowth(env))
	require.NoError(t, err)
	_, err = c.ReceivePhoto([]byte("x"), "Big Basil")
	require.NoError(t, err)

	assert.Equal(t, "new_growth", c.Active())
	prompt, err := c.Prompt()
	require.NoError(t, err)
	assert.Equal(t, "Please enter plant name", prompt)
}
