package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/session"
	"github.com/HendryAvila/plantbot/internal/store"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

const owner int64 = 42

type call struct {
	dir  string
	argv []string
}

// fakeRunner records calls and fails the call at index failAt.
type fakeRunner struct {
	calls  []call
	failAt int
	stderr string
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	r.calls = append(r.calls, call{dir: dir, argv: append([]string{name}, args...)})
	if len(r.calls)-1 == r.failAt {
		return r.stderr, errors.New("exit status 1")
	}
	return "", nil
}

func newTestDispatcher(t *testing.T, opts Options) (*Dispatcher, store.Store) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local) }
	t.Cleanup(func() { timeNow = prev })

	dir := t.TempDir()
	fs, err := store.NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, fs.PutPlant(plants.Plant{Name: "Big Basil", Obtained: time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)}))

	if opts.AllowedUsers == nil {
		opts.AllowedUsers = []int64{owner}
	}
	if opts.Env.DateFormat == "" {
		opts.Env = workflows.Env{DateFormat: "DD.MM.YYYY"}
	}
	ctrl := session.New(fs, dir, zap.NewNop())
	return New(ctrl, opts, zap.NewNop()), fs
}

func send(t *testing.T, d *Dispatcher, text string) (Outcome, error) {
	t.Helper()
	return d.HandleMessage(context.Background(), owner, text)
}

// --- Authorization ---

func TestDispatcher_Unauthorized(t *testing.T) {
	d, s := newTestDispatcher(t, Options{})

	out, err := d.HandleMessage(context.Background(), 7, "/water")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, UnauthorizedMessage, out.Reply)

	_, err = d.HandlePhoto(context.Background(), 7, []byte("x"), "Big Basil")
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	assert.Empty(t, p.Images)
}

// --- Commands ---

func TestDispatcher_WaterWithToday(t *testing.T) {
	d, s := newTestDispatcher(t, Options{})

	out, err := send(t, d, "/water")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "/today")

	out, err = send(t, d, "/today")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "plant names")

	out, err = send(t, d, "big basil")
	require.NoError(t, err)
	assert.Equal(t, "Watered Big Basil on 10.05.2024", out.Reply)

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	require.Len(t, p.Activities, 1)
	assert.Equal(t, "Watering", p.Activities[0].Activity)
}

func TestDispatcher_CommandWhileRunning(t *testing.T) {
	d, _ := newTestDispatcher(t, Options{})

	_, err := send(t, d, "/new_growth")
	require.NoError(t, err)

	_, err = send(t, d, "/water")
	var ar *session.ActionAlreadyRunningError
	require.True(t, errors.As(err, &ar))
	assert.Equal(t, "new_growth", ar.Name)
}

func TestDispatcher_BareWordIsTextWhileRunning(t *testing.T) {
	d, _ := newTestDispatcher(t, Options{})

	_, err := send(t, d, "new_activity")
	require.NoError(t, err)
	_, err = send(t, d, "today")
	require.NoError(t, err)

	// "rain" answers the activity step instead of starting a workflow.
	out, err := send(t, d, "rain")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "plant names")
}

func TestDispatcher_TextWhileIdle(t *testing.T) {
	d, _ := newTestDispatcher(t, Options{})

	_, err := send(t, d, "hello there")
	assert.ErrorIs(t, err, session.ErrNoActionRunning)
}

func TestDispatcher_AbortAndHelp(t *testing.T) {
	d, s := newTestDispatcher(t, Options{})

	out, err := send(t, d, "/new_species")
	require.NoError(t, err)
	assert.Contains(t, out.Reply, "common name")

	_, err = send(t, d, "Mint")
	require.NoError(t, err)

	out, err = send(t, d, "/abort")
	require.NoError(t, err)
	assert.Equal(t, "Aborted new_species", out.Reply)

	ok, err := s.SpeciesExists("Mint")
	require.NoError(t, err)
	assert.False(t, ok)

	out, err = send(t, d, "/help")
	require.NoError(t, err)
	assert.Equal(t, Help(), out.Reply)
}

func TestHelp_Order(t *testing.T) {
	help := Help()
	require.True(t, strings.HasPrefix(help, "Possible commands: \n\n"))

	lines := strings.Split(strings.TrimPrefix(help, "Possible commands: \n\n"), "\n")
	require.Len(t, lines, len(Names()))
	for i, name := range Names() {
		assert.True(t, strings.HasPrefix(lines[i], name+" -- "), lines[i])
	}
	assert.Equal(t, []string{
		"help", "water", "fertilize", "rain", "water_location", "new_growth",
		"new_plant", "new_species", "new_activity", "update_species",
		"update_plant", "today", "move_to_graveyard", "abort", "push",
		"check_logs", "exit", "lookup_species", "new_location",
	}, Names())
}

func TestDispatcher_Exit(t *testing.T) {
	d, _ := newTestDispatcher(t, Options{})

	out, err := send(t, d, "/exit")
	require.NoError(t, err)
	assert.True(t, out.Exit)
	assert.Equal(t, "Bye.", out.Reply)
}

func TestDispatcher_RainWithoutOutsidePlants(t *testing.T) {
	d, _ := newTestDispatcher(t, Options{})

	out, err := send(t, d, "/rain")
	require.NoError(t, err)
	assert.Equal(t, "No outside plants to water", out.Reply)

	// The controller is idle again.
	_, err = send(t, d, "/water")
	require.NoError(t, err)
}

// --- Push ---

func TestDispatcher_Push(t *testing.T) {
	r := &fakeRunner{failAt: -1}
	d, _ := newTestDispatcher(t, Options{RepoDir: "/srv/plants", Runner: r})

	out, err := send(t, d, "/push")
	require.NoError(t, err)
	assert.Equal(t, "Pushed autocommit_10052024", out.Reply)

	require.Len(t, r.calls, 3)
	assert.Equal(t, []string{"git", "add", "-A"}, r.calls[0].argv)
	assert.Equal(t, []string{"git", "commit", "-m", "autocommit_10052024"}, r.calls[1].argv)
	assert.Equal(t, []string{"git", "push"}, r.calls[2].argv)
	for _, c := range r.calls {
		assert.Equal(t, "/srv/plants", c.dir)
	}
}

func TestDispatcher_PushFailure(t *testing.T) {
	r := &fakeRunner{failAt: 1, stderr: "nothing to commit\n"}
	d, _ := newTestDispatcher(t, Options{Runner: r})

	_, err := send(t, d, "/push")
	var ce *CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "git commit", ce.Cmd)
	assert.Equal(t, "nothing to commit\n", ce.Message)
	assert.Equal(t, "git commit failed: nothing to commit", err.Error())
	assert.Len(t, r.calls, 2)
}

// --- Logs ---

func TestDispatcher_CheckLogs(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "plantbot.log")
	var lines []string
	for i := 1; i <= 25; i++ {
		lines = append(lines, "line "+string(rune('a'+i-1)))
	}
	require.NoError(t, os.WriteFile(logFile, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	d, _ := newTestDispatcher(t, Options{LogFile: logFile})
	out, err := send(t, d, "/check_logs")
	require.NoError(t, err)

	got := strings.Split(out.Reply, "\n")
	require.Len(t, got, 20)
	assert.Equal(t, lines[5], got[0])
	assert.Equal(t, lines[24], got[19])
}

func TestTailLog_Missing(t *testing.T) {
	out, err := tailLog("", 20)
	require.NoError(t, err)
	assert.Equal(t, "No log file configured", out)

	out, err = tailLog(filepath.Join(t.TempDir(), "nope.log"), 20)
	require.NoError(t, err)
	assert.Equal(t, "Log file is empty", out)
}

// --- Photos ---

func TestDispatcher_Photo(t *testing.T) {
	d, s := newTestDispatcher(t, Options{})

	out, err := d.HandlePhoto(context.Background(), owner, []byte("jpeg"), "Big Basil")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Reply, "Saved photo "))
	assert.True(t, strings.HasSuffix(out.Reply, ".jpg"))

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	assert.Len(t, p.Images, 1)
}
