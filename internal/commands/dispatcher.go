// Package commands turns chat messages into controller calls.
//
// A line whose only word is a command token (optionally prefixed with "/")
// is a command. While a workflow is running, bare words are passed through
// as text unless they are "abort" or "today"; slashed commands are always
// treated as commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/session"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

// UnauthorizedMessage is the reply sent to users outside the allow-list.
const UnauthorizedMessage = "You are not allowed to use this bot."

// ErrUnauthorized is returned for messages from users outside the allow-list.
var ErrUnauthorized = errors.New("unauthorized user")

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Outcome is the reply to one message.
type Outcome struct {
	Reply string
	// Exit asks the transport to shut down after sending Reply.
	Exit bool
}

// Options configures a Dispatcher.
type Options struct {
	AllowedUsers []int64
	Env          workflows.Env
	// RepoDir is the git working tree that /push commits.
	RepoDir string
	// LogFile is tailed by /check_logs. Empty means logging goes to stderr only.
	LogFile string
	// Runner executes git. Nil uses os/exec.
	Runner Runner
}

// Dispatcher serializes all messages onto one session.Controller.
type Dispatcher struct {
	mu      sync.Mutex
	ctrl    *session.Controller
	env     workflows.Env
	allowed map[int64]struct{}
	repoDir string
	logFile string
	runner  Runner
	log     *zap.Logger
}

// New creates a dispatcher around ctrl.
func New(ctrl *session.Controller, opts Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[int64]struct{}, len(opts.AllowedUsers))
	for _, id := range opts.AllowedUsers {
		allowed[id] = struct{}{}
	}
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	repoDir := opts.RepoDir
	if repoDir == "" {
		repoDir = "."
	}
	return &Dispatcher{
		ctrl:    ctrl,
		env:     opts.Env,
		allowed: allowed,
		repoDir: repoDir,
		logFile: opts.LogFile,
		runner:  runner,
		log:     logger,
	}
}

// Authorized reports whether userID is on the allow-list.
func (d *Dispatcher) Authorized(userID int64) bool {
	_, ok := d.allowed[userID]
	return ok
}

// HandleMessage processes one text message from userID.
//
// Errors are meant to be shown to the user as they are; the returned
// Outcome is only meaningful when err is nil, except for ErrUnauthorized
// where Reply carries UnauthorizedMessage.
func (d *Dispatcher) HandleMessage(ctx context.Context, userID int64, text string) (Outcome, error) {
	if !d.Authorized(userID) {
		d.log.Warn("message from unauthorized user", zap.Int64("user_id", userID))
		return Outcome{Reply: UnauthorizedMessage}, ErrUnauthorized
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if cmd, ok := d.parseCommand(text); ok {
		d.log.Debug("command received", zap.Int64("user_id", userID), zap.String("command", cmd.name))
		return d.run(ctx, cmd)
	}
	reply, err := d.ctrl.ReceiveText(text)
	return Outcome{Reply: reply}, err
}

// HandlePhoto saves a photo for the plant named by caption.
func (d *Dispatcher) HandlePhoto(_ context.Context, userID int64, data []byte, caption string) (Outcome, error) {
	if !d.Authorized(userID) {
		d.log.Warn("photo from unauthorized user", zap.Int64("user_id", userID))
		return Outcome{Reply: UnauthorizedMessage}, ErrUnauthorized
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path, err := d.ctrl.ReceivePhoto(data, caption)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Reply: "Saved photo " + path}, nil
}

// Help lists every command as "<cmd> -- <description>".
func Help() string {
	var b strings.Builder
	b.WriteString("Possible commands: \n\n")
	for i, c := range commandList {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s -- %s", c.name, c.desc)
	}
	return b.String()
}

func (d *Dispatcher) parseCommand(text string) (command, bool) {
	token := strings.TrimSpace(text)
	if token == "" || strings.ContainsAny(token, " \t\n") {
		return command{}, false
	}
	slashed := strings.HasPrefix(token, "/")
	token = strings.ToLower(strings.TrimPrefix(token, "/"))

	cmd, ok := commandIndex[token]
	if !ok {
		return command{}, false
	}
	if !slashed && !d.ctrl.Idle() && cmd.name != CmdAbort && cmd.name != CmdToday {
		return command{}, false
	}
	return cmd, true
}

func (d *Dispatcher) run(ctx context.Context, cmd command) (Outcome, error) {
	switch cmd.name {
	case CmdHelp:
		return Outcome{Reply: Help()}, nil
	case CmdAbort:
		return Outcome{Reply: d.ctrl.Abort()}, nil
	case CmdToday:
		reply, err := d.ctrl.ReceiveText(d.env.FormatDate(timeNow()))
		return Outcome{Reply: reply}, err
	case CmdPush:
		reply, err := d.push(ctx)
		return Outcome{Reply: reply}, err
	case CmdCheckLogs:
		reply, err := tailLog(d.logFile, logTailLines)
		return Outcome{Reply: reply}, err
	case CmdExit:
		d.log.Info("exit requested")
		return Outcome{Reply: "Bye.", Exit: true}, nil
	}

	if cmd.start == nil {
		return Outcome{}, fmt.Errorf("command %s has no action", cmd.name)
	}
	reply, err := d.ctrl.Start(cmd.start(d.env))
	return Outcome{Reply: reply}, err
}
