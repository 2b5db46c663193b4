// Package server wires plantbot's components.
//
// This is the composition root: it resolves configuration into concrete
// implementations and hands them to the transports. No business logic
// lives here, only wiring.
package server

import (
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/commands"
	"github.com/HendryAvila/plantbot/internal/config"
	"github.com/HendryAvila/plantbot/internal/logging"
	"github.com/HendryAvila/plantbot/internal/prompts"
	"github.com/HendryAvila/plantbot/internal/resources"
	"github.com/HendryAvila/plantbot/internal/session"
	"github.com/HendryAvila/plantbot/internal/store"
	"github.com/HendryAvila/plantbot/internal/tools"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App holds the resolved dependencies shared by every transport.
type App struct {
	Config     *config.Config
	Log        *zap.Logger
	Store      store.Store
	Dispatcher *commands.Dispatcher
}

// New builds the logger, store, controller and dispatcher from cfg.
//
// The returned cleanup function closes the store and flushes the logger.
// It is always non-nil and safe to call even when New fails.
func New(cfg *config.Config) (*App, func(), error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, noop, err
	}

	st, err := OpenStore(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, noop, err
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
		_ = logger.Sync()
	}

	ctrl := session.New(st, cfg.DataDir, logger.Named("session"))
	d := commands.New(ctrl, commands.Options{
		AllowedUsers: cfg.AllowedUsers,
		Env:          workflows.Env{DateFormat: cfg.DateFormat},
		RepoDir:      cfg.RepoDir,
		LogFile:      cfg.Log.File,
	}, logger.Named("commands"))

	logger.Info("plantbot ready",
		zap.String("version", Version),
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("allowed_users", len(cfg.AllowedUsers)),
	)
	return &App{Config: cfg, Log: logger, Store: st, Dispatcher: d}, cleanup, nil
}

// OpenStore opens the configured persistence backend.
func OpenStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendFiles:
		s, err := store.NewFileStore(cfg.DataDir, logger.Named("filestore"))
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return s, nil
	case config.BackendSQLite:
		path := cfg.Database
		if path == "" {
			path = filepath.Join(cfg.DataDir, "plants.db")
		}
		s, err := store.NewSQLStore(path, logger.Named("sqlstore"))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// NewMCP creates the MCP server with every tool, prompt and resource
// registered. onExit is called when a user sends /exit.
func NewMCP(app *App, onExit func()) *server.MCPServer {
	s := server.NewMCPServer(
		"plantbot",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Tools ---

	messageTool := tools.NewMessageTool(app.Dispatcher, app.Log.Named("tools"), onExit)
	s.AddTool(messageTool.Definition(), messageTool.Handle)

	photoTool := tools.NewPhotoTool(app.Dispatcher)
	s.AddTool(photoTool.Definition(), photoTool.Handle)

	helpTool := tools.NewHelpTool()
	s.AddTool(helpTool.Definition(), helpTool.Handle)

	// --- Prompts ---

	journalPrompt := prompts.NewJournalPrompt(app.Config.LocalUser)
	s.AddPrompt(journalPrompt.Definition(), journalPrompt.Handle)

	// --- Resources ---

	rh := resources.NewHandler(app.Store)
	s.AddResource(rh.PlantsResource(), rh.HandlePlants)
	s.AddResource(rh.LocationsResource(), rh.HandleLocations)
	s.AddResource(rh.GraveyardResource(), rh.HandleGraveyard)

	return s
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

func serverInstructions() string {
	return `plantbot keeps a plant care journal: plants, species, locations, watering and
other activities, growth measurements, photos and a graveyard.

Talk to it with plant_message. Every message is either a command (/help lists them)
or the answer to the question the running command asked. Replies are meant for the
user; show them unchanged. Errors repeat the question, so relay the user's next
answer as-is. /abort cancels the running command.

Use plant_photo to attach a JPEG to a plant; the caption is the plant name.
The plants://plants, plants://locations and plants://graveyard resources give
read-only JSON views of the journal.`
}
