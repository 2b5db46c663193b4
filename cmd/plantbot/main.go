// plantbot: a chat-driven plant care journal.
//
// Usage:
//
//	plantbot serve [config.yaml]   # Start the MCP server (stdio transport)
//	plantbot chat  [config.yaml]   # Chat in the terminal
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/config"
	plantserver "github.com/HendryAvila/plantbot/internal/server"
	"github.com/HendryAvila/plantbot/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	configPath := ""
	if len(os.Args) > 2 {
		configPath = os.Args[2]
	}

	switch os.Args[1] {
	case "serve":
		if err := serve(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "chat":
		if err := chat(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("plantbot v%s\n", plantserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	app, cleanup, err := plantserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	// /exit cancels the listener once the reply has gone out.
	onExit := func() {
		time.AfterFunc(200*time.Millisecond, cancel)
	}
	s := plantserver.NewMCP(app, onExit)

	app.Log.Info("serving mcp on stdio")
	err = server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.Log.Info("server stopped", zap.NamedError("reason", context.Cause(ctx)))
	return nil
}

func chat(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// The terminal owns stderr while the chat runs.
	if cfg.Log.File == "" {
		cfg.Log.Level = "error"
	}
	app, cleanup, err := plantserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}
	defer cleanup()

	user := cfg.LocalUser
	if user == 0 {
		user = cfg.AllowedUsers[0]
	}

	ctx, cancel := signalContext()
	defer cancel()

	return tui.Run(ctx, app.Dispatcher, user)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `plantbot v%s, a chat-driven plant care journal

Usage:
  plantbot serve [config]   Start the MCP server (stdio transport)
  plantbot chat  [config]   Chat in the terminal
  plantbot version          Print the version

The config file defaults to plantbot.yaml; PLANTBOT_* environment
variables and a .env file override it.

MCP config:

  {
    "mcpServers": {
      "plantbot": {
        "command": "plantbot",
        "args": ["serve"]
      }
    }
  }
`, plantserver.Version)
}
