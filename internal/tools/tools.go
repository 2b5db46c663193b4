// Package tools exposes the plant chat as MCP tools.
//
// Each tool is a struct holding its dependencies with a Definition for
// registration and a Handle compatible with mcp-go's CallToolRequest
// signature. One file per tool.
package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plantbot/internal/commands"
)

// Dispatcher is the part of commands.Dispatcher the tools need.
type Dispatcher interface {
	HandleMessage(ctx context.Context, userID int64, text string) (commands.Outcome, error)
	HandlePhoto(ctx context.Context, userID int64, data []byte, caption string) (commands.Outcome, error)
}

// toResult turns a dispatcher outcome into a tool result. Errors are chat
// replies, so they never become protocol errors.
func toResult(out commands.Outcome, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, commands.ErrUnauthorized):
		return mcp.NewToolResultError(commands.UnauthorizedMessage)
	case err != nil:
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultText(out.Reply)
	}
}

// userID reads the required user_id argument. Zero is a valid id.
func userID(req mcp.CallToolRequest) (int64, bool) {
	id, err := req.RequireInt("user_id")
	if err != nil {
		return 0, false
	}
	return int64(id), true
}
