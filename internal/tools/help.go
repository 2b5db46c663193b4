package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plantbot/internal/commands"
)

// HelpTool handles the plant_help MCP tool.
type HelpTool struct{}

// NewHelpTool creates a HelpTool.
func NewHelpTool() *HelpTool {
	return &HelpTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *HelpTool) Definition() mcp.Tool {
	return mcp.NewTool("plant_help",
		mcp.WithDescription("List the commands understood by plant_message."),
	)
}

// Handle processes the plant_help tool call.
func (t *HelpTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(commands.Help()), nil
}
