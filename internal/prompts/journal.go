// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered (like slash commands) and tell the host
// how to drive the plant_* tools on the user's behalf.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plantbot/internal/commands"
)

// JournalPrompt handles the plant-journal MCP prompt.
type JournalPrompt struct {
	defaultUser int64
}

// NewJournalPrompt creates a JournalPrompt. defaultUser is used when the
// prompt is requested without a user_id.
func NewJournalPrompt(defaultUser int64) *JournalPrompt {
	return &JournalPrompt{defaultUser: defaultUser}
}

// Definition returns the MCP prompt definition for registration.
func (p *JournalPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plant-journal",
		mcp.WithPromptDescription(
			"Log plant care through a chat. Relays every message to plant_message "+
				"and shows the replies verbatim.",
		),
		mcp.WithArgument("user_id",
			mcp.ArgumentDescription("Numeric id to send messages as"),
		),
		mcp.WithArgument("command",
			mcp.ArgumentDescription("Command to start with, e.g. water or new_plant. Default: help"),
		),
	)
}

// Handle processes the plant-journal prompt request.
func (p *JournalPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	user := fmt.Sprintf("%d", p.defaultUser)
	command := commands.CmdHelp
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["user_id"]; ok && v != "" {
			user = v
		}
		if v, ok := args["command"]; ok && v != "" {
			command = v
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Plant journal, starting with /%s", command),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to update my plant journal.\n\n"+
						"Please:\n"+
						"1. Call `plant_message` with user_id=%s and text='/%s'\n"+
						"2. Show me the reply exactly as returned\n"+
						"3. Send each of my answers to `plant_message` unchanged, one call per answer\n"+
						"4. If I attach a photo, call `plant_photo` with the plant name as caption\n"+
						"5. Stop when a reply no longer asks a question",
					user, command,
				)),
			},
		},
	}, nil
}
