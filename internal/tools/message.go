package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// MessageTool handles the plant_message MCP tool.
type MessageTool struct {
	d      Dispatcher
	log    *zap.Logger
	onExit func()
}

// NewMessageTool creates a MessageTool. onExit runs after an /exit reply
// has been produced; it may be nil.
func NewMessageTool(d Dispatcher, logger *zap.Logger, onExit func()) *MessageTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageTool{d: d, log: logger, onExit: onExit}
}

// Definition returns the MCP tool definition for registration.
func (t *MessageTool) Definition() mcp.Tool {
	return mcp.NewTool("plant_message",
		mcp.WithDescription(
			"Send one chat message to the plant journal. "+
				"A message is either a command such as /water, /new_plant or /help, "+
				"or the answer to the question asked by the running command. "+
				"The reply is the next question or the result.",
		),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("Numeric id of the sending user; must be on the allow-list"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The message text"),
		),
	)
}

// Handle processes the plant_message tool call.
func (t *MessageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := userID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	out, err := t.d.HandleMessage(ctx, id, text)
	if err == nil && out.Exit && t.onExit != nil {
		t.log.Info("exit requested over mcp", zap.Int64("user_id", id))
		t.onExit()
	}
	return toResult(out, err), nil
}
