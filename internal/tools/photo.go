package tools

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// PhotoTool handles the plant_photo MCP tool.
type PhotoTool struct {
	d Dispatcher
}

// NewPhotoTool creates a PhotoTool.
func NewPhotoTool(d Dispatcher) *PhotoTool {
	return &PhotoTool{d: d}
}

// Definition returns the MCP tool definition for registration.
func (t *PhotoTool) Definition() mcp.Tool {
	return mcp.NewTool("plant_photo",
		mcp.WithDescription(
			"Save a JPEG photo of a plant. The caption names the plant; "+
				"the photo is stored under the plant's folder with today's date. "+
				"A running command is not affected.",
		),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("Numeric id of the sending user; must be on the allow-list"),
		),
		mcp.WithString("caption",
			mcp.Required(),
			mcp.Description("Name of the plant in the photo"),
		),
		mcp.WithString("image_base64",
			mcp.Required(),
			mcp.Description("JPEG bytes, standard base64 encoded"),
		),
	)
}

// Handle processes the plant_photo tool call.
func (t *PhotoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := userID(req)
	if !ok {
		return mcp.NewToolResultError("'user_id' is required"), nil
	}
	encoded := strings.TrimSpace(req.GetString("image_base64", ""))
	if encoded == "" {
		return mcp.NewToolResultError("'image_base64' is required"), nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError("'image_base64' is not valid base64"), nil
	}

	return toResult(t.d.HandlePhoto(ctx, id, data, req.GetString("caption", ""))), nil
}
