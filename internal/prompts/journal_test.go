package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalPrompt_Defaults(t *testing.T) {
	res, err := NewJournalPrompt(42).Handle(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "user_id=42 and text='/help'")
	assert.Equal(t, "Plant journal, starting with /help", res.Description)
}

func TestJournalPrompt_Arguments(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"user_id": "7", "command": "water"}

	res, err := NewJournalPrompt(42).Handle(context.Background(), req)
	require.NoError(t, err)

	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "user_id=7 and text='/water'")
}
