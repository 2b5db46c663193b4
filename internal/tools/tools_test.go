package tools

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/commands"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/session"
	"github.com/HendryAvila/plantbot/internal/store"
	"github.com/HendryAvila/plantbot/internal/workflows"
)

// --- Test helpers ---

const owner = 42

func setupDispatcher(t *testing.T) (*commands.Dispatcher, store.Store) {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, fs.PutPlant(plants.Plant{Name: "Big Basil", Obtained: time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local)}))

	ctrl := session.New(fs, dir, zap.NewNop())
	d := commands.New(ctrl, commands.Options{
		AllowedUsers: []int64{owner},
		Env:          workflows.Env{DateFormat: "DD.MM.YYYY"},
	}, zap.NewNop())
	return d, fs
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- MessageTool ---

func TestMessageTool_Conversation(t *testing.T) {
	d, s := setupDispatcher(t)
	tool := NewMessageTool(d, zap.NewNop(), nil)
	ctx := context.Background()

	for _, text := range []string{"/water", "10.05.2024"} {
		res, err := tool.Handle(ctx, request(map[string]interface{}{"user_id": float64(owner), "text": text}))
		require.NoError(t, err)
		require.False(t, res.IsError, getResultText(res))
	}
	res, err := tool.Handle(ctx, request(map[string]interface{}{"user_id": float64(owner), "text": "Big Basil"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Watered Big Basil on 10.05.2024", getResultText(res))

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	assert.Len(t, p.Activities, 1)
}

func TestMessageTool_ErrorsAreResults(t *testing.T) {
	d, _ := setupDispatcher(t)
	tool := NewMessageTool(d, zap.NewNop(), nil)
	ctx := context.Background()

	res, err := tool.Handle(ctx, request(map[string]interface{}{"user_id": float64(owner), "text": "hello there"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, session.ErrNoActionRunning.Error(), getResultText(res))

	res, err = tool.Handle(ctx, request(map[string]interface{}{"user_id": float64(7), "text": "/help"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, commands.UnauthorizedMessage, getResultText(res))
}

func TestMessageTool_MissingArguments(t *testing.T) {
	d, _ := setupDispatcher(t)
	tool := NewMessageTool(d, zap.NewNop(), nil)

	res, err := tool.Handle(context.Background(), request(map[string]interface{}{"text": "/help"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, getResultText(res), "user_id")

	res, err = tool.Handle(context.Background(), request(map[string]interface{}{"user_id": float64(owner)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, getResultText(res), "text")
}

func TestMessageTool_ZeroUserIDIsNotMissing(t *testing.T) {
	d, _ := setupDispatcher(t)
	tool := NewMessageTool(d, zap.NewNop(), nil)

	res, err := tool.Handle(context.Background(), request(map[string]interface{}{"user_id": float64(0), "text": "/help"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, commands.UnauthorizedMessage, getResultText(res))

	res, err = tool.Handle(context.Background(), request(map[string]interface{}{"user_id": "many", "text": "/help"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, getResultText(res), "'user_id' is required")
}

func TestMessageTool_Exit(t *testing.T) {
	d, _ := setupDispatcher(t)
	exited := false
	tool := NewMessageTool(d, zap.NewNop(), func() { exited = true })

	res, err := tool.Handle(context.Background(), request(map[string]interface{}{"user_id": float64(owner), "text": "/exit"}))
	require.NoError(t, err)
	assert.Equal(t, "Bye.", getResultText(res))
	assert.True(t, exited)
}

func TestMessageTool_Definition(t *testing.T) {
	def := NewMessageTool(nil, nil, nil).Definition()
	assert.Equal(t, "plant_message", def.Name)
	assert.ElementsMatch(t, []string{"user_id", "text"}, def.InputSchema.Required)
}

// --- PhotoTool ---

func TestPhotoTool_Handle(t *testing.T) {
	d, s := setupDispatcher(t)
	tool := NewPhotoTool(d)

	res, err := tool.Handle(context.Background(), request(map[string]interface{}{
		"user_id":      float64(owner),
		"caption":      "big basil",
		"image_base64": base64.StdEncoding.EncodeToString([]byte("jpeg")),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, getResultText(res))
	assert.True(t, strings.HasSuffix(getResultText(res), ".jpg"))

	p, err := s.GetPlant("Big Basil")
	require.NoError(t, err)
	assert.Len(t, p.Images, 1)
}

func TestPhotoTool_BadInput(t *testing.T) {
	d, _ := setupDispatcher(t)
	tool := NewPhotoTool(d)

	res, err := tool.Handle(context.Background(), request(map[string]interface{}{
		"user_id":      float64(owner),
		"caption":      "Big Basil",
		"image_base64": "***",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, getResultText(res), "base64")

	res, err = tool.Handle(context.Background(), request(map[string]interface{}{
		"user_id":      float64(owner),
		"caption":      "Cactus",
		"image_base64": base64.StdEncoding.EncodeToString([]byte("jpeg")),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, getResultText(res), "Cactus")
}

// --- HelpTool ---

func TestHelpTool_Handle(t *testing.T) {
	res, err := NewHelpTool().Handle(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, commands.Help(), getResultText(res))
}
