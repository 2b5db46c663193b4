package resources

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	return tc.Text
}

func TestHandlePlants(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, fs.PutLocation(plants.Location{Name: "Deck", Outside: true}))
	require.NoError(t, fs.PutPlant(plants.Plant{
		Name:     "Big Basil",
		Species:  plants.Dangling[plants.Species]("Basil"),
		Location: plants.Dangling[plants.Location]("Deck"),
		Obtained: time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local),
	}))
	require.NoError(t, fs.AppendGrowth([]plants.GrowthSample{{
		Plant: "Big Basil", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), Height: 10, Width: 8, Health: 3,
	}}))

	h := NewHandler(fs)
	contents, err := h.HandlePlants(context.Background(), readReq(PlantsURI))
	require.NoError(t, err)

	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, contents)), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Big Basil", views[0]["name"])
	assert.Equal(t, "Basil", views[0]["species"])
	assert.Equal(t, "Deck", views[0]["location"])
	assert.Equal(t, "2024-04-01", views[0]["obtained"])
	latest, ok := views[0]["latest_growth"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), latest["height"])

	contents, err = h.HandleLocations(context.Background(), readReq(LocationsURI))
	require.NoError(t, err)
	assert.Contains(t, text(t, contents), `"outside": true`)
}

type brokenReader struct{}

func (brokenReader) ListPlants() ([]plants.Plant, error) { return nil, errors.New("disk gone") }
func (brokenReader) ListLocations() ([]plants.Location, error) {
	return nil, errors.New("disk gone")
}
func (brokenReader) Graveyard() ([]plants.GraveyardEntry, error) {
	return nil, errors.New("disk gone")
}

func TestHandle_StoreErrorIsTextResource(t *testing.T) {
	h := NewHandler(brokenReader{})

	contents, err := h.HandleGraveyard(context.Background(), readReq(GraveyardURI))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text(t, contents), "Error: disk gone"))
}

func TestResourceDefinitions(t *testing.T) {
	h := NewHandler(brokenReader{})
	assert.Equal(t, PlantsURI, h.PlantsResource().URI)
	assert.Equal(t, LocationsURI, h.LocationsResource().URI)
	assert.Equal(t, GraveyardURI, h.GraveyardResource().URI)
}
