// Package resources exposes read-only views of the plant journal as MCP
// resources under plants://.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plantbot/internal/plants"
)

// Resource URIs.
const (
	PlantsURI    = "plants://plants"
	LocationsURI = "plants://locations"
	GraveyardURI = "plants://graveyard"
)

// Reader is the read side of store.Store.
type Reader interface {
	ListPlants() ([]plants.Plant, error)
	ListLocations() ([]plants.Location, error)
	Graveyard() ([]plants.GraveyardEntry, error)
}

// Handler serves journal resources.
type Handler struct {
	store Reader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store Reader) *Handler {
	return &Handler{store: store}
}

// PlantsResource returns the MCP resource definition for the plant list.
func (h *Handler) PlantsResource() mcp.Resource {
	return mcp.NewResource(
		PlantsURI,
		"Plants",
		mcp.WithResourceDescription("Every living plant with species, location and latest growth"),
		mcp.WithMIMEType("application/json"),
	)
}

// LocationsResource returns the MCP resource definition for locations.
func (h *Handler) LocationsResource() mcp.Resource {
	return mcp.NewResource(
		LocationsURI,
		"Locations",
		mcp.WithResourceDescription("Known locations and whether they are outside"),
		mcp.WithMIMEType("application/json"),
	)
}

// GraveyardResource returns the MCP resource definition for dead plants.
func (h *Handler) GraveyardResource() mcp.Resource {
	return mcp.NewResource(
		GraveyardURI,
		"Graveyard",
		mcp.WithResourceDescription("Dead plants ordered by date of death"),
		mcp.WithMIMEType("application/json"),
	)
}

type plantView struct {
	Name       string               `json:"name"`
	Species    string               `json:"species"`
	Location   string               `json:"location"`
	Obtained   string               `json:"obtained"`
	AutoWater  bool                 `json:"auto_water"`
	Activities int                  `json:"activities"`
	Images     int                  `json:"images"`
	Latest     *plants.GrowthSample `json:"latest_growth,omitempty"`
}

// HandlePlants returns the plant list as JSON.
func (h *Handler) HandlePlants(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := h.store.ListPlants()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	views := make([]plantView, 0, len(list))
	for i := range list {
		p := &list[i]
		v := plantView{
			Name:       p.Name,
			Species:    p.Species.Name,
			Location:   p.Location.Name,
			Obtained:   p.Obtained.Format("2006-01-02"),
			AutoWater:  p.AutoWater,
			Activities: len(p.Activities),
			Images:     len(p.Images),
		}
		if g, ok := p.LatestGrowth(); ok {
			v.Latest = &g
		}
		views = append(views, v)
	}
	return jsonResource(req.Params.URI, views)
}

// HandleLocations returns the locations as JSON.
func (h *Handler) HandleLocations(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := h.store.ListLocations()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, list)
}

// HandleGraveyard returns the graveyard as JSON.
func (h *Handler) HandleGraveyard(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := h.store.Graveyard()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, list)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
