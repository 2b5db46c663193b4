// Package store implements persistence for the plant book.
//
// Store is the port the data-entry engine depends on. Two implementations
// satisfy it: FileStore (one JSON file per plant and species plus
// semicolon-separated CSV logs) and SQLStore (a single embedded SQLite
// database). Both resolve species and location references on every read and
// serialize their own writes; every mutation is a discrete transaction.
package store

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/HendryAvila/plantbot/internal/plants"
)

// dateLayout is the on-disk date format for both implementations.
const dateLayout = "2006-01-02"

// Store defines the persistence interface for plant book records.
type Store interface {
	ListPlants() ([]plants.Plant, error)
	GetPlant(name string) (*plants.Plant, error)
	PlantExists(name string) (bool, error)
	// CheckNewPlantName fails with InvalidValueError when name cannot be
	// stored and with ConflictError when it would overwrite another plant.
	CheckNewPlantName(name string) error
	PlantsByLocation(location string) ([]plants.Plant, error)
	PlantsBySpecies(species string) ([]plants.Plant, error)

	ListSpecies() ([]plants.Species, error)
	GetSpecies(name string) (*plants.Species, error)
	SpeciesExists(name string) (bool, error)

	ListLocations() ([]plants.Location, error)
	GetLocation(name string) (*plants.Location, error)

	PutPlant(p plants.Plant) error
	PutSpecies(s plants.Species) error
	PutLocation(l plants.Location) error
	AppendActivities(activities []plants.Activity) error
	AppendGrowth(samples []plants.GrowthSample) error
	AddImage(plant string, img plants.Image) error

	// KillPlant removes the live plant with its activities and growth and
	// appends the graveyard entry. Either all of that happens or none of it.
	KillPlant(entry plants.GraveyardEntry) error
	Graveyard() ([]plants.GraveyardEntry, error)

	ResolvePlantName(fragment string) (string, error)
	ResolveSpeciesName(fragment string) (string, error)
	ResolveLocationName(fragment string) (string, error)

	Close() error
}

// bestMatch picks the candidate that best matches fragment. Ranking:
// exact, case-insensitive, whitespace-insensitive, prefix, substring.
// Within the prefix and substring tiers the shortest name wins, then the
// alphabetically first. An exact match always wins, so resolving an already
// resolved name returns it unchanged.
func bestMatch(candidates []string, fragment string) (string, bool) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", false
	}

	lower := strings.ToLower(fragment)
	squashed := squash(fragment)

	for _, c := range candidates {
		if c == fragment {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.ToLower(c) == lower {
			return c, true
		}
	}
	for _, c := range candidates {
		if squash(c) == squashed {
			return c, true
		}
	}

	var prefix, substr []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lc, lower):
			prefix = append(prefix, c)
		case strings.Contains(lc, lower):
			substr = append(substr, c)
		}
	}
	if best, ok := shortest(prefix); ok {
		return best, true
	}
	return shortest(substr)
}

func shortest(names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names[0], true
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveRefs fills species and location references from the given indexes.
// Names that are not indexed stay dangling.
func resolveRefs(p *plants.Plant, species map[string]plants.Species, locations map[string]plants.Location) {
	if s, ok := species[p.Species.Name]; ok {
		p.Species = plants.Resolved(s.Name, s)
	} else {
		p.Species = plants.Dangling[plants.Species](p.Species.Name)
	}
	if l, ok := locations[p.Location.Name]; ok {
		p.Location = plants.Resolved(l.Name, l)
	} else {
		p.Location = plants.Dangling[plants.Location](p.Location.Name)
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func sortPlants(ps []plants.Plant) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
}

func sortSpecies(ss []plants.Species) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].Name < ss[j].Name })
}

func sortActivities(as []plants.Activity) {
	sort.SliceStable(as, func(i, j int) bool { return as[i].Date.Before(as[j].Date) })
}

func sortGrowth(gs []plants.GrowthSample) {
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Date.Before(gs[j].Date) })
}

func filterPlants(ps []plants.Plant, keep func(plants.Plant) bool) []plants.Plant {
	var out []plants.Plant
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func validatePlant(p plants.Plant) error {
	return plants.ValidatePlantName(p.Name)
}

func validateLocation(l plants.Location) error {
	if strings.TrimSpace(l.Name) == "" {
		return &plants.InvalidValueError{Field: "Location", Value: l.Name}
	}
	return nil
}
