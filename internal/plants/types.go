// Package plants holds the domain model of the plant book: species, locations,
// plants with their growth and activity logs, and the graveyard.
//
// Records reference each other by name only. A Plant points at its Species and
// Location through a Ref, which is either resolved (the store found the record
// when the plant was read) or dangling (only the name is known). Stores persist
// names and re-resolve on every read, so there are no pointers between records.
package plants

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// --- Sunlight enum ---

// Sunlight is the light requirement of a species.
type Sunlight string

const (
	SunlightDirect   Sunlight = "Direct"
	SunlightIndirect Sunlight = "Indirect"
	SunlightShade    Sunlight = "Shade"
)

// validSunlight is the set of allowed sunlight values.
var validSunlight = map[Sunlight]bool{
	SunlightDirect:   true,
	SunlightIndirect: true,
	SunlightShade:    true,
}

// ValidateSunlight returns an error if the value is not recognized.
func ValidateSunlight(s Sunlight) error {
	if !validSunlight[s] {
		return &InvalidValueError{Field: "Sunlight", Value: string(s)}
	}
	return nil
}

// --- Activity names ---

const (
	ActivityWatering    = "Watering"
	ActivityFertilizing = "Fertilizing"
)

// --- References ---

// Ref is a by-name reference to another record. Value is nil when the
// reference is dangling.
type Ref[T any] struct {
	Name  string
	Value *T
}

// Resolved builds a reference that points at a loaded record.
func Resolved[T any](name string, v T) Ref[T] {
	return Ref[T]{Name: name, Value: &v}
}

// Dangling builds a reference that only carries a name.
func Dangling[T any](name string) Ref[T] {
	return Ref[T]{Name: name}
}

// IsResolved reports whether the reference points at a loaded record.
func (r Ref[T]) IsResolved() bool { return r.Value != nil }

// String returns the referenced name.
func (r Ref[T]) String() string { return r.Name }

// MarshalJSON stores only the name.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Name)
}

// UnmarshalJSON reads a name; the result is always dangling until a store resolves it.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*r = Dangling[T](name)
	return nil
}

// --- Core records ---

// Species is a taxonomic record. Name (the common name) is the primary key.
type Species struct {
	Name               string   `json:"name"`
	ScientificName     string   `json:"scientific_name"`
	Genus              string   `json:"genus"`
	Family             string   `json:"family"`
	Sunlight           Sunlight `json:"sunlight"`
	TempMin            float64  `json:"temp_min"`
	TempMax            float64  `json:"temp_max"`
	OptTempMin         float64  `json:"opt_temp_min"`
	OptTempMax         float64  `json:"opt_temp_max"`
	PlantingDistance   *float64 `json:"planting_distance,omitempty"`
	PHMin              float64  `json:"ph_min"`
	PHMax              float64  `json:"ph_max"`
	AvgWateringDays    *int     `json:"avg_watering_days,omitempty"`
	WateringNotes      []string `json:"watering_notes"`
	AvgFertilizingDays *int     `json:"avg_fertilizing_days,omitempty"`
	FertilizingNotes   []string `json:"fertilizing_notes"`
	PruningNotes       []string `json:"pruning_notes"`
	Companions         []string `json:"companions"`
	AdditionalNotes    []string `json:"additional_notes"`
}

// Validate checks the range invariants of a species.
func (s *Species) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &InvalidValueError{Field: "Name", Value: s.Name}
	}
	if err := ValidateSunlight(s.Sunlight); err != nil {
		return err
	}
	if s.TempMin > s.TempMax {
		return &InvalidValueError{Field: "Temperature range", Value: fmt.Sprintf("%g > %g", s.TempMin, s.TempMax)}
	}
	if s.OptTempMin > s.OptTempMax {
		return &InvalidValueError{Field: "Optimal temperature range", Value: fmt.Sprintf("%g > %g", s.OptTempMin, s.OptTempMax)}
	}
	if s.PHMin > s.PHMax {
		return &InvalidValueError{Field: "pH range", Value: fmt.Sprintf("%g > %g", s.PHMin, s.PHMax)}
	}
	return nil
}

// Location is a named place where plants live.
type Location struct {
	Name    string `json:"name"`
	Outside bool   `json:"outside"`
}

// Activity is a dated event on a plant (Watering, Fertilizing, ...).
type Activity struct {
	Plant    string    `json:"plant"`
	Date     time.Time `json:"date"`
	Activity string    `json:"activity"`
	Note     *string   `json:"note,omitempty"`
}

// MinHealth and MaxHealth bound GrowthSample.Health.
const (
	MinHealth = 0
	MaxHealth = 5
)

// GrowthSample is a dated measurement of a plant.
type GrowthSample struct {
	Plant  string    `json:"plant"`
	Date   time.Time `json:"date"`
	Height float64   `json:"height"`
	Width  float64   `json:"width"`
	Health int       `json:"health"`
	Note   *string   `json:"note,omitempty"`
}

// Validate checks the health range.
func (g *GrowthSample) Validate() error {
	if g.Health < MinHealth || g.Health > MaxHealth {
		return &InvalidValueError{Field: "Health", Value: fmt.Sprintf("%d", g.Health)}
	}
	return nil
}

// Image is a dated photo of a plant stored under the plant's directory.
type Image struct {
	Date     time.Time `json:"date"`
	FileName string    `json:"file_name"`
}

// Plant is a single specimen. Name is the primary key.
type Plant struct {
	Name       string         `json:"name"`
	Species    Ref[Species]   `json:"species"`
	Location   Ref[Location]  `json:"location"`
	Origin     string         `json:"origin"`
	Obtained   time.Time      `json:"obtained"`
	AutoWater  bool           `json:"auto_water"`
	Notes      []string       `json:"notes"`
	Growth     []GrowthSample `json:"-"`
	Activities []Activity     `json:"-"`
	Images     []Image        `json:"-"`
}

// LatestGrowth returns the most recent growth sample, if any.
func (p *Plant) LatestGrowth() (GrowthSample, bool) {
	if len(p.Growth) == 0 {
		return GrowthSample{}, false
	}
	latest := p.Growth[0]
	for _, g := range p.Growth[1:] {
		if !g.Date.Before(latest.Date) {
			latest = g
		}
	}
	return latest, true
}

// GraveyardEntry records a dead plant.
type GraveyardEntry struct {
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Planted time.Time `json:"planted"`
	Died    time.Time `json:"died"`
	Reason  string    `json:"reason"`
}

// SortGraveyard orders entries by died date, then planted date.
func SortGraveyard(entries []GraveyardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Died.Equal(entries[j].Died) {
			return entries[i].Died.Before(entries[j].Died)
		}
		return entries[i].Planted.Before(entries[j].Planted)
	})
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ImageFileName is the photo file name for a given day: DDMMYYYY.jpg.
func ImageFileName(day time.Time) string {
	return day.Format("02012006") + ".jpg"
}

// DirName is the on-disk directory name of a plant: the name without spaces.
func DirName(plantName string) string {
	return strings.ReplaceAll(plantName, " ", "")
}

// ValidatePlantName rejects names that cannot become a single directory
// under Plants/: empty names, path separators, and "." or "..".
func ValidatePlantName(name string) error {
	dir := DirName(name)
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || dir == "." || dir == ".." {
		return &InvalidValueError{Field: "Plant Name", Value: name}
	}
	return nil
}
