// Package parse turns one line of user text into a typed value.
//
// Every parser trims its input first. Keyword matching (y/n, done, sunlight,
// field names) is case-insensitive; stored text keeps its case. Failures are
// *plants.ParseError naming the expected type, or *plants.InvalidValueError
// when the type matched but the value is out of range.
package parse

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/plantbot/internal/plants"
)

// DefaultDateFormat is the date format users type unless configured otherwise.
const DefaultDateFormat = "DD.MM.YYYY"

// DoneToken ends a note list without adding anything.
const DoneToken = "done"

// Resolver is the subset of the store used to resolve typed names.
type Resolver interface {
	ResolvePlantName(fragment string) (string, error)
	ResolveSpeciesName(fragment string) (string, error)
	ResolveLocationName(fragment string) (string, error)
}

// Layout converts a human date format such as "DD.MM.YYYY" into a Go time
// layout. Formats that already look like a Go layout pass through.
func Layout(format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	r := strings.NewReplacer(
		"YYYY", "2006",
		"YY", "06",
		"MM", "01",
		"DD", "02",
	)
	return r.Replace(format)
}

// Date parses text against a Go layout as a local date.
func Date(text, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}, &plants.ParseError{What: "Date"}
	}
	return t, nil
}

// Text returns trimmed text, failing on empty input.
func Text(text, what string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &plants.ParseError{What: what}
	}
	return text, nil
}

// PlantName resolves a single plant name.
func PlantName(text string, r Resolver) (string, error) {
	fragment, err := Text(text, "Plant Name")
	if err != nil {
		return "", err
	}
	return r.ResolvePlantName(fragment)
}

// PlantNames resolves a comma-separated list of plant names. The result is
// deduplicated and keeps input order. If any token fails, nothing is returned.
func PlantNames(text string, r Resolver) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, err := r.ResolvePlantName(token)
		if err != nil {
			return nil, err
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, &plants.ParseError{What: "Plant Names"}
	}
	return names, nil
}

// SpeciesName resolves a species name. A NotFoundError is returned as is so
// create-only callers can fall back to the raw name.
func SpeciesName(text string, r Resolver) (string, error) {
	fragment, err := Text(text, "Species Name")
	if err != nil {
		return "", err
	}
	return r.ResolveSpeciesName(fragment)
}

// LocationName resolves a location name.
func LocationName(text string, r Resolver) (string, error) {
	fragment, err := Text(text, "Location Name")
	if err != nil {
		return "", err
	}
	return r.ResolveLocationName(fragment)
}

// Health parses an integer in [plants.MinHealth, plants.MaxHealth].
func Health(text string) (int, error) {
	text = strings.TrimSpace(text)
	h, err := strconv.Atoi(text)
	if err != nil {
		return 0, &plants.ParseError{What: "Health"}
	}
	if h < plants.MinHealth || h > plants.MaxHealth {
		return 0, &plants.InvalidValueError{Field: "Health", Value: text}
	}
	return h, nil
}

// Bool parses y or n.
func Bool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	}
	return false, &plants.ParseError{What: "y/n"}
}

// Notes splits a comma-separated note list. "Done" alone means no notes.
func Notes(text string) []string {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, DoneToken) {
		return []string{}
	}
	notes := []string{}
	for _, n := range strings.Split(text, ",") {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	return notes
}

// Note parses an optional single note. "Done" or empty input means none.
func Note(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, DoneToken) {
		return nil
	}
	return &text
}

// Sunlight parses direct, indirect or shade.
func Sunlight(text string) (plants.Sunlight, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "direct":
		return plants.SunlightDirect, nil
	case "indirect":
		return plants.SunlightIndirect, nil
	case "shade":
		return plants.SunlightShade, nil
	}
	return "", &plants.ParseError{What: "Sunlight"}
}

// Float parses a finite number.
func Float(text, what string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &plants.ParseError{What: what}
	}
	return f, nil
}

// OptFloat parses a number where a negative value means absent.
func OptFloat(text, what string) (*float64, error) {
	f, err := Float(text, what)
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, nil
	}
	return &f, nil
}

// OptInt parses an integer where a negative value means absent.
func OptInt(text, what string) (*int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil, &plants.ParseError{What: what}
	}
	if i < 0 {
		return nil, nil
	}
	return &i, nil
}
