package plants

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// --- Field value types ---

// ValueType is the variant a field expects in a FieldUpdate.
type ValueType int

const (
	TypeString ValueType = iota + 1
	TypeSpeciesRef
	TypeDate
	TypeBool
	TypeNotes
	TypeFloat
	TypeOptFloat
	TypeOptInt
	TypeSunlight
)

// FieldUpdate is a typed value used to patch one attribute of a record.
// The concrete types below are the only implementations.
type FieldUpdate interface {
	ValueType() ValueType
}

// StringValue sets a free-text field.
type StringValue string

// SpeciesValue sets a species reference, resolved or dangling.
type SpeciesValue struct{ Ref Ref[Species] }

// DateValue sets a date field.
type DateValue struct{ Date time.Time }

// BoolValue sets a yes/no field.
type BoolValue bool

// NotesValue appends to, or replaces, a note list.
type NotesValue struct {
	Notes  []string
	Append bool
}

// FloatValue sets a required number.
type FloatValue float64

// OptFloatValue sets an optional number; nil clears it.
type OptFloatValue struct{ Value *float64 }

// OptIntValue sets an optional integer; nil clears it.
type OptIntValue struct{ Value *int }

// SunlightValue sets the sunlight requirement.
type SunlightValue Sunlight

func (StringValue) ValueType() ValueType   { return TypeString }
func (SpeciesValue) ValueType() ValueType  { return TypeSpeciesRef }
func (DateValue) ValueType() ValueType     { return TypeDate }
func (BoolValue) ValueType() ValueType     { return TypeBool }
func (NotesValue) ValueType() ValueType    { return TypeNotes }
func (FloatValue) ValueType() ValueType    { return TypeFloat }
func (OptFloatValue) ValueType() ValueType { return TypeOptFloat }
func (OptIntValue) ValueType() ValueType   { return TypeOptInt }
func (SunlightValue) ValueType() ValueType { return TypeSunlight }

// fieldInfo describes one updatable field: how it is shown, which spellings
// the user may type, and which value variant it takes.
type fieldInfo struct {
	display   string
	spellings []string
	typ       ValueType
}

// normalizeFieldName lowers and strips whitespace, underscores and hyphens so
// "Avg Watering Days", "avg_watering_days" and "avgwateringdays" all match.
func normalizeFieldName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func matchField(infos []fieldInfo, text string) (int, bool) {
	key := normalizeFieldName(text)
	if key == "" {
		return 0, false
	}
	for i, info := range infos {
		if normalizeFieldName(info.display) == key {
			return i, true
		}
		for _, alias := range info.spellings {
			if normalizeFieldName(alias) == key {
				return i, true
			}
		}
	}
	return 0, false
}

// --- Species fields ---

// SpeciesField enumerates the updatable attributes of a Species.
type SpeciesField int

const (
	SpeciesScientificName SpeciesField = iota + 1
	SpeciesGenus
	SpeciesFamily
	SpeciesSunlight
	SpeciesTempMin
	SpeciesTempMax
	SpeciesOptTempMin
	SpeciesOptTempMax
	SpeciesPlantingDistance
	SpeciesPHMin
	SpeciesPHMax
	SpeciesAvgWateringDays
	SpeciesWateringNotes
	SpeciesAvgFertilizingDays
	SpeciesFertilizingNotes
	SpeciesPruningNotes
	SpeciesCompanions
	SpeciesAdditionalNotes
)

var speciesFieldInfo = []fieldInfo{
	{"Scientific Name", []string{"scientific", "latin name"}, TypeString},
	{"Genus", nil, TypeString},
	{"Family", nil, TypeString},
	{"Sunlight", []string{"sun", "light"}, TypeSunlight},
	{"Temp Min", []string{"min temp", "minimum temperature"}, TypeFloat},
	{"Temp Max", []string{"max temp", "maximum temperature"}, TypeFloat},
	{"Opt Temp Min", []string{"min opt temp", "optimal temp min", "minimum optimal temperature"}, TypeFloat},
	{"Opt Temp Max", []string{"max opt temp", "optimal temp max", "maximum optimal temperature"}, TypeFloat},
	{"Planting Distance", []string{"distance"}, TypeOptFloat},
	{"pH Min", []string{"min ph"}, TypeFloat},
	{"pH Max", []string{"max ph"}, TypeFloat},
	{"Avg Watering Days", []string{"watering days", "average watering days"}, TypeOptInt},
	{"Watering Notes", []string{"watering"}, TypeNotes},
	{"Avg Fertilizing Days", []string{"fertilizing days", "average fertilizing days"}, TypeOptInt},
	{"Fertilizing Notes", []string{"fertilizing"}, TypeNotes},
	{"Pruning Notes", []string{"pruning"}, TypeNotes},
	{"Companions", []string{"companion plants"}, TypeNotes},
	{"Additional Notes", []string{"notes", "additional"}, TypeNotes},
}

// SpeciesFields returns all updatable species fields in declaration order.
func SpeciesFields() []SpeciesField {
	out := make([]SpeciesField, len(speciesFieldInfo))
	for i := range speciesFieldInfo {
		out[i] = SpeciesField(i + 1)
	}
	return out
}

func (f SpeciesField) info() fieldInfo {
	if f < 1 || int(f) > len(speciesFieldInfo) {
		return fieldInfo{display: fmt.Sprintf("SpeciesField(%d)", int(f))}
	}
	return speciesFieldInfo[f-1]
}

// String returns the canonical display name.
func (f SpeciesField) String() string { return f.info().display }

// Type returns the value variant the field expects.
func (f SpeciesField) Type() ValueType { return f.info().typ }

// Spellings returns every accepted input spelling, display name first.
func (f SpeciesField) Spellings() []string {
	s := f.info()
	return append([]string{s.display}, s.spellings...)
}

// ParseSpeciesField matches user text against the species field names,
// ignoring case and whitespace.
func ParseSpeciesField(text string) (SpeciesField, error) {
	i, ok := matchField(speciesFieldInfo, text)
	if !ok {
		return 0, &ParseError{What: "Species field"}
	}
	return SpeciesField(i + 1), nil
}

// --- Plant fields ---

// PlantField enumerates the updatable attributes of a Plant.
type PlantField int

const (
	PlantSpecies PlantField = iota + 1
	PlantLocation
	PlantOrigin
	PlantObtained
	PlantAutoWater
	PlantNotes
)

var plantFieldInfo = []fieldInfo{
	{"Species", []string{"species name"}, TypeSpeciesRef},
	{"Location", []string{"place"}, TypeString},
	{"Origin", []string{"source"}, TypeString},
	{"Obtained", []string{"obtained date", "date obtained"}, TypeDate},
	{"Auto Water", []string{"autowater", "autowatered", "auto watered"}, TypeBool},
	{"Notes", []string{"note", "plant notes"}, TypeNotes},
}

// PlantFields returns all updatable plant fields in declaration order.
func PlantFields() []PlantField {
	out := make([]PlantField, len(plantFieldInfo))
	for i := range plantFieldInfo {
		out[i] = PlantField(i + 1)
	}
	return out
}

func (f PlantField) info() fieldInfo {
	if f < 1 || int(f) > len(plantFieldInfo) {
		return fieldInfo{display: fmt.Sprintf("PlantField(%d)", int(f))}
	}
	return plantFieldInfo[f-1]
}

// String returns the canonical display name.
func (f PlantField) String() string { return f.info().display }

// Type returns the value variant the field expects.
func (f PlantField) Type() ValueType { return f.info().typ }

// Spellings returns every accepted input spelling, display name first.
func (f PlantField) Spellings() []string {
	s := f.info()
	return append([]string{s.display}, s.spellings...)
}

// ParsePlantField matches user text against the plant field names,
// ignoring case and whitespace.
func ParsePlantField(text string) (PlantField, error) {
	i, ok := matchField(plantFieldInfo, text)
	if !ok {
		return 0, &ParseError{What: "Plant field"}
	}
	return PlantField(i + 1), nil
}

// --- Apply ---

func mergeNotes(current []string, u NotesValue) []string {
	if !u.Append {
		return append([]string{}, u.Notes...)
	}
	out := append([]string{}, current...)
	return append(out, u.Notes...)
}

// ApplySpecies patches one field of s. On any error s is left unchanged.
func ApplySpecies(s *Species, f SpeciesField, u FieldUpdate) error {
	if u == nil || u.ValueType() != f.Type() {
		return &WrongTypeError{Field: f.String()}
	}
	next := *s

	switch f {
	case SpeciesScientificName:
		next.ScientificName = string(u.(StringValue))
	case SpeciesGenus:
		next.Genus = string(u.(StringValue))
	case SpeciesFamily:
		next.Family = string(u.(StringValue))
	case SpeciesSunlight:
		next.Sunlight = Sunlight(u.(SunlightValue))
	case SpeciesTempMin:
		next.TempMin = float64(u.(FloatValue))
	case SpeciesTempMax:
		next.TempMax = float64(u.(FloatValue))
	case SpeciesOptTempMin:
		next.OptTempMin = float64(u.(FloatValue))
	case SpeciesOptTempMax:
		next.OptTempMax = float64(u.(FloatValue))
	case SpeciesPlantingDistance:
		next.PlantingDistance = u.(OptFloatValue).Value
	case SpeciesPHMin:
		next.PHMin = float64(u.(FloatValue))
	case SpeciesPHMax:
		next.PHMax = float64(u.(FloatValue))
	case SpeciesAvgWateringDays:
		next.AvgWateringDays = u.(OptIntValue).Value
	case SpeciesWateringNotes:
		next.WateringNotes = mergeNotes(s.WateringNotes, u.(NotesValue))
	case SpeciesAvgFertilizingDays:
		next.AvgFertilizingDays = u.(OptIntValue).Value
	case SpeciesFertilizingNotes:
		next.FertilizingNotes = mergeNotes(s.FertilizingNotes, u.(NotesValue))
	case SpeciesPruningNotes:
		next.PruningNotes = mergeNotes(s.PruningNotes, u.(NotesValue))
	case SpeciesCompanions:
		next.Companions = mergeNotes(s.Companions, u.(NotesValue))
	case SpeciesAdditionalNotes:
		next.AdditionalNotes = mergeNotes(s.AdditionalNotes, u.(NotesValue))
	default:
		return &WrongTypeError{Field: f.String()}
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// ApplyPlant patches one field of p. On any error p is left unchanged.
// A location update stores a dangling reference; stores resolve it on read.
func ApplyPlant(p *Plant, f PlantField, u FieldUpdate) error {
	if u == nil || u.ValueType() != f.Type() {
		return &WrongTypeError{Field: f.String()}
	}

	switch f {
	case PlantSpecies:
		p.Species = u.(SpeciesValue).Ref
	case PlantLocation:
		p.Location = Dangling[Location](string(u.(StringValue)))
	case PlantOrigin:
		p.Origin = string(u.(StringValue))
	case PlantObtained:
		p.Obtained = u.(DateValue).Date
	case PlantAutoWater:
		p.AutoWater = bool(u.(BoolValue))
	case PlantNotes:
		p.Notes = mergeNotes(p.Notes, u.(NotesValue))
	default:
		return &WrongTypeError{Field: f.String()}
	}
	return nil
}
