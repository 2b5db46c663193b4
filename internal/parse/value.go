package parse

import (
	"errors"
	"strings"

	"github.com/HendryAvila/plantbot/internal/plants"
)

// replacePrefix on a note-list value replaces the list instead of appending.
const replacePrefix = "="

// TryParseSpeciesValue parses text as a value for a species field. Text that
// does not parse as the field's type yields *plants.WrongTypeError.
func TryParseSpeciesValue(field plants.SpeciesField, text string) (plants.FieldUpdate, error) {
	u, err := parseValue(field.Type(), text, "", nil)
	if err != nil {
		return nil, wrongType(field.String(), err)
	}
	return u, nil
}

// TryParsePlantValue parses text as a value for a plant field. Species and
// location names are resolved through r; unknown names are kept as dangling
// references.
func TryParsePlantValue(field plants.PlantField, text, layout string, r Resolver) (plants.FieldUpdate, error) {
	if field == plants.PlantLocation {
		return plants.StringValue(resolveOrRaw(text, r.ResolveLocationName)), nil
	}
	u, err := parseValue(field.Type(), text, layout, r)
	if err != nil {
		return nil, wrongType(field.String(), err)
	}
	return u, nil
}

func wrongType(field string, err error) error {
	var pe *plants.ParseError
	if errors.As(err, &pe) {
		return &plants.WrongTypeError{Field: field}
	}
	return err
}

func resolveOrRaw(text string, resolve func(string) (string, error)) string {
	text = strings.TrimSpace(text)
	if name, err := resolve(text); err == nil {
		return name
	}
	return text
}

func parseValue(typ plants.ValueType, text, layout string, r Resolver) (plants.FieldUpdate, error) {
	switch typ {
	case plants.TypeString:
		s, err := Text(text, "Text")
		if err != nil {
			return nil, err
		}
		return plants.StringValue(s), nil
	case plants.TypeSpeciesRef:
		s, err := Text(text, "Species Name")
		if err != nil {
			return nil, err
		}
		if r != nil {
			s = resolveOrRaw(s, r.ResolveSpeciesName)
		}
		return plants.SpeciesValue{Ref: plants.Dangling[plants.Species](s)}, nil
	case plants.TypeDate:
		if layout == "" {
			layout = Layout(DefaultDateFormat)
		}
		d, err := Date(text, layout)
		if err != nil {
			return nil, err
		}
		return plants.DateValue{Date: d}, nil
	case plants.TypeBool:
		b, err := Bool(text)
		if err != nil {
			return nil, err
		}
		return plants.BoolValue(b), nil
	case plants.TypeNotes:
		trimmed := strings.TrimSpace(text)
		if rest, ok := strings.CutPrefix(trimmed, replacePrefix); ok {
			return plants.NotesValue{Notes: Notes(rest)}, nil
		}
		return plants.NotesValue{Notes: Notes(trimmed), Append: true}, nil
	case plants.TypeFloat:
		f, err := Float(text, "Number")
		if err != nil {
			return nil, err
		}
		return plants.FloatValue(f), nil
	case plants.TypeOptFloat:
		f, err := OptFloat(text, "Number")
		if err != nil {
			return nil, err
		}
		return plants.OptFloatValue{Value: f}, nil
	case plants.TypeOptInt:
		i, err := OptInt(text, "Integer")
		if err != nil {
			return nil, err
		}
		return plants.OptIntValue{Value: i}, nil
	case plants.TypeSunlight:
		s, err := Sunlight(text)
		if err != nil {
			return nil, err
		}
		return plants.SunlightValue(s), nil
	}
	return nil, &plants.ParseError{What: "value"}
}
