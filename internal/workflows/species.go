package workflows

import (
	"fmt"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// --- New species ---

// NewSpecies collects every species attribute in declaration order.
type NewSpecies struct {
	steps

	sp plants.Species
}

// NewNewSpecies starts the new_species workflow.
func NewNewSpecies(Env) *NewSpecies {
	w := &NewSpecies{}
	sp := &w.sp

	text := func(name, prompt string, dst *string) step {
		return step{name: name, prompt: prompt, handle: func(in string, _ store.Store) error {
			v, err := parse.Text(in, name)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		}}
	}
	number := func(name, prompt string, dst *float64, floor *float64) step {
		return step{name: name, prompt: prompt, handle: func(in string, _ store.Store) error {
			v, err := parse.Float(in, name)
			if err != nil {
				return err
			}
			if floor != nil && v < *floor {
				return &plants.InvalidValueError{Field: name, Value: in}
			}
			*dst = v
			return nil
		}}
	}
	optFloat := func(name, prompt string, dst **float64) step {
		return step{name: name, prompt: prompt, handle: func(in string, _ store.Store) error {
			v, err := parse.OptFloat(in, name)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		}}
	}
	optInt := func(name, prompt string, dst **int) step {
		return step{name: name, prompt: prompt, handle: func(in string, _ store.Store) error {
			v, err := parse.OptInt(in, name)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		}}
	}
	notes := func(name, prompt string, dst *[]string) step {
		return step{name: name, prompt: prompt, handle: func(in string, _ store.Store) error {
			*dst = parse.Notes(in)
			return nil
		}}
	}

	w.steps = steps{name: "new_species", list: []step{
		{
			name:   "Species Name",
			prompt: "Please enter the common name of the new species",
			handle: func(in string, s store.Store) error {
				name, err := parse.Text(in, "Species Name")
				if err != nil {
					return err
				}
				exists, err := s.SpeciesExists(name)
				if err != nil {
					return err
				}
				if exists {
					return &plants.ConflictError{Kind: plants.KindSpecies, Name: name}
				}
				sp.Name = name
				return nil
			},
		},
		text("Scientific Name", "Please enter the scientific name", &sp.ScientificName),
		text("Genus", "Please enter the genus", &sp.Genus),
		text("Family", "Please enter the family", &sp.Family),
		{
			name:   "Sunlight",
			prompt: "Please enter sunlight requirement (direct, indirect, shade)",
			handle: func(in string, _ store.Store) error {
				v, err := parse.Sunlight(in)
				if err != nil {
					return err
				}
				sp.Sunlight = v
				return nil
			},
		},
		number("Temp Min", "Please enter the minimum survivable temperature (°C)", &sp.TempMin, nil),
		number("Temp Max", "Please enter the maximum survivable temperature (°C)", &sp.TempMax, &sp.TempMin),
		number("Opt Temp Min", "Please enter the minimum optimal temperature (°C)", &sp.OptTempMin, nil),
		number("Opt Temp Max", "Please enter the maximum optimal temperature (°C)", &sp.OptTempMax, &sp.OptTempMin),
		optFloat("Planting Distance", "Please enter the planting distance in cm (negative for none)", &sp.PlantingDistance),
		number("pH Min", "Please enter the minimum pH", &sp.PHMin, nil),
		number("pH Max", "Please enter the maximum pH", &sp.PHMax, &sp.PHMin),
		optInt("Avg Watering Days", "Please enter the average days between waterings (negative for none)", &sp.AvgWateringDays),
		notes("Watering Notes", "Please enter watering notes, separated by commas, or Done", &sp.WateringNotes),
		optInt("Avg Fertilizing Days", "Please enter the average days between fertilizings (negative for none)", &sp.AvgFertilizingDays),
		notes("Fertilizing Notes", "Please enter fertilizing notes, separated by commas, or Done", &sp.FertilizingNotes),
		notes("Pruning Notes", "Please enter pruning notes, separated by commas, or Done", &sp.PruningNotes),
		notes("Companions", "Please enter companion plants, separated by commas, or Done", &sp.Companions),
		notes("Additional Notes", "Please enter additional notes, separated by commas, or Done", &sp.AdditionalNotes),
	}}
	return w
}

// Commit writes the species.
func (w *NewSpecies) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	if err := need(w.sp.Name != "", "Species Name"); err != nil {
		return "", err
	}
	if err := s.PutSpecies(w.sp); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added species %s", w.sp.Name), nil
}

// --- Update species ---

// UpdateSpecies changes one field of a species. Note-list values append
// unless prefixed with "=".
type UpdateSpecies struct {
	steps

	species string
	field   *plants.SpeciesField
	value   plants.FieldUpdate
}

// NewUpdateSpecies starts the update_species workflow.
func NewUpdateSpecies(Env) *UpdateSpecies {
	w := &UpdateSpecies{}
	w.steps = steps{name: "update_species", list: []step{
		{
			name:   "Species Name",
			prompt: "Please enter species name",
			handle: func(in string, s store.Store) error {
				name, err := parse.SpeciesName(in, s)
				if err != nil {
					return err
				}
				w.species = name
				return nil
			},
		},
		{
			name:   "Field",
			prompt: "Which field do you want to update? " + fieldList(plants.SpeciesFields()),
			handle: func(in string, _ store.Store) error {
				f, err := plants.ParseSpeciesField(in)
				if err != nil {
					return err
				}
				w.field = &f
				return nil
			},
		},
		{
			name:   "Value",
			prompt: "Please enter the new value (note lists get it appended, prefix with = to replace them)",
			handle: func(in string, s store.Store) error {
				u, err := parse.TryParseSpeciesValue(*w.field, in)
				if err != nil {
					return err
				}
				sp, err := s.GetSpecies(w.species)
				if err != nil {
					return err
				}
				if err := plants.ApplySpecies(sp, *w.field, u); err != nil {
					return err
				}
				w.value = u
				return nil
			},
		},
	}}
	return w
}

// Commit reads the species fresh, applies the value and writes it back.
func (w *UpdateSpecies) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.species != "", "Species Name"),
		need(w.field != nil, "Field"),
		need(w.value != nil, "Value"),
	} {
		if check != nil {
			return "", check
		}
	}

	sp, err := s.GetSpecies(w.species)
	if err != nil {
		return "", err
	}
	if err := plants.ApplySpecies(sp, *w.field, w.value); err != nil {
		return "", err
	}
	if err := s.PutSpecies(*sp); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated %s of %s", *w.field, w.species), nil
}

// --- Lookup species ---

// LookupSpecies shows a species dossier. It writes nothing.
type LookupSpecies struct {
	steps

	species string
}

// NewLookupSpecies starts the lookup_species workflow.
func NewLookupSpecies(Env) *LookupSpecies {
	w := &LookupSpecies{}
	w.steps = steps{name: "lookup_species", list: []step{
		{
			name:   "Species Name",
			prompt: "Please enter species name",
			handle: func(in string, s store.Store) error {
				name, err := parse.SpeciesName(in, s)
				if err != nil {
					return err
				}
				w.species = name
				return nil
			},
		},
	}}
	return w
}

// Commit returns the formatted dossier.
func (w *LookupSpecies) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	if err := need(w.species != "", "Species Name"); err != nil {
		return "", err
	}
	sp, err := s.GetSpecies(w.species)
	if err != nil {
		return "", err
	}
	return plants.FormatSpecies(*sp), nil
}
