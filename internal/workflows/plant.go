package workflows

import (
	"errors"
	"fmt"
	"time"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// initialHealth is the health of the first growth sample of a new plant.
const initialHealth = 3

// --- New plant ---

// NewPlant creates a plant and its first growth sample.
type NewPlant struct {
	steps

	name      string
	species   string
	height    *float64
	width     *float64
	location  string
	autoWater *bool
	origin    string
	obtained  *time.Time
	notes     []string
	notesSet  bool
}

// NewNewPlant starts the new_plant workflow.
func NewNewPlant(env Env) *NewPlant {
	w := &NewPlant{}
	w.steps = steps{name: "new_plant", list: []step{
		{
			name:   "Plant Name",
			prompt: "Please enter the name of the new plant",
			handle: func(in string, s store.Store) error {
				name, err := parse.Text(in, "Plant Name")
				if err != nil {
					return err
				}
				if err := s.CheckNewPlantName(name); err != nil {
					return err
				}
				w.name = name
				return nil
			},
		},
		{
			name:   "Species Name",
			prompt: "Please enter species name",
			handle: func(in string, s store.Store) error {
				name, err := speciesOrRaw(in, s)
				if err != nil {
					return err
				}
				w.species = name
				return nil
			},
		},
		{
			name:   "Height",
			prompt: "Please enter height (cm)",
			handle: func(in string, _ store.Store) error {
				h, err := parse.Float(in, "Height")
				if err != nil {
					return err
				}
				w.height = &h
				return nil
			},
		},
		{
			name:   "Width",
			prompt: "Please enter width (cm)",
			handle: func(in string, _ store.Store) error {
				v, err := parse.Float(in, "Width")
				if err != nil {
					return err
				}
				w.width = &v
				return nil
			},
		},
		{
			name:   "Location Name",
			prompt: "Please enter location name",
			handle: func(in string, s store.Store) error {
				name, err := parse.LocationName(in, s)
				var nf *plants.NotFoundError
				if errors.As(err, &nf) {
					// Unknown locations are kept by name.
					name, err = in, nil
				}
				if err != nil {
					return err
				}
				w.location = name
				return nil
			},
		},
		{
			name:   "Auto Water",
			prompt: "Is the plant autowatered? (y/n)",
			handle: func(in string, _ store.Store) error {
				b, err := parse.Bool(in)
				if err != nil {
					return err
				}
				w.autoWater = &b
				return nil
			},
		},
		{
			name:   "Origin",
			prompt: "Please enter the origin of the plant",
			handle: func(in string, _ store.Store) error {
				o, err := parse.Text(in, "Origin")
				if err != nil {
					return err
				}
				w.origin = o
				return nil
			},
		},
		{
			name:   "Obtained",
			prompt: env.datePrompt("the date the plant was obtained"),
			handle: func(in string, _ store.Store) error {
				d, err := parse.Date(in, env.layout())
				if err != nil {
					return err
				}
				w.obtained = &d
				return nil
			},
		},
		{
			name:   "Notes",
			prompt: "Please enter notes, separated by commas, or Done",
			handle: func(in string, _ store.Store) error {
				w.notes = parse.Notes(in)
				w.notesSet = true
				return nil
			},
		},
	}}
	return w
}

// speciesOrRaw resolves a species name and falls back to the typed name so
// a plant may reference a species that has no record yet.
func speciesOrRaw(in string, s store.Store) (string, error) {
	name, err := parse.SpeciesName(in, s)
	var nf *plants.NotFoundError
	if errors.As(err, &nf) {
		return in, nil
	}
	return name, err
}

// Commit writes the plant, then its first growth sample.
func (w *NewPlant) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.name != "", "Plant Name"),
		need(w.species != "", "Species Name"),
		need(w.height != nil, "Height"),
		need(w.width != nil, "Width"),
		need(w.location != "", "Location Name"),
		need(w.autoWater != nil, "Auto Water"),
		need(w.origin != "", "Origin"),
		need(w.obtained != nil, "Obtained"),
		need(w.notesSet, "Notes"),
	} {
		if check != nil {
			return "", check
		}
	}

	p := plants.Plant{
		Name:      w.name,
		Species:   plants.Dangling[plants.Species](w.species),
		Location:  plants.Dangling[plants.Location](w.location),
		Origin:    w.origin,
		Obtained:  *w.obtained,
		AutoWater: *w.autoWater,
		Notes:     w.notes,
	}
	if err := s.PutPlant(p); err != nil {
		return "", err
	}
	sample := plants.GrowthSample{
		Plant:  w.name,
		Date:   *w.obtained,
		Height: *w.height,
		Width:  *w.width,
		Health: initialHealth,
	}
	if err := s.AppendGrowth([]plants.GrowthSample{sample}); err != nil {
		return "", fmt.Errorf("plant %q saved but first growth sample failed: %w", w.name, err)
	}
	return fmt.Sprintf("Added %s (%s) in %s", w.name, w.species, w.location), nil
}

// --- Update plant ---

// UpdatePlant changes one field of a plant.
type UpdatePlant struct {
	steps

	plant string
	field *plants.PlantField
	value plants.FieldUpdate
}

// NewUpdatePlant starts the update_plant workflow.
func NewUpdatePlant(env Env) *UpdatePlant {
	w := &UpdatePlant{}
	w.steps = steps{name: "update_plant", list: []step{
		{
			name:   "Plant Name",
			prompt: "Please enter plant name",
			handle: func(in string, s store.Store) error {
				name, err := parse.PlantName(in, s)
				if err != nil {
					return err
				}
				w.plant = name
				return nil
			},
		},
		{
			name:   "Field",
			prompt: "Which field do you want to update? " + fieldList(plants.PlantFields()),
			handle: func(in string, _ store.Store) error {
				f, err := plants.ParsePlantField(in)
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
				u, err := parse.TryParsePlantValue(*w.field, in, env.layout(), s)
				if err != nil {
					return err
				}
				p, err := s.GetPlant(w.plant)
				if err != nil {
					return err
				}
				if err := plants.ApplyPlant(p, *w.field, u); err != nil {
					return err
				}
				w.value = u
				return nil
			},
		},
	}}
	return w
}

// Commit reads the plant fresh, applies the value and writes it back.
func (w *UpdatePlant) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.plant != "", "Plant Name"),
		need(w.field != nil, "Field"),
		need(w.value != nil, "Value"),
	} {
		if check != nil {
			return "", check
		}
	}

	p, err := s.GetPlant(w.plant)
	if err != nil {
		return "", err
	}
	if err := plants.ApplyPlant(p, *w.field, w.value); err != nil {
		return "", err
	}
	if err := s.PutPlant(*p); err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated %s of %s", *w.field, w.plant), nil
}

func fieldList[F fmt.Stringer](fields []F) string {
	var names []string
	for _, f := range fields {
		names = append(names, f.String())
	}
	return "(" + joinNames(names) + ")"
}
