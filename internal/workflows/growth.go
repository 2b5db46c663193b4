package workflows

import (
	"fmt"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// HealthPrompt is asked at every health step.
const HealthPrompt = "Please enter health (0-5)"

// NewGrowth records one growth sample, dated today.
type NewGrowth struct {
	steps

	plant   string
	height  *float64
	width   *float64
	health  *int
	note    *string
	noteSet bool
}

// NewNewGrowth starts the new_growth workflow.
func NewNewGrowth(Env) *NewGrowth {
	w := &NewGrowth{}
	w.steps = steps{name: "new_growth", list: []step{
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
			name:   "Health",
			prompt: HealthPrompt,
			handle: func(in string, _ store.Store) error {
				h, err := parse.Health(in)
				if err != nil {
					return err
				}
				w.health = &h
				return nil
			},
		},
		{
			name:   "Note",
			prompt: "Please enter a note or Done",
			handle: func(in string, _ store.Store) error {
				w.note = parse.Note(in)
				w.noteSet = true
				return nil
			},
		},
	}}
	return w
}

// Commit appends the sample.
func (w *NewGrowth) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.plant != "", "Plant Name"),
		need(w.height != nil, "Height"),
		need(w.width != nil, "Width"),
		need(w.health != nil, "Health"),
		need(w.noteSet, "Note"),
	} {
		if check != nil {
			return "", check
		}
	}

	sample := plants.GrowthSample{
		Plant:  w.plant,
		Date:   today(),
		Height: *w.height,
		Width:  *w.width,
		Health: *w.health,
		Note:   w.note,
	}
	if err := s.AppendGrowth([]plants.GrowthSample{sample}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Recorded growth for %s: %s x %s cm, health %d",
		w.plant, formatCm(sample.Height), formatCm(sample.Width), sample.Health), nil
}
