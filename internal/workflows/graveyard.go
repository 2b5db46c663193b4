package workflows

import (
	"fmt"
	"time"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// MoveToGraveyard retires a plant.
type MoveToGraveyard struct {
	steps
	env Env

	plant  string
	died   *time.Time
	reason string
}

// NewMoveToGraveyard starts the move_to_graveyard workflow.
func NewMoveToGraveyard(env Env) *MoveToGraveyard {
	w := &MoveToGraveyard{env: env}
	w.steps = steps{name: "move_to_graveyard", list: []step{
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
			name:   "Died",
			prompt: env.datePrompt("the date the plant died"),
			handle: func(in string, _ store.Store) error {
				d, err := parse.Date(in, env.layout())
				if err != nil {
					return err
				}
				w.died = &d
				return nil
			},
		},
		{
			name:   "Reason",
			prompt: "Please enter the reason",
			handle: func(in string, _ store.Store) error {
				r, err := parse.Text(in, "Reason")
				if err != nil {
					return err
				}
				w.reason = r
				return nil
			},
		},
	}}
	return w
}

// Commit builds the graveyard entry from the live plant and kills it.
func (w *MoveToGraveyard) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.plant != "", "Plant Name"),
		need(w.died != nil, "Died"),
		need(w.reason != "", "Reason"),
	} {
		if check != nil {
			return "", check
		}
	}

	p, err := s.GetPlant(w.plant)
	if err != nil {
		return "", err
	}
	entry := plants.GraveyardEntry{
		Name:    p.Name,
		Species: p.Species.Name,
		Planted: p.Obtained,
		Died:    *w.died,
		Reason:  w.reason,
	}
	if err := s.KillPlant(entry); err != nil {
		return "", err
	}
	return fmt.Sprintf("Moved %s to the graveyard (died %s)", p.Name, w.env.FormatDate(entry.Died)), nil
}
