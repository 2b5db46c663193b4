package workflows

import (
	"fmt"
	"time"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/store"
)

// NewActivity records a free-form activity for a list of plants.
type NewActivity struct {
	steps
	env Env

	date     *time.Time
	activity string
	plants   []string
	note     *string
	noteSet  bool
}

// NewNewActivity starts the new_activity workflow.
func NewNewActivity(env Env) *NewActivity {
	w := &NewActivity{env: env}
	w.steps = steps{name: "new_activity", list: []step{
		{
			name:   "Date",
			prompt: env.datePrompt("the date"),
			handle: func(in string, _ store.Store) error {
				d, err := parse.Date(in, env.layout())
				if err != nil {
					return err
				}
				w.date = &d
				return nil
			},
		},
		{
			name:   "Activity",
			prompt: "Please enter activity name",
			handle: func(in string, _ store.Store) error {
				a, err := parse.Text(in, "Activity")
				if err != nil {
					return err
				}
				w.activity = a
				return nil
			},
		},
		{
			name:   "Plant Names",
			prompt: "Please enter plant names, separated by commas",
			handle: func(in string, s store.Store) error {
				names, err := parse.PlantNames(in, s)
				if err != nil {
					return err
				}
				w.plants = names
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

// Commit appends one activity per plant.
func (w *NewActivity) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	for _, check := range []error{
		need(w.date != nil, "Date"),
		need(w.activity != "", "Activity"),
		need(len(w.plants) > 0, "Plant Names"),
		need(w.noteSet, "Note"),
	} {
		if check != nil {
			return "", check
		}
	}
	if err := s.AppendActivities(activitiesFor(w.plants, *w.date, w.activity, w.note)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Recorded %s for %s on %s", w.activity, joinNames(w.plants), w.env.FormatDate(*w.date)), nil
}
