package workflows

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// NewLocation creates a location.
type NewLocation struct {
	steps

	name    string
	outside *bool
}

// NewNewLocation starts the new_location workflow.
func NewNewLocation(Env) *NewLocation {
	w := &NewLocation{}
	w.steps = steps{name: "new_location", list: []step{
		{
			name:   "Location Name",
			prompt: "Please enter the name of the new location",
			handle: func(in string, s store.Store) error {
				name, err := parse.Text(in, "Location Name")
				if err != nil {
					return err
				}
				_, err = s.GetLocation(name)
				var nf *plants.NotFoundError
				switch {
				case err == nil:
					return &plants.ConflictError{Kind: plants.KindLocation, Name: name}
				case !errors.As(err, &nf):
					return err
				}
				w.name = name
				return nil
			},
		},
		{
			name:   "Outside",
			prompt: "Is the location outside? (y/n)",
			handle: func(in string, _ store.Store) error {
				b, err := parse.Bool(in)
				if err != nil {
					return err
				}
				w.outside = &b
				return nil
			},
		},
	}}
	return w
}

// Commit writes the location.
func (w *NewLocation) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	if err := need(w.name != "", "Location Name"); err != nil {
		return "", err
	}
	if err := need(w.outside != nil, "Outside"); err != nil {
		return "", err
	}
	if err := s.PutLocation(plants.Location{Name: w.name, Outside: *w.outside}); err != nil {
		return "", err
	}
	where := "inside"
	if *w.outside {
		where = "outside"
	}
	return fmt.Sprintf("Added location %s (%s)", w.name, where), nil
}
