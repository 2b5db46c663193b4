package workflows

import (
	"fmt"
	"time"

	"github.com/HendryAvila/plantbot/internal/parse"
	"github.com/HendryAvila/plantbot/internal/plants"
	"github.com/HendryAvila/plantbot/internal/store"
)

// --- Water / fertilize a list of plants ---

// PlantsActivity records one activity (watering or fertilizing) for a list
// of plants on a date.
type PlantsActivity struct {
	steps
	env      Env
	activity string
	verb     string

	date   *time.Time
	plants []string
}

// NewWaterPlants starts the water workflow.
func NewWaterPlants(env Env) *PlantsActivity {
	return newPlantsActivity("water", plants.ActivityWatering, "Watered", env)
}

// NewFertilizePlants starts the fertilize workflow.
func NewFertilizePlants(env Env) *PlantsActivity {
	return newPlantsActivity("fertilize", plants.ActivityFertilizing, "Fertilized", env)
}

func newPlantsActivity(name, activity, verb string, env Env) *PlantsActivity {
	w := &PlantsActivity{env: env, activity: activity, verb: verb}
	w.steps = steps{name: name, list: []step{
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
	}}
	return w
}

// Commit appends one activity per plant in a single call.
func (w *PlantsActivity) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	if err := need(w.date != nil, "Date"); err != nil {
		return "", err
	}
	if err := need(len(w.plants) > 0, "Plant Names"); err != nil {
		return "", err
	}
	if err := s.AppendActivities(activitiesFor(w.plants, *w.date, w.activity, nil)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s on %s", w.verb, joinNames(w.plants), w.env.FormatDate(*w.date)), nil
}

// --- Water a location ---

// WaterLocation waters every plant in a location.
type WaterLocation struct {
	steps
	env Env

	date     *time.Time
	location string
}

// NewWaterLocation starts the water_location workflow.
func NewWaterLocation(env Env) *WaterLocation {
	w := &WaterLocation{env: env}
	w.steps = steps{name: "water_location", list: []step{
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
			name:   "Location Name",
			prompt: "Please enter location name",
			handle: func(in string, s store.Store) error {
				name, err := parse.LocationName(in, s)
				if err != nil {
					return err
				}
				w.location = name
				return nil
			},
		},
	}}
	return w
}

// Commit waters the plants currently in the location.
func (w *WaterLocation) Commit(s store.Store) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	if err := need(w.date != nil, "Date"); err != nil {
		return "", err
	}
	if err := need(w.location != "", "Location Name"); err != nil {
		return "", err
	}

	ps, err := s.PlantsByLocation(w.location)
	if err != nil {
		return "", err
	}
	if len(ps) == 0 {
		return fmt.Sprintf("No plants in %s", w.location), nil
	}
	names := plantNames(ps)
	if err := s.AppendActivities(activitiesFor(names, *w.date, plants.ActivityWatering, nil)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Watered %s in %s on %s", joinNames(names), w.location, w.env.FormatDate(*w.date)), nil
}

// --- Rain ---

// Rain waters every plant in an outside location, dated today.
type Rain struct {
	steps
	env Env
}

// NewRain starts the rain workflow. It has no steps and is done immediately.
func NewRain(env Env) *Rain {
	return &Rain{steps: steps{name: "rain"}, env: env}
}

// Commit waters all outside plants.
func (w *Rain) Commit(s store.Store) (string, error) {
	locs, err := s.ListLocations()
	if err != nil {
		return "", err
	}
	var names []string
	for _, l := range locs {
		if !l.Outside {
			continue
		}
		ps, err := s.PlantsByLocation(l.Name)
		if err != nil {
			return "", err
		}
		names = append(names, plantNames(ps)...)
	}
	if len(names) == 0 {
		return "No outside plants to water", nil
	}

	date := today()
	if err := s.AppendActivities(activitiesFor(names, date, plants.ActivityWatering, nil)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Rain watered %s on %s", joinNames(names), w.env.FormatDate(date)), nil
}

func plantNames(ps []plants.Plant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
