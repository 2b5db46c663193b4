package commands

import "github.com/HendryAvila/plantbot/internal/workflows"

// Command tokens.
const (
	CmdHelp            = "help"
	CmdWater           = "water"
	CmdFertilize       = "fertilize"
	CmdRain            = "rain"
	CmdWaterLocation   = "water_location"
	CmdNewGrowth       = "new_growth"
	CmdNewPlant        = "new_plant"
	CmdNewSpecies      = "new_species"
	CmdNewActivity     = "new_activity"
	CmdUpdateSpecies   = "update_species"
	CmdUpdatePlant     = "update_plant"
	CmdToday           = "today"
	CmdMoveToGraveyard = "move_to_graveyard"
	CmdAbort           = "abort"
	CmdPush            = "push"
	CmdCheckLogs       = "check_logs"
	CmdExit            = "exit"
	CmdLookupSpecies   = "lookup_species"
	CmdNewLocation     = "new_location"
)

type starter func(workflows.Env) workflows.Workflow

type command struct {
	name  string
	desc  string
	start starter
}

// commandList is in help order.
var commandList = []command{
	{CmdHelp, "show this list of commands", nil},
	{CmdWater, "water plants", func(e workflows.Env) workflows.Workflow { return workflows.NewWaterPlants(e) }},
	{CmdFertilize, "fertilize plants", func(e workflows.Env) workflows.Workflow { return workflows.NewFertilizePlants(e) }},
	{CmdRain, "water every plant in an outside location", func(e workflows.Env) workflows.Workflow { return workflows.NewRain(e) }},
	{CmdWaterLocation, "water every plant in a location", func(e workflows.Env) workflows.Workflow { return workflows.NewWaterLocation(e) }},
	{CmdNewGrowth, "record a growth measurement", func(e workflows.Env) workflows.Workflow { return workflows.NewNewGrowth(e) }},
	{CmdNewPlant, "add a new plant", func(e workflows.Env) workflows.Workflow { return workflows.NewNewPlant(e) }},
	{CmdNewSpecies, "add a new species", func(e workflows.Env) workflows.Workflow { return workflows.NewNewSpecies(e) }},
	{CmdNewActivity, "record an activity for plants", func(e workflows.Env) workflows.Workflow { return workflows.NewNewActivity(e) }},
	{CmdUpdateSpecies, "change a field of a species", func(e workflows.Env) workflows.Workflow { return workflows.NewUpdateSpecies(e) }},
	{CmdUpdatePlant, "change a field of a plant", func(e workflows.Env) workflows.Workflow { return workflows.NewUpdatePlant(e) }},
	{CmdToday, "enter today's date", nil},
	{CmdMoveToGraveyard, "move a dead plant to the graveyard", func(e workflows.Env) workflows.Workflow { return workflows.NewMoveToGraveyard(e) }},
	{CmdAbort, "cancel the running action", nil},
	{CmdPush, "commit and push the data repository", nil},
	{CmdCheckLogs, "show the latest log lines", nil},
	{CmdExit, "stop the bot", nil},
	{CmdLookupSpecies, "show everything known about a species", func(e workflows.Env) workflows.Workflow { return workflows.NewLookupSpecies(e) }},
	{CmdNewLocation, "add a new location", func(e workflows.Env) workflows.Workflow { return workflows.NewNewLocation(e) }},
}

var commandIndex = func() map[string]command {
	m := make(map[string]command, len(commandList))
	for _, c := range commandList {
		m[c.name] = c
	}
	return m
}()

// Names returns every command token in help order.
func Names() []string {
	out := make([]string, len(commandList))
	for i, c := range commandList {
		out[i] = c.name
	}
	return out
}
