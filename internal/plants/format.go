package plants

import (
	"fmt"
	"strconv"
	"strings"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNotes(notes []string) string {
	if len(notes) == 0 {
		return "-"
	}
	return strings.Join(notes, ", ")
}

// FormatSpecies renders a human-readable dossier of a species.
func FormatSpecies(s Species) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", s.Name, s.ScientificName)
	fmt.Fprintf(&b, "Genus: %s\n", s.Genus)
	fmt.Fprintf(&b, "Family: %s\n", s.Family)
	fmt.Fprintf(&b, "Sunlight: %s\n", s.Sunlight)
	fmt.Fprintf(&b, "Temperature: %s - %s °C (optimal %s - %s °C)\n",
		formatFloat(s.TempMin), formatFloat(s.TempMax),
		formatFloat(s.OptTempMin), formatFloat(s.OptTempMax))
	fmt.Fprintf(&b, "pH: %s - %s\n", formatFloat(s.PHMin), formatFloat(s.PHMax))
	if s.PlantingDistance != nil {
		fmt.Fprintf(&b, "Planting distance: %s cm\n", formatFloat(*s.PlantingDistance))
	}
	if s.AvgWateringDays != nil {
		fmt.Fprintf(&b, "Water every %d days\n", *s.AvgWateringDays)
	}
	fmt.Fprintf(&b, "Watering notes: %s\n", formatNotes(s.WateringNotes))
	if s.AvgFertilizingDays != nil {
		fmt.Fprintf(&b, "Fertilize every %d days\n", *s.AvgFertilizingDays)
	}
	fmt.Fprintf(&b, "Fertilizing notes: %s\n", formatNotes(s.FertilizingNotes))
	fmt.Fprintf(&b, "Pruning notes: %s\n", formatNotes(s.PruningNotes))
	fmt.Fprintf(&b, "Companions: %s\n", formatNotes(s.Companions))
	fmt.Fprintf(&b, "Additional notes: %s", formatNotes(s.AdditionalNotes))
	return b.String()
}
