package plants

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpecies() Species {
	return Species{
		Name:          "Basil",
		Sunlight:      SunlightDirect,
		TempMin:       5,
		TempMax:       35,
		OptTempMin:    18,
		OptTempMax:    28,
		PHMin:         6,
		PHMax:         7.5,
		WateringNotes: []string{"keep moist"},
	}
}

func TestParseSpeciesField_Spellings(t *testing.T) {
	tests := []struct {
		input string
		want  SpeciesField
	}{
		{"Scientific Name", SpeciesScientificName},
		{"scientificname", SpeciesScientificName},
		{"  AVG watering   days ", SpeciesAvgWateringDays},
		{"avg_watering_days", SpeciesAvgWateringDays},
		{"ph min", SpeciesPHMin},
		{"Companions", SpeciesCompanions},
		{"notes", SpeciesAdditionalNotes},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSpeciesField(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpeciesField_Unknown(t *testing.T) {
	_, err := ParseSpeciesField("colour")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Species field", pe.What)
}

func TestSpeciesFields_EveryFieldHasUniqueSpellings(t *testing.T) {
	seen := map[string]SpeciesField{}
	for _, f := range SpeciesFields() {
		for _, s := range f.Spellings() {
			key := normalizeFieldName(s)
			if prev, ok := seen[key]; ok {
				t.Errorf("spelling %q used by both %s and %s", s, prev, f)
			}
			seen[key] = f
		}
	}
	assert.Len(t, SpeciesFields(), 18)
}

func TestParsePlantField(t *testing.T) {
	got, err := ParsePlantField("auto  water")
	require.NoError(t, err)
	assert.Equal(t, PlantAutoWater, got)

	_, err = ParsePlantField("height")
	assert.Error(t, err)
}

func TestApplySpecies_AppendsNotes(t *testing.T) {
	s := testSpecies()
	err := ApplySpecies(&s, SpeciesWateringNotes, NotesValue{Notes: []string{"less in winter"}, Append: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep moist", "less in winter"}, s.WateringNotes)
}

func TestApplySpecies_ReplacesNotes(t *testing.T) {
	s := testSpecies()
	err := ApplySpecies(&s, SpeciesWateringNotes, NotesValue{Notes: []string{"dry out"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dry out"}, s.WateringNotes)
}

func TestApplySpecies_WrongTypeLeavesRecordUnchanged(t *testing.T) {
	s := testSpecies()
	before := testSpecies()

	err := ApplySpecies(&s, SpeciesTempMin, StringValue("warm"))
	var wt *WrongTypeError
	require.True(t, errors.As(err, &wt))
	assert.Equal(t, "Temp Min", wt.Field)
	assert.Equal(t, before, s)
}

func TestApplySpecies_RejectsInvertedRange(t *testing.T) {
	s := testSpecies()
	err := ApplySpecies(&s, SpeciesTempMin, FloatValue(40))
	var iv *InvalidValueError
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, 5.0, s.TempMin)

	err = ApplySpecies(&s, SpeciesPHMax, FloatValue(5))
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, 7.5, s.PHMax)
}

func TestApplySpecies_OptionalClears(t *testing.T) {
	s := testSpecies()
	days := 3
	s.AvgWateringDays = &days

	require.NoError(t, ApplySpecies(&s, SpeciesAvgWateringDays, OptIntValue{}))
	assert.Nil(t, s.AvgWateringDays)
}

func TestApplyPlant(t *testing.T) {
	p := Plant{Name: "Basil", Notes: []string{"bought cheap"}}
	obtained := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ApplyPlant(&p, PlantObtained, DateValue{Date: obtained}))
	require.NoError(t, ApplyPlant(&p, PlantAutoWater, BoolValue(true)))
	require.NoError(t, ApplyPlant(&p, PlantLocation, StringValue("Kitchen")))
	require.NoError(t, ApplyPlant(&p, PlantSpecies, SpeciesValue{Ref: Resolved("Basil", testSpecies())}))
	require.NoError(t, ApplyPlant(&p, PlantNotes, NotesValue{Notes: []string{"repotted"}, Append: true}))

	assert.Equal(t, obtained, p.Obtained)
	assert.True(t, p.AutoWater)
	assert.Equal(t, "Kitchen", p.Location.Name)
	assert.False(t, p.Location.IsResolved())
	assert.True(t, p.Species.IsResolved())
	assert.Equal(t, []string{"bought cheap", "repotted"}, p.Notes)

	err := ApplyPlant(&p, PlantAutoWater, StringValue("yes"))
	var wt *WrongTypeError
	assert.True(t, errors.As(err, &wt))
	assert.True(t, p.AutoWater)
}
