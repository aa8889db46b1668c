package service

import (
	"testing"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []models.CameraRecord {
	return []models.CameraRecord{
		{"DISTRICT": "Guntur", "MANDAL": "Tenali", "LOCATION NAME": "Bus Stand", "LATITUDE": "16.24", "LONGITUDE": "80.64", "TYPE OF CAMERA": "anpr", "Type Of Analytics": "ANPR"},
		{"DISTRICT": "Krishna", "MANDAL": "Vijayawada", "LOCATION NAME": "Benz Circle", "LATITUDE": "16.50", "LONGITUDE": "80.65", "TYPE OF CAMERA": "PTZ"},
		{"DISTRICT": "Guntur", "MANDAL": "Mangalagiri", "LOCATION NAME": "Temple Road", "LATITUDE": "16.43", "LONGITUDE": "80.56", "TYPE OF CAMERA": "FIXED", "Type Of Analytics": "frs"},
		{"DISTRICT": "Krishna", "MANDAL": "Machilipatnam", "LOCATION NAME": "Port", "LATITUDE": "bad", "LONGITUDE": "81.13", "TYPE OF CAMERA": "ANPR"},
		{"DISTRICT": "Guntur", "MANDAL": "Tenali", "LOCATION NAME": "Market", "LATITUDE": "16.23", "LONGITUDE": "80.63"},
	}
}

func TestPopulateFilters(t *testing.T) {
	opts := PopulateFilters(testRecords())

	assert.Equal(t, []string{"Guntur", "Krishna"}, opts.Districts)
	assert.Equal(t, []string{"Machilipatnam", "Mangalagiri", "Tenali", "Vijayawada"}, opts.Mandals)
	assert.Equal(t, []string{"ANPR", "FIXED", "PTZ"}, opts.Types)
	assert.Equal(t, []string{"ANPR", "FRS"}, opts.Analytics)
}

func TestFilter_EmptySelectionReturnsFullSetInOrder(t *testing.T) {
	records := testRecords()
	store := NewFilterStore(records)

	assert.Equal(t, records, store.Filter(models.Selection{}))
}

func TestFilter_ResultIsOrderedSubset(t *testing.T) {
	records := testRecords()
	store := NewFilterStore(records)

	selections := []models.Selection{
		{District: "Guntur"},
		{District: "Guntur", Mandal: "Tenali"},
		{Type: "ANPR"},
		{Analytics: "FRS"},
		{District: "Krishna", Type: "FIXED"},
		{District: "Nowhere"},
	}
	for _, sel := range selections {
		filtered := store.Filter(sel)
		// каждая запись результата встречается в исходном наборе, порядок сохранен
		pos := 0
		for _, rec := range filtered {
			for pos < len(records) && !assert.ObjectsAreEqual(records[pos], rec) {
				pos++
			}
			require.Less(t, pos, len(records), "record %v is not an ordered member of the source", rec)
			pos++
		}
	}
}

func TestFilter_CaseInsensitiveType(t *testing.T) {
	store := NewFilterStore(testRecords())

	filtered := store.Filter(models.Selection{Type: "ANPR"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "anpr", filtered[0].CameraType())
	assert.Equal(t, "Port", filtered[1].LocationName())
}

func TestFilter_EmptyFieldNeverMatchesSelection(t *testing.T) {
	store := NewFilterStore(testRecords())

	for _, rec := range store.Filter(models.Selection{Analytics: "ANPR"}) {
		assert.NotEmpty(t, rec.Analytics())
	}
	assert.Len(t, store.Filter(models.Selection{Analytics: "ANPR"}), 1)
}

func TestMandalOptions_Cascading(t *testing.T) {
	store := NewFilterStore(testRecords())

	res := store.OnFilterChange(models.Selection{District: "Guntur"})
	assert.Equal(t, []string{"Mangalagiri", "Tenali"}, res.MandalOptions)
	assert.Len(t, res.Tabled, 3)
	assert.Equal(t, res.Mapped, res.Tabled)

	res = store.OnFilterChange(models.Selection{})
	assert.Equal(t, []string{"Machilipatnam", "Mangalagiri", "Tenali", "Vijayawada"}, res.MandalOptions)
}

func TestResetFilters_MapFullTableEmpty(t *testing.T) {
	records := testRecords()
	store := NewFilterStore(records)

	res := store.ResetFilters()
	assert.Equal(t, records, res.Mapped)
	assert.Empty(t, res.Tabled)
	assert.Equal(t, store.Options().Mandals, res.MandalOptions)
}
