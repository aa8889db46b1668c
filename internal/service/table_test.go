package service

import (
	"testing"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	rows := RenderTable([]models.CameraRecord{
		{"DISTRICT": "X", "MANDAL": "A", "LOCATION NAME": "<script>a & b</script>", "LATITUDE": "12.5", "LONGITUDE": "77.5", "TYPE OF CAMERA": "anpr", "Type Of Analytics": "ANPR"},
		{"DISTRICT": "Y"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, models.TableRow{
		District:     "X",
		Mandal:       "A",
		LocationName: "&lt;script>a & b&lt;/script>",
		Latitude:     "12.5",
		Longitude:    "77.5",
		CameraType:   "anpr",
		Analytics:    "ANPR",
	}, rows[0])
	assert.Equal(t, models.TableRow{District: "Y"}, rows[1])
}

func TestRenderTable_EmptyIsNotNil(t *testing.T) {
	rows := RenderTable(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestInfoBarText(t *testing.T) {
	assert.Equal(t, "Showing 0 records.", InfoBarText(0))
	assert.Equal(t, "Showing 1 record.", InfoBarText(1))
	assert.Equal(t, "Showing 25 records.", InfoBarText(25))
}

func TestTableColumns(t *testing.T) {
	assert.Len(t, TableColumns, 7)
}
