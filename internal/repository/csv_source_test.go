package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffDISTRICT,MANDAL,LOCATION NAME, LATITUDE ,LONGITUDE,TYPE OF CAMERA,Type Of Analytics\n" +
	"Guntur,Tenali,\"Bus Stand, Main Road\",16.24,80.64,ANPR,ANPR\n" +
	"\n" +
	"Krishna,Vijayawada,Benz Circle,16.50\n"

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Guntur", rows[0]["DISTRICT"])
	assert.Equal(t, "Bus Stand, Main Road", rows[0]["LOCATION NAME"])
	// ключи заголовка не обрезаются на этом этапе
	assert.Equal(t, "16.24", rows[0][" LATITUDE "])

	assert.Equal(t, "16.50", rows[1][" LATITUDE "])
	_, ok := rows[1]["LONGITUDE"]
	assert.False(t, ok)
}

func TestReadRows_EmptyInput(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	src := NewCSVSource(path)
	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "csv:"+path, src.Name())
	assert.IsType(t, models.RawRow{}, rows[0])
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to open csv file")
}
