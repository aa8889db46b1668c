package service

import (
	"fmt"
	"strings"

	"github.com/shenikar/camera_map/internal/models"
)

// TableColumns - фиксированный заголовок таблицы
var TableColumns = []string{"District", "Mandal", "Location Name", "Latitude", "Longitude", "Camera Type", "Analytics"}

// RenderTable строит по одной строке таблицы на запись.
// В названии локации экранируется только '<'.
func RenderTable(records []models.CameraRecord) []models.TableRow {
	rows := make([]models.TableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.TableRow{
			District:     r.District(),
			Mandal:       r.Mandal(),
			LocationName: strings.ReplaceAll(r.LocationName(), "<", "&lt;"),
			Latitude:     r.Latitude(),
			Longitude:    r.Longitude(),
			CameraType:   r.CameraType(),
			Analytics:    r.Analytics(),
		})
	}
	return rows
}

// InfoBarText - подпись с количеством показанных записей
func InfoBarText(count int) string {
	if count == 1 {
		return "Showing 1 record."
	}
	return fmt.Sprintf("Showing %d records.", count)
}
