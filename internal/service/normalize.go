package service

import (
	"strings"

	"github.com/shenikar/camera_map/internal/models"
)

// NormalizeRows приводит сырые строки источника к каноническому виду:
// ключи и значения обрезаются, из координат удаляется все, кроме цифр, точки и минуса.
func NormalizeRows(rows []models.RawRow) []models.CameraRecord {
	records := make([]models.CameraRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, NormalizeRow(row))
	}
	return records
}

// NormalizeRow нормализует одну строку
func NormalizeRow(row models.RawRow) models.CameraRecord {
	record := make(models.CameraRecord, len(row))
	for k, v := range row {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == models.FieldLatitude || key == models.FieldLongitude {
			val = stripCoordinate(val)
		}
		record[key] = val
	}
	return record
}

func stripCoordinate(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}
