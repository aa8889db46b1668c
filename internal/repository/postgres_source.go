package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/camera_map/internal/models"
)

// cameraColumns - соответствие колонок таблицы cameras полям исходного файла
var cameraColumns = []struct {
	column string
	field  string
}{
	{"district", models.FieldDistrict},
	{"mandal", models.FieldMandal},
	{"location_name", models.FieldLocationName},
	{"latitude", models.FieldLatitude},
	{"longitude", models.FieldLongitude},
	{"camera_type", models.FieldCameraType},
	{"analytics_type", models.FieldAnalytics},
}

type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string {
	return "postgres:cameras"
}

// Load читает все камеры в порядке вставки. NULL-колонки в строку не попадают.
func (s *PostgresSource) Load(ctx context.Context) ([]models.RawRow, error) {
	query := `
		SELECT
			district,
			mandal,
			location_name,
			latitude,
			longitude,
			camera_type,
			analytics_type
		FROM cameras
		ORDER BY id;
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	result := make([]models.RawRow, 0)
	for rows.Next() {
		values := make([]*string, len(cameraColumns))
		dest := make([]any, len(cameraColumns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan camera row: %w", err)
		}

		row := make(models.RawRow, len(cameraColumns))
		for i, col := range cameraColumns {
			if values[i] != nil {
				row[col.field] = *values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error cameras iteration: %w", err)
	}
	return result, nil
}

// Import заменяет содержимое таблицы cameras переданными записями
func (s *PostgresSource) Import(ctx context.Context, records []models.CameraRecord) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE cameras RESTART IDENTITY;`); err != nil {
		return 0, fmt.Errorf("failed to truncate cameras: %w", err)
	}

	columns := make([]string, len(cameraColumns))
	for i, col := range cameraColumns {
		columns[i] = col.column
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"cameras"}, columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			values := make([]any, len(cameraColumns))
			for j, col := range cameraColumns {
				if v, ok := records[i][col.field]; ok {
					values[j] = v
				}
			}
			return values, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy cameras: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return copied, nil
}
