package repository

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/service"
)

type CSVSource struct {
	path string
}

func NewCSVSource(path string) service.DataSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

// Load читает файл целиком. Первая строка - заголовок.
func (s *CSVSource) Load(ctx context.Context) ([]models.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	rows, err := ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file %s: %w", s.path, err)
	}
	return rows, nil
}

// ReadRows разбирает CSV с заголовком в строки "колонка -> значение".
// Пустые строки пропускаются, колонки сверх заголовка отбрасываются,
// недостающие колонки в строку не попадают.
func ReadRows(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.RawRow{}, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]models.RawRow, 0)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isBlank(fields) {
			continue
		}

		row := make(models.RawRow, len(header))
		for i, name := range header {
			if i >= len(fields) {
				break
			}
			row[name] = fields[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(fields []string) bool {
	return len(fields) == 0 || (len(fields) == 1 && fields[0] == "")
}
