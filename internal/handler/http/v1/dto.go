package v1

import "github.com/shenikar/camera_map/internal/models"

// ControlChangeRequest DTO для изменения одного выпадающего списка
// @Description DTO для изменения одного выпадающего списка
type ControlChangeRequest struct {
	Value string `json:"value" validate:"max=255"`
}

// FilterRequest DTO для установки всех фильтров сразу
// @Description DTO для установки всех фильтров сразу
type FilterRequest struct {
	District  string `json:"district" validate:"max=255"`
	Mandal    string `json:"mandal" validate:"max=255"`
	Type      string `json:"type" validate:"max=255"`
	Analytics string `json:"analytics" validate:"max=255"`
}

// SelectionResponse DTO с текущими значениями фильтров
type SelectionResponse struct {
	District  string `json:"district"`
	Mandal    string `json:"mandal"`
	Type      string `json:"type"`
	Analytics string `json:"analytics"`
}

// OptionsResponse DTO со списками значений фильтров
// @Description DTO со списками значений фильтров
type OptionsResponse struct {
	Districts []string `json:"districts"`
	Mandals   []string `json:"mandals"`
	Types     []string `json:"types"`
	Analytics []string `json:"analytics"`
}

// MapResponse DTO с состоянием карты
type MapResponse struct {
	Center   models.LatLng    `json:"center"`
	Zoom     int              `json:"zoom"`
	Markers  []models.Marker  `json:"markers"`
	Clusters []models.Cluster `json:"clusters"`
}

// StatsResponse DTO с итогами последней отрисовки маркеров
type StatsResponse struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// ViewResponse DTO с полным состоянием страницы
// @Description DTO с полным состоянием страницы
type ViewResponse struct {
	SessionID string            `json:"session_id"`
	Ready     bool              `json:"ready"`
	InfoBar   string            `json:"info_bar"`
	Columns   []string          `json:"columns"`
	Options   OptionsResponse   `json:"options"`
	Selection SelectionResponse `json:"selection"`
	Table     []models.TableRow `json:"table"`
	Map       MapResponse       `json:"map"`
	Stats     StatsResponse     `json:"stats"`
}

// DiagnosticsResponse DTO со сводкой по набору данных
// @Description DTO со сводкой по набору данных
type DiagnosticsResponse struct {
	Source    string `json:"source"`
	Ready     bool   `json:"ready"`
	Records   int    `json:"records"`
	Valid     int    `json:"valid"`
	Invalid   int    `json:"invalid"`
	LoadError string `json:"load_error,omitempty"`
}

// HealthResponse DTO для health-check
type HealthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}
