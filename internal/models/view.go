package models

import (
	"time"
)

// Selection - текущие значения четырех фильтров. Пустая строка означает "не выбрано".
type Selection struct {
	District  string `json:"district"`
	Mandal    string `json:"mandal"`
	Type      string `json:"type"`
	Analytics string `json:"analytics"`
}

// IsEmpty сообщает, что ни один фильтр не выбран
func (s Selection) IsEmpty() bool {
	return s == Selection{}
}

// FilterOptions - отсортированные списки значений для выпадающих списков
type FilterOptions struct {
	Districts []string `json:"districts"`
	Mandals   []string `json:"mandals"`
	Types     []string `json:"types"`
	Analytics []string `json:"analytics"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport - центр и зум карты
type Viewport struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// Icon описывает иконку маркера
type Icon struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int    `json:"size"`
}

// Marker - точка на карте с иконкой и всплывающим окном
type Marker struct {
	Position LatLng `json:"position"`
	Title    string `json:"title"`
	Icon     Icon   `json:"icon"`
	Popup    string `json:"popup"`
}

// Cluster - группа маркеров, слитых в одну ячейку сетки на текущем зуме
type Cluster struct {
	Center  LatLng `json:"center"`
	Count   int    `json:"count"`
	Members []int  `json:"members"`
}

// MarkerStats - диагностика последней отрисовки маркеров
type MarkerStats struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// TableRow - строка таблицы с камерами
type TableRow struct {
	District     string `json:"district"`
	Mandal       string `json:"mandal"`
	LocationName string `json:"location_name"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	CameraType   string `json:"camera_type"`
	Analytics    string `json:"analytics"`
}

// MapView - состояние карты после цикла отрисовки
type MapView struct {
	Viewport Viewport  `json:"viewport"`
	Markers  []Marker  `json:"markers"`
	Clusters []Cluster `json:"clusters"`
}

// View - все, что получает клиент после обработки события
type View struct {
	SessionID string        `json:"session_id"`
	Ready     bool          `json:"ready"`
	InfoBar   string        `json:"info_bar"`
	Options   FilterOptions `json:"options"`
	Selection Selection     `json:"selection"`
	Table     []TableRow    `json:"table"`
	Map       MapView       `json:"map"`
	Stats     MarkerStats   `json:"stats"`
}

// SessionState - состояние одной открытой страницы
type SessionState struct {
	// Selection - значения элементов управления, Applied - фильтр, с которым построена последняя отрисовка
	Selection    Selection `json:"selection"`
	Applied      Selection `json:"applied"`
	InitialLoad  bool      `json:"initial_load"`
	TableVisible bool      `json:"table_visible"`
	Viewport     Viewport  `json:"viewport"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Diagnostics - сводка по загруженному набору данных
type Diagnostics struct {
	Source    string `json:"source"`
	Records   int    `json:"records"`
	Valid     int    `json:"valid"`
	Invalid   int    `json:"invalid"`
	LoadError string `json:"load_error,omitempty"`
}
