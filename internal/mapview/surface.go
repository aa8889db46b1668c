// Package mapview - серверная реализация поверхности карты: вьюпорт, маркеры и их кластеризация.
// Клиент получает готовое состояние и только рисует его.
package mapview

import (
	"math"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/twpayne/go-geom"
)

const MaxZoom = 21

// Options - размеры карты в пикселях и радиус кластера
type Options struct {
	WidthPx         int
	HeightPx        int
	ClusterRadiusPx float64
}

// Surface хранит вьюпорт и текущий набор маркеров одной страницы
type Surface struct {
	opts     Options
	viewport models.Viewport
	markers  []models.Marker
}

// New создает поверхность с заданным начальным вьюпортом
func New(opts Options, viewport models.Viewport) *Surface {
	return &Surface{
		opts:     opts,
		viewport: viewport,
	}
}

// ClearMarkers убирает все маркеры и кластер
func (s *Surface) ClearMarkers() {
	s.markers = nil
}

// AddMarkers добавляет маркеры в кластеризуемый слой
func (s *Surface) AddMarkers(markers []models.Marker) {
	s.markers = append(s.markers, markers...)
}

// Markers возвращает маркеры в порядке добавления
func (s *Surface) Markers() []models.Marker {
	return s.markers
}

func (s *Surface) Viewport() models.Viewport {
	return s.viewport
}

func (s *Surface) Zoom() int {
	return s.viewport.Zoom
}

func (s *Surface) SetZoom(zoom int) {
	s.viewport.Zoom = clampZoom(zoom)
}

// SetCenter перемещает карту в точку с заданным зумом
func (s *Surface) SetCenter(center models.LatLng, zoom int) {
	s.viewport = models.Viewport{Center: center, Zoom: clampZoom(zoom)}
}

// FitBounds подбирает максимальный зум, при котором прямоугольник целиком виден,
// и центрирует карту на нем. X - долгота, Y - широта.
func (s *Surface) FitBounds(bounds *geom.Bounds) {
	if bounds == nil || bounds.IsEmpty() {
		return
	}
	minLng, minLat := bounds.Min(0), bounds.Min(1)
	maxLng, maxLat := bounds.Max(0), bounds.Max(1)

	x0, y0 := project(maxLat, minLng)
	x1, y1 := project(minLat, maxLng)
	dx, dy := x1-x0, y1-y0

	zoom := MaxZoom
	scale := math.Inf(1)
	if dx > 0 {
		scale = math.Min(scale, float64(s.opts.WidthPx)/dx)
	}
	if dy > 0 {
		scale = math.Min(scale, float64(s.opts.HeightPx)/dy)
	}
	if !math.IsInf(scale, 1) {
		zoom = int(math.Floor(math.Log2(scale)))
	}

	lat, lng := unproject((x0+x1)/2, (y0+y1)/2)
	s.viewport = models.Viewport{
		Center: models.LatLng{Lat: lat, Lng: lng},
		Zoom:   clampZoom(zoom),
	}
}

// Snapshot возвращает состояние карты для клиента
func (s *Surface) Snapshot() models.MapView {
	markers := s.markers
	if markers == nil {
		markers = []models.Marker{}
	}
	return models.MapView{
		Viewport: s.viewport,
		Markers:  markers,
		Clusters: s.Clusters(),
	}
}

func clampZoom(zoom int) int {
	if zoom < 0 {
		return 0
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
