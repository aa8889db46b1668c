package service

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shenikar/camera_map/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
)

const (
	iconDefault = "DEFAULT"
	iconSizePx  = 42
)

// MapSurface - возможности картографического сервиса, которыми пользуется рендерер маркеров
type MapSurface interface {
	ClearMarkers()
	AddMarkers(markers []models.Marker)
	FitBounds(bounds *geom.Bounds)
	SetCenter(center models.LatLng, zoom int)
	Zoom() int
	SetZoom(zoom int)
}

// NewIconTable строит фиксированную таблицу иконок по типу камеры
func NewIconTable(baseURL string) map[string]models.Icon {
	files := map[string]string{
		"ANPR":      "anpr.png",
		"ANALYTICS": "analytics.png",
		"FIXED":     "fixed.png",
		"FRS":       "frs.png",
		"FRZ":       "frz.png",
		"PTZ":       "ptz.png",
		"RLVD":      "rlvd2.png",
		iconDefault: "default.png",
	}
	icons := make(map[string]models.Icon, len(files))
	for key, file := range files {
		icons[key] = models.Icon{Key: key, URL: baseURL + file, Size: iconSizePx}
	}
	return icons
}

// MarkerRenderer проецирует отфильтрованные записи на маркеры карты
type MarkerRenderer struct {
	icons         map[string]models.Icon
	defaultCenter models.LatLng
	defaultZoom   int
	maxFitZoom    int
	logger        *logrus.Logger
}

func NewMarkerRenderer(icons map[string]models.Icon, defaultView models.Viewport, maxFitZoom int, logger *logrus.Logger) *MarkerRenderer {
	return &MarkerRenderer{
		icons:         icons,
		defaultCenter: defaultView.Center,
		defaultZoom:   defaultView.Zoom,
		maxFitZoom:    maxFitZoom,
		logger:        logger,
	}
}

// Render заменяет все маркеры на поверхности новыми.
// При первой отрисовке вьюпорт не трогаем, дальше подгоняем его под маркеры с ограничением зума.
func (r *MarkerRenderer) Render(surface MapSurface, records []models.CameraRecord, initialLoad bool) models.MarkerStats {
	surface.ClearMarkers()

	markers, bounds, stats := r.BuildMarkers(records)

	if len(markers) > 0 {
		surface.AddMarkers(markers)
		if !initialLoad {
			surface.FitBounds(bounds)
			if surface.Zoom() > r.maxFitZoom {
				surface.SetZoom(r.maxFitZoom)
			}
		}
	} else {
		surface.SetCenter(r.defaultCenter, r.defaultZoom)
	}

	r.logger.WithFields(logrus.Fields{
		"service": "markers",
		"method":  "Render",
		"valid":   stats.Valid,
		"invalid": stats.Invalid,
	}).Infof("Markers: %d valid, %d invalid", stats.Valid, stats.Invalid)
	return stats
}

// BuildMarkers строит маркеры для записей с корректными координатами и их общий прямоугольник.
// Записи с некорректными координатами только подсчитываются.
func (r *MarkerRenderer) BuildMarkers(records []models.CameraRecord) ([]models.Marker, *geom.Bounds, models.MarkerStats) {
	var stats models.MarkerStats
	markers := make([]models.Marker, 0, len(records))
	bounds := geom.NewBounds(geom.XY)

	for _, rec := range records {
		pos, ok := ParsePosition(rec)
		if !ok {
			stats.Invalid++
			continue
		}
		stats.Valid++

		typeVal := strings.ToUpper(rec.CameraType())
		if typeVal == "" {
			typeVal = iconDefault
		}
		icon, ok := r.icons[typeVal]
		if !ok {
			icon = r.icons[iconDefault]
		}

		markers = append(markers, models.Marker{
			Position: pos,
			Title:    rec.LocationName(),
			Icon:     icon,
			Popup:    popupContent(rec, typeVal),
		})
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{pos.Lng, pos.Lat}))
	}
	return markers, bounds, stats
}

// ParsePosition разбирает координаты записи. Запись пригодна для карты,
// только если обе координаты - конечные числа.
func ParsePosition(rec models.CameraRecord) (models.LatLng, bool) {
	lat, ok := parseFinite(rec.Latitude())
	if !ok {
		return models.LatLng{}, false
	}
	lng, ok := parseFinite(rec.Longitude())
	if !ok {
		return models.LatLng{}, false
	}
	return models.LatLng{Lat: lat, Lng: lng}, true
}

// floatPrefix - самый длинный числовой префикс, как его понимает parseFloat в браузере
var floatPrefix = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

func parseFinite(s string) (float64, bool) {
	prefix := floatPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func popupContent(rec models.CameraRecord, typeVal string) string {
	name := rec.LocationName()
	if name == "" {
		name = "Unknown"
	}
	analytics := rec.Analytics()
	if analytics == "" {
		analytics = "N/A"
	}
	return fmt.Sprintf("<div><b>%s</b><br><small>%s / %s</small><br><small>Camera: %s - Analytics: %s</small></div>",
		html.EscapeString(name),
		html.EscapeString(rec.District()),
		html.EscapeString(rec.Mandal()),
		html.EscapeString(typeVal),
		html.EscapeString(analytics),
	)
}
