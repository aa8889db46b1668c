package mapview

import "math"

const (
	tileSize = 256.0
	// предел широты проекции Web Mercator
	maxLatitude = 85.0511287798
)

// project переводит широту/долготу в пиксели мировой карты на нулевом зуме (0..256)
func project(lat, lng float64) (x, y float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	sin := math.Sin(lat * math.Pi / 180.0)
	x = (lng + 180.0) / 360.0 * tileSize
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * tileSize
	return x, y
}

// unproject - обратное преобразование для project
func unproject(x, y float64) (lat, lng float64) {
	lng = x/tileSize*360.0 - 180.0
	n := math.Pi - 2*math.Pi*y/tileSize
	lat = 180.0 / math.Pi * math.Atan(math.Sinh(n))
	return lat, lng
}

// latLngToPixel - пиксельные координаты на заданном зуме
func latLngToPixel(lat, lng float64, zoom int) (px, py float64) {
	x, y := project(lat, lng)
	scale := math.Exp2(float64(zoom))
	return x * scale, y * scale
}
