package mapview

import (
	"github.com/shenikar/camera_map/internal/models"
)

// Clusters группирует маркеры в ячейки пиксельной сетки текущего зума
// (сторона ячейки = 2*radius+1) и усредняет координаты внутри ячейки.
// Кластеры идут в порядке появления первого маркера. O(N), без сортировок.
func (s *Surface) Clusters() []models.Cluster {
	if len(s.markers) == 0 {
		return []models.Cluster{}
	}

	cell := 2*s.opts.ClusterRadiusPx + 1
	if cell <= 1 {
		cell = 1
	}

	type acc struct {
		sumLat, sumLng float64
		members        []int
	}
	index := make(map[int64]int) // key := cx<<32 | cy
	accs := make([]*acc, 0)

	for i, m := range s.markers {
		px, py := latLngToPixel(m.Position.Lat, m.Position.Lng, s.viewport.Zoom)
		key := int64(int32(px/cell))<<32 | int64(uint32(int32(py/cell)))
		pos, ok := index[key]
		if !ok {
			pos = len(accs)
			index[key] = pos
			accs = append(accs, &acc{})
		}
		a := accs[pos]
		a.sumLat += m.Position.Lat
		a.sumLng += m.Position.Lng
		a.members = append(a.members, i)
	}

	out := make([]models.Cluster, 0, len(accs))
	for _, a := range accs {
		n := float64(len(a.members))
		out = append(out, models.Cluster{
			Center:  models.LatLng{Lat: a.sumLat / n, Lng: a.sumLng / n},
			Count:   len(a.members),
			Members: a.members,
		})
	}
	return out
}
