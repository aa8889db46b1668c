package service

import (
	"sort"
	"strings"

	"github.com/shenikar/camera_map/internal/models"
)

// FilterResult - результат одного цикла фильтрации.
// Mapped уходит на карту, Tabled в таблицу и в счетчик записей.
type FilterResult struct {
	MandalOptions []string
	Mapped        []models.CameraRecord
	Tabled        []models.CameraRecord
}

// FilterStore владеет полным набором записей и списками значений фильтров.
// После создания не изменяется, поэтому безопасен для одновременного чтения.
type FilterStore struct {
	records []models.CameraRecord
	options models.FilterOptions
}

func NewFilterStore(records []models.CameraRecord) *FilterStore {
	return &FilterStore{
		records: records,
		options: PopulateFilters(records),
	}
}

// Records возвращает полный набор записей в порядке источника
func (s *FilterStore) Records() []models.CameraRecord {
	return s.records
}

// Options возвращает списки значений для полного набора данных
func (s *FilterStore) Options() models.FilterOptions {
	return s.options
}

// PopulateFilters собирает отсортированные уникальные непустые значения по каждому измерению.
// Тип камеры и тип аналитики приводятся к верхнему регистру.
func PopulateFilters(records []models.CameraRecord) models.FilterOptions {
	districts := make(map[string]struct{})
	mandals := make(map[string]struct{})
	types := make(map[string]struct{})
	analytics := make(map[string]struct{})

	for _, r := range records {
		addValue(districts, r.District())
		addValue(mandals, r.Mandal())
		addValue(types, strings.ToUpper(r.CameraType()))
		addValue(analytics, strings.ToUpper(r.Analytics()))
	}

	return models.FilterOptions{
		Districts: sortedKeys(districts),
		Mandals:   sortedKeys(mandals),
		Types:     sortedKeys(types),
		Analytics: sortedKeys(analytics),
	}
}

// MandalOptions возвращает мандалы выбранного округа, а без округа - все мандалы
func (s *FilterStore) MandalOptions(district string) []string {
	if district == "" {
		return s.options.Mandals
	}
	mandals := make(map[string]struct{})
	for _, r := range s.records {
		if r.District() == district {
			addValue(mandals, r.Mandal())
		}
	}
	return sortedKeys(mandals)
}

// Filter возвращает записи, прошедшие все выбранные фильтры, с сохранением порядка.
// Невыбранный фильтр пропускает любую запись.
func (s *FilterStore) Filter(sel models.Selection) []models.CameraRecord {
	filtered := make([]models.CameraRecord, 0, len(s.records))
	for _, r := range s.records {
		if matches(r, sel) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// OnFilterChange пересчитывает список мандалов и отфильтрованный набор
func (s *FilterStore) OnFilterChange(sel models.Selection) FilterResult {
	filtered := s.Filter(sel)
	return FilterResult{
		MandalOptions: s.MandalOptions(sel.District),
		Mapped:        filtered,
		Tabled:        filtered,
	}
}

// ResetFilters сбрасывает фильтры: карта показывает весь набор, таблица очищается
func (s *FilterStore) ResetFilters() FilterResult {
	return FilterResult{
		MandalOptions: s.options.Mandals,
		Mapped:        s.records,
		Tabled:        nil,
	}
}

func matches(r models.CameraRecord, sel models.Selection) bool {
	return (sel.District == "" || r.District() == sel.District) &&
		(sel.Mandal == "" || r.Mandal() == sel.Mandal) &&
		(sel.Type == "" || strings.ToUpper(r.CameraType()) == sel.Type) &&
		(sel.Analytics == "" || strings.ToUpper(r.Analytics()) == sel.Analytics)
}

func addValue(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
