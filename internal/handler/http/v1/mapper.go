package v1

import (
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/service"
)

// DTOToSelection преобразует DTO фильтров в доменную модель
func DTOToSelection(dto FilterRequest) models.Selection {
	return models.Selection{
		District:  dto.District,
		Mandal:    dto.Mandal,
		Type:      dto.Type,
		Analytics: dto.Analytics,
	}
}

// ModelToOptionsResponse преобразует списки значений фильтров в DTO
func ModelToOptionsResponse(opts models.FilterOptions) OptionsResponse {
	return OptionsResponse{
		Districts: nonNil(opts.Districts),
		Mandals:   nonNil(opts.Mandals),
		Types:     nonNil(opts.Types),
		Analytics: nonNil(opts.Analytics),
	}
}

// ModelToViewResponse преобразует состояние страницы в DTO для ответа
func ModelToViewResponse(view *models.View) *ViewResponse {
	markers := view.Map.Markers
	if markers == nil {
		markers = []models.Marker{}
	}
	clusters := view.Map.Clusters
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	table := view.Table
	if table == nil {
		table = []models.TableRow{}
	}

	return &ViewResponse{
		SessionID: view.SessionID,
		Ready:     view.Ready,
		InfoBar:   view.InfoBar,
		Columns:   service.TableColumns,
		Options:   ModelToOptionsResponse(view.Options),
		Selection: SelectionResponse{
			District:  view.Selection.District,
			Mandal:    view.Selection.Mandal,
			Type:      view.Selection.Type,
			Analytics: view.Selection.Analytics,
		},
		Table: table,
		Map: MapResponse{
			Center:   view.Map.Viewport.Center,
			Zoom:     view.Map.Viewport.Zoom,
			Markers:  markers,
			Clusters: clusters,
		},
		Stats: StatsResponse{
			Valid:   view.Stats.Valid,
			Invalid: view.Stats.Invalid,
		},
	}
}

// ModelToDiagnosticsResponse преобразует сводку по набору данных в DTO
func ModelToDiagnosticsResponse(d models.Diagnostics, ready bool) *DiagnosticsResponse {
	return &DiagnosticsResponse{
		Source:    d.Source,
		Ready:     ready,
		Records:   d.Records,
		Valid:     d.Valid,
		Invalid:   d.Invalid,
		LoadError: d.LoadError,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
