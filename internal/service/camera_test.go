package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/camera_map/internal/mapview"
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/service/mocks"
	"github.com/shenikar/camera_map/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testRawRows() []models.RawRow {
	rows := make([]models.RawRow, 0)
	for _, rec := range testRecords() {
		raw := models.RawRow{}
		for k, v := range rec {
			raw[" "+k] = v + " "
		}
		rows = append(rows, raw)
	}
	return rows
}

// newTestCameraService - вспомогательная функция для создания сервиса с моками.
// Хранилище сессий эмулируется map-ой поверх мока.
func newTestCameraService(t *testing.T, rows []models.RawRow, loadErr error) (*cameraService, map[uuid.UUID]models.SessionState) {
	ctrl := gomock.NewController(t)
	sourceMock := mocks.NewMockDataSource(ctrl)
	storeMock := mocks.NewMockSessionStore(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	sourceMock.EXPECT().Name().Return("csv:test").AnyTimes()
	sourceMock.EXPECT().Load(gomock.Any()).Return(rows, loadErr).Times(1)

	sessions := make(map[uuid.UUID]models.SessionState)
	storeMock.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.SessionState, error) {
			state, ok := sessions[id]
			if !ok {
				return nil, ErrSessionNotFound
			}
			return &state, nil
		}).AnyTimes()
	storeMock.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, state *models.SessionState) error {
			sessions[id] = *state
			return nil
		}).AnyTimes()

	svc := NewCameraService(sourceMock, storeMock, logger, Settings{
		DefaultViewport: testViewport,
		MaxFitZoom:      12,
		Surface:         mapview.Options{WidthPx: 1024, HeightPx: 768, ClusterRadiusPx: 40},
		IconBaseURL:     "icons/",
	})
	err := svc.LoadDataset(context.Background())
	if loadErr == nil {
		require.NoError(t, err)
	}
	return svc.(*cameraService), sessions
}

func openSession(t *testing.T, svc *cameraService) (uuid.UUID, *models.View) {
	t.Helper()
	view, err := svc.OpenSession(context.Background())
	require.NoError(t, err)
	id, err := uuid.Parse(view.SessionID)
	require.NoError(t, err)
	return id, view
}

func TestLoadDataset_Diagnostics(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)

	assert.True(t, svc.Ready())
	assert.Equal(t, models.Diagnostics{Source: "csv:test", Records: 5, Valid: 4, Invalid: 1}, svc.Diagnostics())
	assert.Equal(t, []string{"Guntur", "Krishna"}, svc.Options().Districts)
}

func TestLoadDataset_DataSourceError(t *testing.T) {
	svc, _ := newTestCameraService(t, nil, errors.New("open AP_13_dist_data.csv: no such file"))

	assert.False(t, svc.Ready())
	assert.Contains(t, svc.Diagnostics().LoadError, "no such file")
	assert.Empty(t, svc.Options().Districts)

	_, view := openSession(t, svc)
	assert.False(t, view.Ready)
	assert.Empty(t, view.Map.Markers)
	assert.Empty(t, view.Options.Mandals)
	assert.Equal(t, "Showing 0 records.", view.InfoBar)
	assert.Equal(t, testViewport, view.Map.Viewport)
}

func TestLoadDataset_WrapsErrDataSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	sourceMock := mocks.NewMockDataSource(ctrl)
	sourceMock.EXPECT().Name().Return("csv:broken").AnyTimes()
	sourceMock.EXPECT().Load(gomock.Any()).Return(nil, fmt.Errorf("parse error")).Times(1)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	svc := NewCameraService(sourceMock, mocks.NewMockSessionStore(ctrl), logger, Settings{DefaultViewport: testViewport})

	err := svc.LoadDataset(context.Background())
	assert.ErrorIs(t, err, ErrDataSource)
	assert.ErrorContains(t, err, "parse error")
}

func TestOpenSession_InitialRender(t *testing.T) {
	svc, sessions := newTestCameraService(t, testRawRows(), nil)

	id, view := openSession(t, svc)

	assert.True(t, view.Ready)
	assert.Len(t, view.Map.Markers, 4)
	assert.Equal(t, models.MarkerStats{Valid: 4, Invalid: 1}, view.Stats)
	// первая отрисовка не двигает карту
	assert.Equal(t, testViewport, view.Map.Viewport)
	// таблица на старте пустая
	assert.Empty(t, view.Table)
	assert.Equal(t, "Showing 0 records.", view.InfoBar)
	assert.Equal(t, []string{"Machilipatnam", "Mangalagiri", "Tenali", "Vijayawada"}, view.Options.Mandals)

	state := sessions[id]
	assert.False(t, state.InitialLoad)
	assert.False(t, state.TableVisible)
}

func TestChangeControl_DistrictCascadesAndFits(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	view, err := svc.ChangeControl(context.Background(), id, ui.DistrictFilter, "Guntur")
	require.NoError(t, err)

	assert.Equal(t, []string{"Mangalagiri", "Tenali"}, view.Options.Mandals)
	assert.Len(t, view.Table, 3)
	assert.Equal(t, "Showing 3 records.", view.InfoBar)
	assert.Len(t, view.Map.Markers, 3)
	assert.LessOrEqual(t, view.Map.Viewport.Zoom, 12)
	assert.NotEqual(t, testViewport, view.Map.Viewport)

	// снятие округа возвращает полный список мандалов
	view, err = svc.ChangeControl(context.Background(), id, ui.DistrictFilter, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Machilipatnam", "Mangalagiri", "Tenali", "Vijayawada"}, view.Options.Mandals)
	assert.Len(t, view.Table, 5)
}

func TestChangeControl_SingleMatchClampsZoom(t *testing.T) {
	rows := []models.RawRow{
		{"DISTRICT": "X", "MANDAL": "A", "LATITUDE": "12.5", "LONGITUDE": "77.5", "TYPE OF CAMERA": "ANPR"},
		{"DISTRICT": "Y", "MANDAL": "B", "LATITUDE": "bad", "LONGITUDE": "77.6", "TYPE OF CAMERA": "PTZ"},
	}
	svc, _ := newTestCameraService(t, rows, nil)
	id, view := openSession(t, svc)
	assert.Equal(t, models.MarkerStats{Valid: 1, Invalid: 1}, view.Stats)

	view, err := svc.ChangeControl(context.Background(), id, ui.DistrictFilter, "X")
	require.NoError(t, err)
	assert.Equal(t, "Showing 1 record.", view.InfoBar)
	assert.Equal(t, 12, view.Map.Viewport.Zoom)
}

func TestChangeControl_TypeIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	view, err := svc.ChangeControl(context.Background(), id, ui.TypeFilter, "ANPR")
	require.NoError(t, err)
	require.Len(t, view.Table, 2)
	assert.Equal(t, "anpr", view.Table[0].CameraType)
}

func TestChangeControl_NoMatchesResetsViewport(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	_, err := svc.ChangeControl(context.Background(), id, ui.DistrictFilter, "Guntur")
	require.NoError(t, err)
	view, err := svc.ChangeControl(context.Background(), id, ui.AnalyticsFilter, "NONE")
	require.NoError(t, err)

	assert.Empty(t, view.Map.Markers)
	assert.Empty(t, view.Table)
	assert.Equal(t, testViewport, view.Map.Viewport)
}

func TestChangeControl_StaleMandalIsCleared(t *testing.T) {
	svc, sessions := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	view, err := svc.ApplyFilters(context.Background(), id, models.Selection{District: "Guntur", Mandal: "Vijayawada"})
	require.NoError(t, err)

	// текущий цикл фильтрует со старым мандалом
	assert.Empty(t, view.Table)
	assert.Equal(t, []string{"Mangalagiri", "Tenali"}, view.Options.Mandals)
	// а состояние уже без него
	assert.Equal(t, "", view.Selection.Mandal)
	assert.Equal(t, "", sessions[id].Selection.Mandal)
	assert.Equal(t, "Guntur", sessions[id].Selection.District)
}

func TestChangeControl_MandalDoesNotSurviveNextChange(t *testing.T) {
	svc, sessions := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	view, err := svc.ChangeControl(context.Background(), id, ui.MandalFilter, "Tenali")
	require.NoError(t, err)
	assert.Equal(t, "Showing 2 records.", view.InfoBar)
	assert.Equal(t, "", view.Selection.Mandal)

	// следующий цикл видит мандал невыбранным
	view, err = svc.ChangeControl(context.Background(), id, ui.TypeFilter, "")
	require.NoError(t, err)
	assert.Equal(t, models.Selection{}, view.Selection)
	assert.Len(t, view.Table, 5)
	assert.Equal(t, "Showing 5 records.", view.InfoBar)
	assert.Equal(t, models.Selection{}, sessions[id].Applied)
}

func TestGetView_KeepsLastRenderAfterMandalCleared(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	applied, err := svc.ChangeControl(context.Background(), id, ui.MandalFilter, "Tenali")
	require.NoError(t, err)

	view, err := svc.GetView(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, applied.Table, view.Table)
	assert.Equal(t, "", view.Selection.Mandal)
}

func TestChangeControl_UnknownControl(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	_, err := svc.ChangeControl(context.Background(), id, ui.ResetButton, "")
	assert.ErrorIs(t, err, ErrUnknownControl)

	_, err = svc.ChangeControl(context.Background(), id, "cityFilter", "x")
	assert.ErrorIs(t, err, ErrUnknownControl)
}

func TestChangeControl_SessionNotFound(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)

	_, err := svc.ChangeControl(context.Background(), uuid.New(), ui.DistrictFilter, "Guntur")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResetFilters_Asymmetry(t *testing.T) {
	svc, sessions := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	_, err := svc.ApplyFilters(context.Background(), id, models.Selection{District: "Krishna", Type: "PTZ"})
	require.NoError(t, err)

	view, err := svc.ResetFilters(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, models.Selection{}, view.Selection)
	assert.Equal(t, []string{"Machilipatnam", "Mangalagiri", "Tenali", "Vijayawada"}, view.Options.Mandals)
	assert.Empty(t, view.Table)
	assert.Equal(t, "Showing 0 records.", view.InfoBar)
	assert.Len(t, view.Map.Markers, 4)
	assert.LessOrEqual(t, view.Map.Viewport.Zoom, 12)
	assert.False(t, sessions[id].TableVisible)
}

func TestGetView_ReflectsStoredState(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)
	id, _ := openSession(t, svc)

	applied, err := svc.ApplyFilters(context.Background(), id, models.Selection{District: "Guntur", Mandal: "Tenali"})
	require.NoError(t, err)

	view, err := svc.GetView(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, applied.Table, view.Table)
	assert.Equal(t, applied.Map.Viewport, view.Map.Viewport)
	assert.Equal(t, applied.Map.Markers, view.Map.Markers)
	assert.Equal(t, applied.Options, view.Options)
	assert.Equal(t, "Showing 2 records.", view.InfoBar)
}

func TestGetView_SessionNotFound(t *testing.T) {
	svc, _ := newTestCameraService(t, testRawRows(), nil)

	_, err := svc.GetView(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
