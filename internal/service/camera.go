package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/camera_map/internal/config"
	"github.com/shenikar/camera_map/internal/mapview"
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/ui"
	"github.com/sirupsen/logrus"
)

// DataSource определяет контракт для загрузки сырых строк о камерах
type DataSource interface {
	Name() string
	Load(ctx context.Context) ([]models.RawRow, error)
}

// SessionStore определяет контракт для хранения состояния страниц
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.SessionState, error)
	Save(ctx context.Context, id uuid.UUID, state *models.SessionState) error
}

// CameraService определяет контракт конвейера фильтрации и отрисовки
type CameraService interface {
	LoadDataset(ctx context.Context) error
	Ready() bool
	OpenSession(ctx context.Context) (*models.View, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.View, error)
	ChangeControl(ctx context.Context, id uuid.UUID, control, value string) (*models.View, error)
	ApplyFilters(ctx context.Context, id uuid.UUID, sel models.Selection) (*models.View, error)
	ResetFilters(ctx context.Context, id uuid.UUID) (*models.View, error)
	Options() models.FilterOptions
	Diagnostics() models.Diagnostics
}

// Settings - параметры карты для конвейера
type Settings struct {
	DefaultViewport models.Viewport
	MaxFitZoom      int
	Surface         mapview.Options
	IconBaseURL     string
}

// SettingsFromConfig собирает параметры карты из конфигурации приложения
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DefaultViewport: models.Viewport{
			Center: models.LatLng{Lat: cfg.MapCenterLat, Lng: cfg.MapCenterLng},
			Zoom:   cfg.MapDefaultZoom,
		},
		MaxFitZoom: cfg.MapMaxFitZoom,
		Surface: mapview.Options{
			WidthPx:         cfg.MapWidthPx,
			HeightPx:        cfg.MapHeightPx,
			ClusterRadiusPx: cfg.ClusterRadiusPx,
		},
		IconBaseURL: cfg.IconBaseURL,
	}
}

// renderCycle - состояние одного синхронного цикла "прочитать - отфильтровать - отрисовать"
type renderCycle struct {
	id      uuid.UUID
	state   *models.SessionState
	surface *mapview.Surface
	mandals []string
	table   []models.CameraRecord
	stats   models.MarkerStats
}

type cameraService struct {
	source   DataSource
	sessions SessionStore
	logger   *logrus.Logger
	settings Settings
	markers  *MarkerRenderer
	events   *ui.Dispatcher[*renderCycle]
	locks    *sessionLocks

	store       *FilterStore
	diagnostics models.Diagnostics
}

func NewCameraService(source DataSource, sessions SessionStore, logger *logrus.Logger, settings Settings) CameraService {
	s := &cameraService{
		source:   source,
		sessions: sessions,
		logger:   logger,
		settings: settings,
		markers:  NewMarkerRenderer(NewIconTable(settings.IconBaseURL), settings.DefaultViewport, settings.MaxFitZoom, logger),
		events:   ui.NewDispatcher[*renderCycle](),
		locks:    newSessionLocks(),
		diagnostics: models.Diagnostics{
			Source: source.Name(),
		},
	}
	s.registerHandlers()
	return s
}

func (s *cameraService) registerHandlers() {
	s.events.On(ui.DataLoaded, "", s.onDataLoaded)
	for _, control := range []string{ui.DistrictFilter, ui.MandalFilter, ui.TypeFilter, ui.AnalyticsFilter} {
		s.events.On(ui.ControlChanged, control, s.onControlChanged)
	}
	s.events.On(ui.ButtonClicked, ui.ResetButton, s.onResetClicked)
}

// LoadDataset загружает и нормализует набор данных. Вызывается один раз при старте.
// При ошибке набор остается пустым, фильтры и карта не инициализируются.
func (s *cameraService) LoadDataset(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "camera",
		"method":  "LoadDataset",
		"source":  s.source.Name(),
	})
	log.Info("Loading camera dataset")

	rows, err := s.source.Load(ctx)
	if err != nil {
		s.diagnostics.LoadError = err.Error()
		log.WithError(err).Error("Data source load error")
		return fmt.Errorf("service: %w: %w", ErrDataSource, err)
	}

	records := NormalizeRows(rows)
	s.store = NewFilterStore(records)

	_, _, stats := s.markers.BuildMarkers(records)
	s.diagnostics.Records = len(records)
	s.diagnostics.Valid = stats.Valid
	s.diagnostics.Invalid = stats.Invalid

	log.WithFields(logrus.Fields{
		"records": len(records),
		"valid":   stats.Valid,
		"invalid": stats.Invalid,
	}).Info("Camera dataset loaded")
	return nil
}

func (s *cameraService) Ready() bool {
	return s.store != nil
}

// OpenSession соответствует загрузке страницы: новая сессия и первая отрисовка
func (s *cameraService) OpenSession(ctx context.Context) (*models.View, error) {
	id := uuid.New()
	log := s.logger.WithFields(logrus.Fields{
		"service":    "camera",
		"method":     "OpenSession",
		"session_id": id,
	})

	c := &renderCycle{
		id: id,
		state: &models.SessionState{
			InitialLoad: true,
			Viewport:    s.settings.DefaultViewport,
		},
	}
	c.surface = mapview.New(s.settings.Surface, c.state.Viewport)

	if err := s.events.Dispatch(ctx, c, ui.Event{Kind: ui.DataLoaded}); err != nil {
		log.WithError(err).Error("Failed to handle data loaded event")
		return nil, fmt.Errorf("service: could not open session: %w", err)
	}
	if err := s.save(ctx, c); err != nil {
		log.WithError(err).Error("Failed to save session")
		return nil, fmt.Errorf("service: could not open session: %w", err)
	}

	log.Info("Session opened")
	return s.view(c), nil
}

// GetView возвращает текущее состояние страницы без смены вьюпорта
func (s *cameraService) GetView(ctx context.Context, id uuid.UUID) (*models.View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		sel := c.state.Applied
		filtered := s.store.Filter(sel)
		markers, _, stats := s.markers.BuildMarkers(filtered)
		c.surface.AddMarkers(markers)
		c.stats = stats
		c.mandals = s.store.MandalOptions(sel.District)
		if c.state.TableVisible {
			c.table = filtered
		}
	}
	return s.view(c), nil
}

// ChangeControl обрабатывает изменение одного выпадающего списка
func (s *cameraService) ChangeControl(ctx context.Context, id uuid.UUID, control, value string) (*models.View, error) {
	if !s.events.Handles(ui.ControlChanged, control) {
		return nil, fmt.Errorf("service: %w: %q", ErrUnknownControl, control)
	}
	return s.update(ctx, id, "ChangeControl", func(c *renderCycle) error {
		return s.events.Dispatch(ctx, c, ui.Event{Kind: ui.ControlChanged, Control: control, Value: value})
	})
}

// ApplyFilters выставляет все четыре фильтра сразу и запускает пересчет
func (s *cameraService) ApplyFilters(ctx context.Context, id uuid.UUID, sel models.Selection) (*models.View, error) {
	return s.update(ctx, id, "ApplyFilters", func(c *renderCycle) error {
		c.state.Selection = sel
		return s.onFilterChange(ctx, c)
	})
}

// ResetFilters соответствует нажатию кнопки сброса
func (s *cameraService) ResetFilters(ctx context.Context, id uuid.UUID) (*models.View, error) {
	return s.update(ctx, id, "ResetFilters", func(c *renderCycle) error {
		return s.events.Dispatch(ctx, c, ui.Event{Kind: ui.ButtonClicked, Control: ui.ResetButton})
	})
}

// Options возвращает списки значений фильтров для полного набора данных
func (s *cameraService) Options() models.FilterOptions {
	if s.store == nil {
		return emptyOptions()
	}
	return s.store.Options()
}

func (s *cameraService) Diagnostics() models.Diagnostics {
	return s.diagnostics
}

func (s *cameraService) update(ctx context.Context, id uuid.UUID, method string, fn func(c *renderCycle) error) (*models.View, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "camera",
		"method":     method,
		"session_id": id,
	})

	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.load(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to load session")
		return nil, err
	}
	if err := fn(c); err != nil {
		log.WithError(err).Error("Failed to handle event")
		return nil, fmt.Errorf("service: could not handle event: %w", err)
	}
	if err := s.save(ctx, c); err != nil {
		log.WithError(err).Error("Failed to save session")
		return nil, fmt.Errorf("service: could not save session: %w", err)
	}

	log.WithField("selection", c.state.Selection).Debug("Event handled")
	return s.view(c), nil
}

func (s *cameraService) onDataLoaded(_ context.Context, c *renderCycle, _ ui.Event) error {
	if s.store == nil {
		return nil
	}
	c.mandals = s.store.Options().Mandals
	c.table = nil
	c.state.TableVisible = false
	s.renderMarkers(c, s.store.Records())
	return nil
}

func (s *cameraService) onControlChanged(ctx context.Context, c *renderCycle, ev ui.Event) error {
	switch ev.Control {
	case ui.DistrictFilter:
		c.state.Selection.District = ev.Value
	case ui.MandalFilter:
		c.state.Selection.Mandal = ev.Value
	case ui.TypeFilter:
		c.state.Selection.Type = ev.Value
	case ui.AnalyticsFilter:
		c.state.Selection.Analytics = ev.Value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, ev.Control)
	}
	return s.onFilterChange(ctx, c)
}

func (s *cameraService) onFilterChange(_ context.Context, c *renderCycle) error {
	if s.store == nil {
		return nil
	}
	sel := c.state.Selection
	res := s.store.OnFilterChange(sel)

	c.state.Applied = sel
	c.mandals = res.MandalOptions
	// список мандалов пересобирается, выбор мандала после цикла не сохраняется
	c.state.Selection.Mandal = ""
	c.table = res.Tabled
	c.state.TableVisible = true
	s.renderMarkers(c, res.Mapped)
	return nil
}

func (s *cameraService) onResetClicked(_ context.Context, c *renderCycle, _ ui.Event) error {
	c.state.Selection = models.Selection{}
	c.state.Applied = models.Selection{}
	if s.store == nil {
		return nil
	}
	res := s.store.ResetFilters()
	c.mandals = res.MandalOptions
	c.table = res.Tabled
	c.state.TableVisible = false
	s.renderMarkers(c, res.Mapped)
	return nil
}

func (s *cameraService) renderMarkers(c *renderCycle, records []models.CameraRecord) {
	c.stats = s.markers.Render(c.surface, records, c.state.InitialLoad)
	c.state.InitialLoad = false
}

func (s *cameraService) load(ctx context.Context, id uuid.UUID) (*renderCycle, error) {
	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not load session %s: %w", id, err)
	}
	return &renderCycle{
		id:      id,
		state:   state,
		surface: mapview.New(s.settings.Surface, state.Viewport),
	}, nil
}

func (s *cameraService) save(ctx context.Context, c *renderCycle) error {
	c.state.Viewport = c.surface.Viewport()
	c.state.UpdatedAt = time.Now()
	return s.sessions.Save(ctx, c.id, c.state)
}

func (s *cameraService) view(c *renderCycle) *models.View {
	options := emptyOptions()
	if s.store != nil {
		options = s.store.Options()
		options.Mandals = c.mandals
		if options.Mandals == nil {
			options.Mandals = []string{}
		}
	}
	return &models.View{
		SessionID: c.id.String(),
		Ready:     s.store != nil,
		InfoBar:   InfoBarText(len(c.table)),
		Options:   options,
		Selection: c.state.Selection,
		Table:     RenderTable(c.table),
		Map:       c.surface.Snapshot(),
		Stats:     c.stats,
	}
}

func emptyOptions() models.FilterOptions {
	return models.FilterOptions{
		Districts: []string{},
		Mandals:   []string{},
		Types:     []string{},
		Analytics: []string{},
	}
}

// sessionLocks сериализует циклы одной сессии внутри процесса
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*refLock)}
}

func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &refLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
