package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/camera_map/internal/config"
	"github.com/shenikar/camera_map/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	cameraService service.CameraService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(cameraService service.CameraService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		cameraService: cameraService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary Open a page session
// @Description Open a new page session. The response carries the initial render: all markers, empty table.
// @Tags Sessions
// @Accept json
// @Produce json
// @Success 201 {object} ViewResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions [post]
func (h *Handler) openSession(c *gin.Context) {
	log := h.logger.WithField("method", "openSession")

	view, err := h.cameraService.OpenSession(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to open session in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToViewResponse(view))
}

// @Summary Get session view
// @Description Get the current page state of a session without changing the viewport
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ViewResponse
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id} [get]
func (h *Handler) getSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getSession").WithField("id", id)

	view, err := h.cameraService.GetView(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToViewResponse(view))
}

// @Summary Change a filter control
// @Description Set one dropdown (districtFilter, mandalFilter, typeFilter, analyticsFilter) and re-render. Empty value clears it.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param control path string true "Control ID"
// @Param request body ControlChangeRequest true "New control value"
// @Success 200 {object} ViewResponse
// @Failure 400 {object} map[string]string "Invalid session ID, control or request body"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id}/controls/{control} [post]
func (h *Handler) changeControl(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	control := c.Param("control")
	log := h.logger.WithFields(logrus.Fields{
		"method":  "changeControl",
		"id":      id,
		"control": control,
	})

	var input ControlChangeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.cameraService.ChangeControl(c.Request.Context(), id, control, input.Value)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToViewResponse(view))
}

// @Summary Apply all filters
// @Description Set all four filters at once and re-render
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body FilterRequest true "Filter selection"
// @Success 200 {object} ViewResponse
// @Failure 400 {object} map[string]string "Invalid session ID or request body"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id}/filters [post]
func (h *Handler) applyFilters(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "applyFilters").WithField("id", id)

	var input FilterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.cameraService.ApplyFilters(c.Request.Context(), id, DTOToSelection(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToViewResponse(view))
}

// @Summary Reset filters
// @Description Clear all filters. The map shows every camera, the table is emptied.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ViewResponse
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/{id}/reset [post]
func (h *Handler) resetFilters(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resetFilters").WithField("id", id)

	view, err := h.cameraService.ResetFilters(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToViewResponse(view))
}

// @Summary Get filter options
// @Description Get sorted distinct values for every dropdown over the full dataset
// @Tags Options
// @Accept json
// @Produce json
// @Success 200 {object} OptionsResponse
// @Router /options [get]
func (h *Handler) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, ModelToOptionsResponse(h.cameraService.Options()))
}

// @Summary Get dataset diagnostics
// @Description Get source name, record counts and the last load error. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} DiagnosticsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /admin/diagnostics [get]
func (h *Handler) getDiagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, ModelToDiagnosticsResponse(h.cameraService.Diagnostics(), h.cameraService.Ready()))
}

// @Summary Get application health status
// @Description Get health status of the application and whether the dataset is loaded
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Ready: h.cameraService.Ready()})
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит ошибки сервиса в HTTP-статусы
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		log.WithError(err).Warn("Session not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrUnknownControl):
		log.WithError(err).Warn("Unknown control")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown control"})
	default:
		log.WithError(err).Error("Failed to handle request in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
