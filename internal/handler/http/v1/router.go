package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Сессии страницы: открытие, события фильтров и сброс
	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.openSession)
		sessions.GET("/:id", h.getSession)
		sessions.POST("/:id/controls/:control", h.changeControl)
		sessions.POST("/:id/filters", h.applyFilters)
		sessions.POST("/:id/reset", h.resetFilters)
	}

	api.GET("/options", h.getOptions)

	// Диагностика набора данных, только по API-ключу
	admin := api.Group("/admin", APIKeyAuthMiddleware(h.cfg, h.logger))
	admin.GET("/diagnostics", h.getDiagnostics)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
