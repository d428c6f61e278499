package handlers

import (
	"time"

	"admitdesk/internal/config"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startTime: time.Now()}
}

// Root handles the root endpoint
// @Summary Root endpoint
// @Description Service banner
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "AdmitDesk API", fiber.Map{
		"service": "admitdesk",
		"docs":    "/swagger/index.html",
	})
}

// APIInfo lists the API surface
// @Summary API info
// @Description API version banner
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "AdmitDesk API v1", fiber.Map{
		"version": "v1",
		"uptime":  time.Since(h.startTime).String(),
	})
}

// HealthCheck returns service health
// @Summary Health check
// @Description Check service and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	if err := config.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Service unhealthy",
			"data": fiber.Map{
				"database": "down",
				"uptime":   time.Since(h.startTime).String(),
			},
		})
	}

	return response.Success(c, "Service healthy", fiber.Map{
		"database": "up",
		"uptime":   time.Since(h.startTime).String(),
	})
}
