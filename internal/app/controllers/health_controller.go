package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/course-service/internal/app/models/dto"
	"github.com/coursehub/course-service/internal/config"
)

// HealthController answers liveness probes and reports which sibling
// services are configured.
type HealthController struct {
	cfg *config.Config
}

// NewHealthController creates a new HealthController
func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{cfg: cfg}
}

// Health handles GET /health
func (c *HealthController) Health(ctx *gin.Context) {
	integration := func(url string) string {
		if url == "" {
			return "not configured"
		}
		return url
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: "course-service",
		Integrations: dto.HealthIntegrations{
			AuthService:       integration(c.cfg.Services.AuthServiceURL),
			EnrollmentService: integration(c.cfg.Services.EnrollmentServiceURL),
		},
	})
}
