package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiresphere/hiresphere/internal/services"
)

// AdminHandler exposes the bulk maintenance operations.
type AdminHandler struct {
	applications services.ApplicationService
	pipeline     services.PipelineService
}

func NewAdminHandler(applications services.ApplicationService, pipeline services.PipelineService) *AdminHandler {
	return &AdminHandler{applications: applications, pipeline: pipeline}
}

// Rescore recomputes and persists every application score in-band.
func (h *AdminHandler) Rescore(c *gin.Context) {
	n, err := h.applications.RescoreAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rescored": n})
}

// Reparse queues a full pipeline run for every candidate with a resume.
func (h *AdminHandler) Reparse(c *gin.Context) {
	n, err := h.pipeline.ReparseAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": n})
}
