package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiresphere/hiresphere/internal/services"
	"github.com/hiresphere/hiresphere/internal/utils"
)

type ApplicationHandler struct {
	applications services.ApplicationService
}

func NewApplicationHandler(applications services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

type applyRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobID       string `json:"job_id" binding:"required"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Apply", "candidate_id and job_id are required", err))
		return
	}

	app, err := h.applications.Apply(c.Request.Context(), req.CandidateID, req.JobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Breakdown returns the factor-by-factor report for an application,
// recomputed on demand. The stored score is untouched.
func (h *ApplicationHandler) Breakdown(c *gin.Context) {
	b, err := h.applications.Breakdown(c.Request.Context(), c.Param("application_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
