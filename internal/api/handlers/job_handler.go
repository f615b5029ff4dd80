package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pgrepo "github.com/hiresphere/hiresphere/internal/repositories/postgres"
	"github.com/hiresphere/hiresphere/internal/utils"
)

type JobHandler struct {
	jobs pgrepo.JobRepository
}

func NewJobHandler(jobs pgrepo.JobRepository) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "JobHandler.List", "failed to list jobs", err))
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			writeError(c, utils.E(utils.CodeNotFound, "JobHandler.Get", "job not found", err))
			return
		}
		writeError(c, utils.E(utils.CodeInternal, "JobHandler.Get", "failed to load job", err))
		return
	}
	c.JSON(http.StatusOK, job)
}
