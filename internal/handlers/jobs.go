package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/services"
	"github.com/hirementis/hirementis/pkg/response"
)

// JobHandler exposes the job catalog. Reads are public, writes are wired
// behind the admin guard by the router.
type JobHandler struct {
	jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /job/all-jobs
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Jobs fetched successfully", response.H{"jobs": jobs})
}

// GET /job/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobs.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Job fetched successfully", response.H{"job": job})
}

// POST /job/add-job
func (h *JobHandler) Create(c *gin.Context) {
	var input services.JobInput
	if !bindAndValidate(c, &input) {
		return
	}

	job, err := h.jobs.Create(requestContext(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Job created successfully", response.H{"job": job})
}

// PUT /job/:jobId
func (h *JobHandler) Update(c *gin.Context) {
	var input services.JobInput
	if !bindAndValidate(c, &input) {
		return
	}

	job, err := h.jobs.Update(requestContext(c), c.Param("jobId"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Job updated successfully", response.H{"job": job})
}

// DELETE /job/:jobId
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.Delete(requestContext(c), c.Param("jobId")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Job deleted successfully")
}
