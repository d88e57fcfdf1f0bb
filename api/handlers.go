package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turfline/turfpulse/models"
	"github.com/turfline/turfpulse/scheduler"
	"github.com/turfline/turfpulse/storage"
)

type Handler struct {
	jobs   *scheduler.JobStore
	runner *scheduler.Runner
	store  *storage.MongoStorage
}

func NewHandler(jobs *scheduler.JobStore, runner *scheduler.Runner, store *storage.MongoStorage) *Handler {
	return &Handler{jobs: jobs, runner: runner, store: store}
}

// ScrapeRequest is the inbound trigger payload. All fields are optional:
// an explicit job id, an ad hoc kind/track/url triple, or force to process
// every active job immediately. An empty body processes whatever is due.
type ScrapeRequest struct {
	JobID string         `json:"job_id"`
	Kind  models.JobKind `json:"kind"`
	Track string         `json:"track"`
	URL   string         `json:"url"`
	Force bool           `json:"force"`
}

// Scrape triggers a batch run. The response is always a structured per-job
// outcome list, even when every job failed; only an unreachable job store
// fails the call itself.
func (h *Handler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	outcomes, err := h.runner.RunBatch(c.Request.Context(), scheduler.BatchRequest{
		JobID: req.JobID,
		Kind:  req.Kind,
		Track: req.Track,
		URL:   req.URL,
		Force: req.Force,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": outcomes})
}

func (h *Handler) CreateJob(c *gin.Context) {
	var job models.ScrapeJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidJobKind(job.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown job kind"})
		return
	}
	if job.Track == "" || job.IntervalSeconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track and a positive interval are required"})
		return
	}
	job.Active = true
	if err := h.jobs.CreateJob(c.Request.Context(), &job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) UpdateJob(c *gin.Context) {
	var job models.ScrapeJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job.ID = c.Param("id")
	if err := h.jobs.UpdateJob(c.Request.Context(), &job); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// DisableJob soft-disables a job; jobs are never hard-deleted.
func (h *Handler) DisableJob(c *gin.Context) {
	if err := h.jobs.DisableJob(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListDeadLetters(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	entries, err := h.store.ListDeadLetters(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dead_letters": entries})
}
