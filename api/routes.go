package api

import (
	"github.com/gin-gonic/gin"
	"github.com/turfline/turfpulse/scheduler"
	"github.com/turfline/turfpulse/storage"
)

func SetupRouter(jobs *scheduler.JobStore, runner *scheduler.Runner, store *storage.MongoStorage) *gin.Engine {
	r := gin.Default()
	h := NewHandler(jobs, runner, store)

	r.POST("/scrape", h.Scrape)
	r.POST("/jobs", h.CreateJob)
	r.GET("/jobs/:id", h.GetJob)
	r.PUT("/jobs/:id", h.UpdateJob)
	r.DELETE("/jobs/:id", h.DisableJob)
	r.GET("/deadletters", h.ListDeadLetters)

	return r
}
