package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hiresphere/hiresphere/internal/api/handlers"
)

type Deps struct {
	Resume      *handlers.ResumeHandler
	Application *handlers.ApplicationHandler
	Job         *handlers.JobHandler
	Admin       *handlers.AdminHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/candidates/:candidate_id/resume", d.Resume.Upload)

	r.GET("/jobs", d.Job.List)
	r.GET("/jobs/:job_id", d.Job.Get)

	r.POST("/applications", d.Application.Apply)
	r.GET("/applications/:application_id/breakdown", d.Application.Breakdown)

	r.POST("/admin/rescore", d.Admin.Rescore)
	r.POST("/admin/reparse", d.Admin.Reparse)

	// WebSocket
	r.GET("/ws/notifications", d.WS.NotificationsWS)
}
