package server

import (
	"github.com/gin-gonic/gin"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/edition"
	"github.com/tvertner/Leonne.net/internal/job"
	"github.com/tvertner/Leonne.net/internal/server/handler"
	"github.com/tvertner/Leonne.net/internal/server/middleware"
)

// NewRouter assembles the control surface. Everything except the health
// probe sits behind the shared bearer token.
func NewRouter(cfg common.Config, jobs *job.Service, publisher *edition.Publisher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	generate := handler.NewGenerateHandler(jobs)
	deploy := handler.NewDeployHandler(publisher, cfg.WorkDir)

	r.GET("/healthz", deploy.Health)

	auth := r.Group("/", middleware.BearerAuth(cfg.DeployToken))
	auth.POST("/generate", generate.Start)
	auth.GET("/generate/status", generate.Status)
	auth.GET("/generate/done", generate.Done)
	auth.POST("/deploy", deploy.Deploy)
	auth.POST("/deploy-file", deploy.DeployFile)

	return r
}
