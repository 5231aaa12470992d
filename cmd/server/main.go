package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/edition"
	"github.com/tvertner/Leonne.net/internal/job"
	"github.com/tvertner/Leonne.net/internal/pipeline"
	"github.com/tvertner/Leonne.net/internal/server"
)

func main() {
	common.InitConf()
	common.InitLog()
	config := common.GetConfig()
	logger := common.GetLogger()
	defer logger.Sync()

	if config.DeployToken == "" {
		logger.Warn("DEPLOY_TOKEN is not set; all control requests will be rejected")
	}

	stages := pipeline.DefaultStages()
	if config.PipelinePath != "" {
		loaded, err := pipeline.LoadStagesFile(config.PipelinePath)
		if err != nil {
			logger.Fatal("invalid pipeline config", zap.String("path", config.PipelinePath), zap.Error(err))
		}
		stages = loaded
	}
	provider := pipeline.NewProvider(stages, logger)
	if config.PipelinePath != "" {
		if err := provider.Watch(context.Background(), config.PipelinePath); err != nil {
			logger.Warn("stage file watch disabled", zap.Error(err))
		}
	}

	jobs := job.NewService(config, provider, logger)
	publisher := edition.NewPublisher(config.WebRoot, config.BackupDir)

	if config.GenerateCron != "" {
		if _, err := job.StartCron(config.GenerateCron, jobs, logger); err != nil {
			logger.Fatal("invalid GENERATE_CRON", zap.String("spec", config.GenerateCron), zap.Error(err))
		}
		logger.Info("daily trigger scheduled", zap.String("cron", config.GenerateCron))
	}

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := server.NewRouter(config, jobs, publisher)

	logger.Info("control server listening",
		zap.Int("port", config.Port),
		zap.String("web_root", config.WebRoot),
		zap.String("backup_dir", config.BackupDir))

	if err := r.Run(fmt.Sprintf(":%d", config.Port)); err != nil {
		panic(err)
	}
}
