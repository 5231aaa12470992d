package job

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCron self-triggers a daily run on the given cron spec, for
// deployments without an external timer. A tick that lands while a run is
// in flight is rejected by the single-flight check like any other start.
func StartCron(spec string, svc *Service, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		record, err := svc.Start()
		if err != nil {
			logger.Warn("scheduled run rejected", zap.Error(err))
			return
		}
		logger.Info("scheduled run started", zap.Int64("run_id", record.ID))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
