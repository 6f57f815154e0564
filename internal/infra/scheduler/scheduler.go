package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"teacher_hours_dashboard/internal/app"
)

// RefreshScheduler re-runs the fetch-and-validate pipeline on a cron spec,
// mirroring the periodic refresh a dashboard user would otherwise trigger by
// hand.
type RefreshScheduler struct {
	cronEngine *cron.Cron
	svc        *app.DashboardService
	logger     *logrus.Logger
	cronSpec   string
}

func NewRefreshScheduler(svc *app.DashboardService, logger *logrus.Logger, cronSpec string) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		svc:        svc,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *RefreshScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Debug("cron refresh triggered")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.svc.Refresh(ctx); err != nil {
			s.logger.WithError(err).Error("scheduled refresh failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("refresh scheduler started with spec %q", s.cronSpec)
	return nil
}

func (s *RefreshScheduler) Stop() {
	ctx := s.cronEngine.Stop() // waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("refresh scheduler stopped")
}
