package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
	"github.com/jrjohn/arcana-onboarding-go/internal/scheduler"
)

// SchedulerModule provides the abandoned session sweeper
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(provideSweeper),
	fx.Invoke(startSweeper),
)

func provideSweeper(
	repo repository.FormSessionRepository,
	sessionCfg *config.SessionConfig,
	cfg *config.SweeperConfig,
	logger *zap.Logger,
) (*scheduler.Sweeper, error) {
	return scheduler.NewSweeper(repo, sessionCfg.TTL, cfg.Schedule, logger)
}

func startSweeper(lc fx.Lifecycle, sweeper *scheduler.Sweeper, cfg *config.SweeperConfig) {
	if !cfg.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}
