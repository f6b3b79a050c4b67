package reminder

import (
	"context"

	"go.uber.org/fx"

	"github.com/hccdispo/dispoplan/internal/config"
)

var Module = fx.Module("reminder",
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideStore),
	fx.Provide(New),
	fx.Invoke(StartScheduler),
)

func StartScheduler(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if !cfg.ReminderEnabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if err := sched.RestoreAll(startCtx); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
