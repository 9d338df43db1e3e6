package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/di"
)

// stopGrace is added to the HTTP shutdown timeout so the remaining stop hooks can finish
const stopGrace = 5 * time.Second

func main() {
	// A missing .env is fine; the environment and config.yaml still apply
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arcana-onboarding: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		fx.Supply(cfg),
		di.AppModule,
		fx.Invoke(di.PrintBanner),
		fx.StopTimeout(cfg.Server.ShutdownTimeout+stopGrace),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	app.Run()
}
