package main

import (
	"context"
	"flag"
	"os"

	"github.com/grmskyi/user-auth-system/config"
	"github.com/grmskyi/user-auth-system/internal/app"
	"github.com/grmskyi/user-auth-system/internal/domain/types"
	"github.com/grmskyi/user-auth-system/pkg/logger"

	_ "github.com/grmskyi/user-auth-system/docs" // swagger docs
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger(types.ServiceName, logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return
	}

	if logger.ValidateLogLevel(cfg.LogLevel) {
		log = logger.InitLogger(types.ServiceName, cfg.LogLevel)
	}

	// Creating application
	app, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the apllication
	if err = app.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
