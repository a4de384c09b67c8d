package main

import (
	"github.com/fulfillhq/shiftplan/adapter/cli"
	"github.com/fulfillhq/shiftplan/adapter/cli/schedule"
	"github.com/fulfillhq/shiftplan/pkg/config"
	"github.com/fulfillhq/shiftplan/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logLevel := observability.LogLevel(cfg.LogLevel)
	logFormat := observability.LogFormat(cfg.LogFormat)
	logger := observability.NewLogger(observability.LogConfig{
		Level:       logLevel,
		Format:      logFormat,
		ServiceName: "shiftplan",
	})
	cli.SetLogger(logger)

	cli.AddCommand(schedule.DemoCmd)
	cli.AddCommand(schedule.WeeklyDemoCmd)
	cli.AddCommand(schedule.DemandDemoCmd)

	cli.Execute()
}
