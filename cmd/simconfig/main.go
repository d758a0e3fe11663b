package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/simconfig/internal/application"
	"github.com/eugenenazirov/simconfig/internal/config"
	"github.com/eugenenazirov/simconfig/internal/logging"
)

const interruptedExitCode = 130

var (
	signalNotify = signal.Notify
	exit         = os.Exit
)

func main() {
	kingpinApp := kingpin.New("simconfig", "Warehouse simulation configuration loader - merges base and project settings and answers lookups")
	configFile := kingpinApp.Flag("config", "Path to YAML settings file").String()
	baseFile := kingpinApp.Flag("base", "Base configuration file").String()
	overrideFile := kingpinApp.Flag("override", "Project configuration file applied over the base").String()
	dumpFormat := kingpinApp.Flag("dump-format", "Format of the configuration dump").Enum("text", "yaml")
	repeatKey := kingpinApp.Flag("repeat-key", "Key that repeats the interactive lookup").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").Enum("debug", "info", "warn", "error")

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(&config.CLIOverrides{
		ConfigFile:   *configFile,
		BaseFile:     baseFile,
		OverrideFile: overrideFile,
		DumpFormat:   dumpFormat,
		RepeatKey:    repeatKey,
		LogLevel:     logLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	handleInterrupt(logger)

	app, err := application.New(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Run(); err != nil {
		logger.Fatal("configuration session failed", zap.Error(err))
	}
}

// handleInterrupt flushes the logger and exits when the interactive session
// is interrupted, since the blocking console read has no other exit path.
func handleInterrupt(logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("interrupted", zap.String("signal", sig.String()))
		_ = logger.Sync()
		exit(interruptedExitCode)
	}()
}
