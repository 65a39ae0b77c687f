// ABOUTME: Entry point for the Spindle audio player
// ABOUTME: Parses CLI flags and runs one playback session
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/spindle-audio/spindle-go/internal/app"
	"github.com/spindle-audio/spindle-go/internal/config"
	"github.com/spindle-audio/spindle-go/internal/logging"
	"github.com/spindle-audio/spindle-go/internal/version"
)

// defaultFilePath is played when no file argument is given.
const defaultFilePath = "sample.wav"

var (
	cli        = kingpin.New("spindle", "Spindle audio file player")
	configPath = cli.Flag("config", "Path to config file").String()
	verbose    = cli.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = cli.Flag("logfile", "Path to log file (default: stderr)").String()
	noTUI      = cli.Flag("no-tui", "Disable TUI, use streaming logs instead").Bool()
	filePath   = cli.Arg("file", "Audio file to play").Default(defaultFilePath).String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	cli.Version(version.Version)
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := loadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logCfg := logging.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
	}
	if *verbose {
		logCfg.Level = "debug"
	}
	if *logfile != "" {
		logCfg.Output = *logfile
	}
	useTUI := !*noTUI
	if useTUI && (logCfg.Output == "stderr" || logCfg.Output == "stdout") {
		// The TUI owns the terminal, so console logging would corrupt it.
		logCfg.Output = "spindle.log"
	}
	if err := logging.Init(logCfg); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().
		Str("version", version.Version).
		Str("file", *filePath).
		Msgf("Starting %s", version.Product)

	if err := run(cfg, useTUI); err != nil {
		zlog.Error().Msgf("Playback error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file when one is given, otherwise returns
// defaults.
func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.Load(*configPath)
	}
	return config.Default()
}

// run executes the playback logic. Using a separate function ensures
// defer statements run even when returning with an error.
func run(cfg *config.Config, useTUI bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(app.Options{
		File:   *filePath,
		Config: cfg,
		UseTUI: useTUI,
	})
	return a.Run(ctx)
}
