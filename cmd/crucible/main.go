// Command crucible serves sandboxed code execution over the Model Context
// Protocol on stdin/stdout. Logs go to stderr so they never corrupt the
// protocol stream.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ChamsBouzaiene/crucible/internal/config"
	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
	"github.com/ChamsBouzaiene/crucible/internal/server"
)

const version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	fs := flag.NewFlagSet("crucible", flag.ExitOnError)
	configDir := fs.String("config-dir", "", "Directory holding config.json (default: user config dir)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (default: info or config file value)")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	if *showVersion {
		os.Stdout.WriteString("crucible " + version + "\n")
		return
	}

	fileCfg, err := loadFileConfig(*configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level := *logLevel
	if level == "" {
		level = fileCfg.LogLevel
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))

	cfg := fileCfg.Apply(sandbox.DefaultConfig())

	rt, err := sandbox.NewDockerRuntime()
	if err != nil {
		log.Fatalf("failed to create container runtime: %v", err)
	}

	eng, err := sandbox.New(cfg, rt, logger)
	if err != nil {
		log.Fatalf("failed to start sandbox engine: %v", err)
	}

	eng.EnsureImages(context.Background(), []string{cfg.PythonImage, cfg.AlpineImage})

	logger.Info("serving MCP over stdio",
		slog.String("version", version),
		slog.String("memory_limit", cfg.MemoryLimit),
		slog.Bool("network_access", cfg.NetworkAccess),
	)

	srv := server.New(eng, version, logger)
	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func loadFileConfig(dir string) (*config.Config, error) {
	var mgr *config.Manager
	if dir != "" {
		mgr = config.NewManagerAt(dir)
	} else {
		var err error
		mgr, err = config.NewManager()
		if err != nil {
			return nil, err
		}
	}
	return mgr.Load()
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
