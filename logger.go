package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const logPath = "debug/game-video.log"

// initLogger writes human readable logs to stderr and full debug logs to logPath.
func initLogger() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, f)).
		With().
		Timestamp().
		Logger()
	return f, nil
}
