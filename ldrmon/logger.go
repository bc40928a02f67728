package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger creates a console logger at the named level.
// Unknown level names fall back to info.
func newLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
