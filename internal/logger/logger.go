package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Setup(dev bool) zerolog.Logger {
	return setup(os.Stderr, dev)
}

// Install sets up the logger and makes it the global logger used by the
// library packages.
func Install(dev bool) zerolog.Logger {
	logger := Setup(dev)
	log.Logger = logger
	return logger
}

func setup(out io.Writer, dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

// WithBuild returns a child logger tagged with the build mode and ID so every
// line logged for one build can be correlated.
func WithBuild(logger zerolog.Logger, mode, buildID string) zerolog.Logger {
	return logger.With().Str("mode", mode).Str("build_id", buildID).Logger()
}
