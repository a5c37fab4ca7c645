package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup builds the process logger and installs it as the global zerolog
// logger. Logs go to stderr so stdout stays reserved for command output.
func Setup(dev bool) zerolog.Logger {
	return SetupWithWriter(dev, os.Stderr)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(dev bool, w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Caller().Logger()
	}

	log.Logger = logger

	return logger
}
