package logx

import (
	"io"
	"os"
	"strings"

	"github.com/damsole-chat/server/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Level overrides the environment default when set (debug, info, warn, error).
	Level string
	// Output defaults to stdout in production and a console writer on stderr otherwise.
	Output io.Writer
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)

	level := zerolog.DebugLevel
	if o.Environment.IsProduction() {
		level = zerolog.InfoLevel
	}
	if o.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(o.Level)); err == nil {
			level = parsed
		}
	}

	if o.Environment.IsProduction() {
		out := o.Output
		if out == nil {
			out = os.Stdout
		}
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
		return
	}

	out := o.Output
	if out == nil {
		out = zerolog.NewConsoleWriter()
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger().Level(level)
}

// Logger returns the process logger, e.g. for request middleware.
func Logger() *zerolog.Logger {
	return &log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
