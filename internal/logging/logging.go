package logging

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var (
	current Level = LevelInfo
	logger        = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006/01/02 15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|error) and the
// output format based on LOG_FORMAT (console|json).
func InitFromEnv() {
	current = ParseLevel(os.Getenv("LOG_LEVEL"))
	logger = newLogger(os.Stderr, strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"))
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer, level Level) {
	current = level
	logger = newLogger(w, true)
}

func Debugf(format string, args ...interface{}) {
	if current <= LevelDebug {
		logger.Debug().Msg(render(format, args...))
	}
}

func Infof(format string, args ...interface{}) {
	if current <= LevelInfo {
		logger.Info().Msg(render(format, args...))
	}
}

func Errorf(format string, args ...interface{}) {
	logger.Error().Msg(render(format, args...))
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatal().Msg(render(format, args...))
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func render(format string, args ...interface{}) string {
	return emailRe.ReplaceAllStringFunc(fmt.Sprintf(format, args...), MaskEmail)
}

// MaskEmail hides most of the local part: "alice@example.com" -> "al***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***@***"
	}
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}
