package logger_config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the shared structured logger.
// It is safe for concurrent use.
var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL"))) // debug|info|warn|error

	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func parseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// With returns an entry tagged with the given component name.
func With(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}

// Sugar helpers (printf-style), convenient for quick telemetry.
func Debugf(format string, args ...any) { Logger.Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { Logger.Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { Logger.Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { Logger.Error(fmt.Sprintf(format, args...)) }
