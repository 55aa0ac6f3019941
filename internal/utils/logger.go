package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger from LOG_LEVEL/LOG_FORMAT values.
func SetupLogger(level, format string) {
	logrus.SetOutput(os.Stdout)
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// LogEvent logs a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	Event(requestID, module, action).Info(message)
}

// Event returns an entry carrying the standard fields, for callers that
// need another level or extra fields.
func Event(requestID, module, action string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"module":     strings.ToLower(module),
		"action":     action,
		"request_id": strings.TrimSpace(requestID),
	})
}
