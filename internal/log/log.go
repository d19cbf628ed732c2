// Package log configures the process-wide logrus logger.
// Diagnostics always go to stderr so stdout stays usable for URLs and JSON.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

// Setup sets the output, formatter and level. Unknown levels fall back to info.
func Setup(level string, json bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logrus.SetOutput(w)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// ValidLevel reports whether logrus understands the level name.
func ValidLevel(level string) bool {
	_, err := logrus.ParseLevel(level)
	return err == nil
}

// WithFields returns an entry carrying structured fields.
func WithFields(f Fields) *logrus.Entry {
	return logrus.WithFields(f)
}

func Debugf(format string, args ...interface{}) { logrus.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logrus.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logrus.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logrus.Errorf(format, args...) }
