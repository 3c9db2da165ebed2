package helpers

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.AddHook(RedactHook{})
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

var redactKeys = []string{"password", "token", "secret", "authorization", "cookie"}

func isRedactKey(key string) bool {
	k := strings.ToLower(key)
	for _, r := range redactKeys {
		if strings.Contains(k, r) {
			return true
		}
	}
	return false
}

// RedactHook masks field values whose key looks like a credential.
type RedactHook struct{}

func (RedactHook) Levels() []logrus.Level { return logrus.AllLevels }

func (RedactHook) Fire(e *logrus.Entry) error {
	for k := range e.Data {
		if isRedactKey(k) {
			e.Data[k] = "[REDACTED]"
		}
	}
	return nil
}

// LogError Convenience methods to keep a unified logging interface
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.WithFields(fields).Error(msg)
}
