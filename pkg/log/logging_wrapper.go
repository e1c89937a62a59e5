package log

import (
	"os"
	"strings"

	"github.com/tacusci/logging/v2"
)

const LevelEnvKey = "DRAGON_EYE_LOGGING_LEVEL"

var Debug = func(format string, a ...interface{}) {
	logging.Debug(format, a...) //nolint
}

var Info = func(format string, a ...interface{}) {
	logging.Info(format, a...) //nolint
}

var Warn = func(format string, a ...interface{}) {
	logging.Warn(format, a...) //nolint
}

var Error = func(format string, a ...interface{}) {
	logging.Error(format, a...) //nolint
}

var Fatal = func(format string, a ...interface{}) {
	logging.Fatal(format, a...) //nolint
}

// SetLevelFromEnv configures the logging level and labels from
// the DRAGON_EYE_LOGGING_LEVEL env var, defaulting to warn.
func SetLevelFromEnv() {
	SetLevel(os.Getenv(LevelEnvKey))
}

func SetLevel(level string) {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	logging.CallbackLabel = false

	switch strings.ToLower(level) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "warn":
		logging.CurrentLoggingLevel = logging.WarnLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		logging.CallbackLabel = true
	case "silent":
		logging.CurrentLoggingLevel = logging.SilentLevel
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}
