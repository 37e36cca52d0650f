// Package logger is the daemon's single logging seam. Every component
// logs through here instead of reaching for fmt or log directly.
package logger

import (
	"fmt"
	"strings"

	jww "github.com/spf13/jwalterweatherman"
)

// SetLevel sets the minimum level that reaches stdout. Accepts
// "trace", "debug", "info", "warn", "error", "critical", "fatal"
// case-insensitively; unrecognised values fall back to "info".
func SetLevel(level string) {
	jww.SetStdoutThreshold(parseLevel(level))
	jww.SetLogThreshold(parseLevel(level))
}

func parseLevel(level string) jww.Threshold {
	switch strings.ToLower(level) {
	case "trace":
		return jww.LevelTrace
	case "debug":
		return jww.LevelDebug
	case "warn", "warning":
		return jww.LevelWarn
	case "error":
		return jww.LevelError
	case "critical":
		return jww.LevelCritical
	case "fatal":
		return jww.LevelFatal
	default:
		return jww.LevelInfo
	}
}

func Debugf(format string, args ...any) { jww.DEBUG.Println(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { jww.INFO.Println(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { jww.WARN.Println(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { jww.ERROR.Println(fmt.Sprintf(format, args...)) }
