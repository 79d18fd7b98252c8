package logging

import (
	"io"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelSilent Level = iota
	LevelError
	LevelInfo
	LevelDebug
)

var current atomic.Int32

func init() { current.Store(int32(LevelInfo)) }

// ParseLevel maps LOG_LEVEL values; unknown strings fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off":
		return LevelSilent
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func SetLevel(s string) {
	lvl := ParseLevel(s)
	current.Store(int32(lvl))
	if lvl > LevelSilent {
		log.Printf("[log] level set to %s", levelName(lvl))
	}
}

func Enabled(l Level) bool { return Level(current.Load()) >= l }

func Debugf(format string, v ...any) {
	if Enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...any) {
	if Enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if Enabled(LevelError) {
		log.Printf("[ERROR] "+format, v...)
	}
}

// SetOutput redirects the standard logger, mostly for tests.
func SetOutput(w io.Writer) { log.SetOutput(w) }

func levelName(l Level) string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelDebug:
		return "debug"
	}
	return "info"
}
