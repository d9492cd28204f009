// Package log — тонкая обертка над стандартным log: сообщения с префиксом
// [DEBUG] выводятся только при включенном AllowDebug.
package log

import (
	"log"
	"strings"
)

var AllowDebug = false

func Printf(format string, v ...any) {
	if !allowed(format) {
		return
	}
	log.Printf(format, v...)
}

// Debugf — сокращение для Printf с префиксом [DEBUG].
func Debugf(format string, v ...any) {
	Printf("[DEBUG] "+format, v...)
}

func Fatalf(format string, v ...any) {
	if !allowed(format) {
		return
	}
	log.Fatalf(format, v...)
}

func allowed(s string) bool {
	if AllowDebug {
		return true
	}
	return !strings.HasPrefix(s, "[DEBUG]")
}
