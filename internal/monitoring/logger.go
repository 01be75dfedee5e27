// Package monitoring holds the process-wide diagnostic logger shared by the
// command-line tools and the storage layer.
package monitoring

import (
	"io"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger or SetWriter.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetWriter routes Logf to w with the given line prefix. A nil writer mutes
// the logger.
func SetWriter(w io.Writer, prefix string) {
	if w == nil {
		SetLogger(nil)
		return
	}
	SetLogger(log.New(w, prefix, log.LstdFlags).Printf)
}
