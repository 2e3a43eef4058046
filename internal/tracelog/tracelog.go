// Package tracelog is a level-gated trace logger in the teacher's
// style (src/common.go's Trace/Tracet/TraceOpen), with file rotation
// delegated to lumberjack instead of the teacher's own day-boundary
// file-swap logic.
package tracelog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	out       *lumberjack.Logger
	level     int
	startTime time.Time
)

// Open starts tracing to file, rotating it per lumberjack's defaults
// tightened for flight-log-sized runs: small max size, short retention.
func Open(file string) {
	out = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	startTime = time.Now()
}

// Close flushes and releases the trace file.
func Close() {
	if out != nil {
		out.Close()
		out = nil
	}
}

// Level sets the highest trace level that gets written; messages with a
// larger level are dropped.
func Level(l int) {
	level = l
}

// Trace writes a level-gated message with no timestamp prefix, mirroring
// src/common.go's Trace.
func Trace(l int, format string, v ...interface{}) {
	if l <= 1 {
		fmt.Fprintf(os.Stderr, format, v...)
	}
	if out == nil || l > level {
		return
	}
	fmt.Fprintf(out, "%d "+format, append([]interface{}{l}, v...)...)
}

// Tracet writes a level-gated message prefixed with seconds since Open,
// mirroring src/common.go's Tracet.
func Tracet(l int, format string, v ...interface{}) {
	if out == nil || l > level {
		return
	}
	elapsed := time.Since(startTime).Seconds()
	fmt.Fprintf(out, "%d %9.3f: "+format, append([]interface{}{l, elapsed}, v...)...)
}
