// Package rlog is a minimal leveled logger, reconstructed from the
// teacher's log.Logf(level, format, args...) call convention seen
// throughout the fuzzer package. It carries no sinks or rotation of its
// own; by default it writes to the standard logger at log.Printf.
package rlog

import (
	"log"
	"sync/atomic"
)

var verbosity atomic.Int32

// SetVerbosity sets the minimum level that Logf will emit. Higher levels
// are more verbose; the default verbosity of 0 only emits level-0 lines.
func SetVerbosity(v int) {
	verbosity.Store(int32(v))
}

// Logf emits a formatted line if level is at or below the current
// verbosity, mirroring the teacher's gated diagnostic logging.
func Logf(level int, format string, args ...any) {
	if int32(level) > verbosity.Load() {
		return
	}
	log.Printf(format, args...)
}
