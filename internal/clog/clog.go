// Package clog provides conditional logging shared by the coordinator and
// worker binaries.
package clog

import (
	"fmt"
	"log"
)

var enabled = false

// Enable turns on conditional log output process-wide. Called once from
// main() when the -l flag is given.
func Enable() {
	enabled = true
}

// A CLogger logs in the manner of the standard logger but can be
// conditionally silenced. By default conditional logging is disabled.
type CLogger struct {
	logger *log.Logger
}

// New creates a logger with the given prefix, built from a format string so
// callers can embed a role and instance id (e.g. "coordinator %s ").
func New(prefixFormat string, prefixArgs ...any) *CLogger {
	return &CLogger{
		log.New(
			log.Default().Writer(),
			fmt.Sprintf(prefixFormat, prefixArgs...),
			log.Ldate|log.Ltime|log.Lmicroseconds|log.Lmsgprefix,
		),
	}
}

// Printf logs conditionally (only if Enable has been called).
func (c *CLogger) Printf(format string, a ...any) {
	if !enabled {
		return
	}
	c.logger.Printf(format, a...)
}

// Errorf always logs, regardless of Enable.
func (c *CLogger) Errorf(format string, a ...any) {
	c.logger.Printf(format, a...)
}
