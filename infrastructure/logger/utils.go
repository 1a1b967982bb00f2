package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs that the named function has started, and
// returns a closure that logs its total run time when called. Meant to be
// used with defer.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}
