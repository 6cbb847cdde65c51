package utils

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// SafeAsync runs the function in a goroutine and turns a panic into an error log
// instead of a crashed process.
func SafeAsync(function func()) {
	go func() {
		defer recoverToLog()
		function()
	}()
}

func recoverToLog() {
	if e := recover(); e != nil {
		log.Errorf("Async task failed with panic: %v", e)
		log.Tracef("Stacktrace: %v", string(debug.Stack()))
	}
}
