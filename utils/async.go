package utils

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// SafeAsync runs f in a goroutine with panic recovery. A panicking task must
// never take the whole process down.
func SafeAsync(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("Recovered from panic in async func: %v", r)
				log.Tracef("Stacktrace: %v", string(debug.Stack()))
			}
		}()
		f()
	}()
}

// SafeCall invokes f synchronously and converts a panic into an error.
func SafeCall(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Tracef("Stacktrace: %v", string(debug.Stack()))
			err = fmt.Errorf("recovered from panic: %v", r)
		}
	}()
	return f()
}
