package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverToError recovers from a panic, logs it with its stack trace and
// stores it in *err. It must be deferred directly:
//
//	func configure() (err error) {
//	    defer observability.RecoverToError(log, "settings form", &err)
//	    // ... call into plugin-supplied code
//	}
func RecoverToError(log *logrus.Logger, where string, err *error) {
	r := recover()
	if r == nil {
		return
	}

	log.WithFields(logrus.Fields{
		"panic":   r,
		"stack":   string(debug.Stack()),
		"context": where,
	}).Error("PANIC recovered")

	if err != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}
