// Package logger provides the configured zerolog logger used by every
// component of the assistant service.
package logger

import (
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

var setupOnce sync.Once

// New returns a zerolog.Logger tagged with the component name. Call sites
// use .Stack() on error events to include stack traces.
func New(component string) zerolog.Logger {
	setupOnce.Do(func() {
		// Marshal github.com/pkg/errors stacks; attach one to std errors so
		// .Stack() always has something to render.
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})

	return zerolog.New(os.Stdout).With().
		Str("service", component).
		Timestamp().
		Logger()
}
