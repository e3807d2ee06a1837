// Package clock abstracts wall time so report windows and invoice
// numbering are testable without touching the system clock.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module provides the real clock.
var Module = fx.Module("clock",
	fx.Provide(NewRealClock),
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
