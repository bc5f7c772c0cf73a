// Package clock isolates wall-clock reads so "today" is always an explicit,
// injectable value rather than ambient state.
package clock

import (
	"time"

	"go.uber.org/fx"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystem() Clock { return systemClock{} }

var Module = fx.Options(
	fx.Provide(NewSystem),
)
