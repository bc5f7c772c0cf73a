package analytics

import "go.uber.org/fx"

// Module exposes the aggregation service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
