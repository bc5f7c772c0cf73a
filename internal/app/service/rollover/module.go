package rollover

import "go.uber.org/fx"

// Module exposes the ledger rollover service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
