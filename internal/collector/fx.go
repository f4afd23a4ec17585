package collector

import (
	"github.com/ozwatts/gridwatch/internal/collector/sources"
	"go.uber.org/fx"
)

var Module = fx.Module("collector",
	fx.Provide(
		NewTracker,
		sources.NewAEMOSource,
		sources.NewDamSource,
		NewRunner,
	),
)
