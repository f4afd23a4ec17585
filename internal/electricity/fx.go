package electricity

import (
	"github.com/ozwatts/gridwatch/internal/electricity/repository"
	"github.com/ozwatts/gridwatch/internal/electricity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("electricity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
