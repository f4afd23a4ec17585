package dams

import (
	"github.com/ozwatts/gridwatch/internal/dams/repository"
	"github.com/ozwatts/gridwatch/internal/dams/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dams.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
