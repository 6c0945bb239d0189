package config_fx

import (
	"go.uber.org/fx"

	"tripcrew/internal/config"
)

var Module = fx.Provide(config.Load)
