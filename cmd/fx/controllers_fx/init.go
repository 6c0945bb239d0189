package controllers_fx

import (
	"go.uber.org/fx"

	"tripcrew/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController))
