package handlers

import (
	"padel-club-system/middleware"
	"padel-club-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, playerService *services.PlayerService) {
	app.Get("/players/search", playerService.SearchPlayers)
	app.Get("/players/:id", playerService.GetPlayer)

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/matches", matchService.RecordMatch)
	secured.Get("/matches/mine", matchService.ListUserMatches)
	secured.Get("/matches/:id", matchService.GetMatch)

	// Confirmation finalizes the result and runs league point attribution in-process.
	secured.Post("/matches/:id/confirm", matchService.ConfirmMatch)
}
