package handlers

import (
	"padel-club-system/middleware"
	"padel-club-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeagueRoutes(app *fiber.App, leagueService *services.LeagueService) {
	// 🔓 Public listing (still behind the gateway token)
	app.Get("/clubs/:id/leagues", leagueService.ListClubLeagues)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/leagues", leagueService.CreateLeague)
	secured.Post("/leagues/:id/join", leagueService.JoinLeague)

	// League detail triggers the phase transition when a boundary has passed.
	secured.Get("/leagues/:id", leagueService.GetLeagueDetail)
	secured.Get("/leagues/:id/history", leagueService.GetPhaseHistory)
}
