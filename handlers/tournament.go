package handlers

import (
	"padel-club-system/middleware"
	"padel-club-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService) {
	// 🔓 Public detail (still behind the gateway token)
	app.Get("/tournaments/:id", tournamentService.GetTournament)
	app.Get("/tournaments/:id/bracket", tournamentService.GetBracket)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/tournaments", tournamentService.CreateTournament)
	secured.Post("/tournaments/:id/registrations", tournamentService.RegisterTeam)

	// Bracket management (club admins)
	secured.Post("/tournaments/:id/bracket", tournamentService.GenerateBracket)
	secured.Post("/tournaments/:id/bracket/matches/:match_id/result", tournamentService.ReportBracketResult)
	secured.Post("/tournaments/:id/calculate-final-ranking", tournamentService.CalculateFinalRanking)
}
