package handlers

import (
	"padel-club-system/middleware"
	"padel-club-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClubRoutes(app *fiber.App, clubService *services.ClubService) {
	app.Get("/clubs/:id", clubService.GetClub)

	secured := app.Group("/", middleware.UserContextMiddleware())
	secured.Post("/clubs", clubService.CreateClub)
	secured.Post("/clubs/:id/join", clubService.JoinClub)
}
