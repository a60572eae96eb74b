package handlers

import (
	"github.com/gofiber/fiber/v2"

	"matchup-game-system/services"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	app.Get("/catalog", gameService.GetCatalog)

	app.Post("/games", gameService.StartGame)
	app.Get("/games/:id", gameService.GetGame)
	app.Post("/games/:id/flip", gameService.FlipTile)
	app.Post("/games/:id/new", gameService.NewGame)
	app.Post("/games/:id/start", gameService.RestartGame)
	app.Delete("/games/:id", gameService.EndGame)
}
