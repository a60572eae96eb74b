package handlers

import (
	"github.com/gofiber/fiber/v2"

	"matchup-game-system/middleware"
	"matchup-game-system/services"
)

func SetupSettingsRoutes(app *fiber.App, settingsService *services.SettingsService) {
	app.Get("/settings", settingsService.GetSettings)
	app.Put("/settings", middleware.OperatorContextMiddleware(), settingsService.SaveSettings)
}
