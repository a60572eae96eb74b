package handlers

import (
	"github.com/gofiber/fiber/v2"

	"matchup-game-system/middleware"
	"matchup-game-system/services"
)

func SetupLeaderboardRoutes(app *fiber.App, windowService *services.WindowService) {
	app.Get("/leaderboard", windowService.GetLeaderboard)
	app.Get("/leaderboard/session", windowService.GetSessionLeaderboard)
	app.Get("/leaderboard/daily", windowService.GetDailyLeaderboard)

	// Clearing the session view is an operator action: it announces the
	// winners of the closing session and moves the boundary forward.
	app.Post("/leaderboard/session/clear", middleware.OperatorContextMiddleware(), windowService.ClearSessionHandler)
}
