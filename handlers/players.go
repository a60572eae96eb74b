package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"matchup-game-system/models"
	"matchup-game-system/services"
)

func SetupPlayerRoutes(app *fiber.App, store services.ScoreStore) {
	// Registration. Same name = same player; only the company is refreshed.
	app.Post("/players", func(c *fiber.Ctx) error {
		var req struct {
			Name    string `json:"name"`
			Company string `json:"company"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if strings.TrimSpace(req.Name) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}

		player, err := store.UpsertPlayer(c.Context(), req.Name, req.Company)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to register player",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(player)
	})

	app.Get("/players", func(c *fiber.Ctx) error {
		players, err := store.ListPlayers(c.Context())
		if err != nil {
			log.Printf("[PLAYERS] ⚠️ list failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "failed to load players",
				"players": []models.Player{},
			})
		}
		if players == nil {
			players = []models.Player{}
		}
		return c.JSON(fiber.Map{"players": players})
	})
}
