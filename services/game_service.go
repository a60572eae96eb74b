package services

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"matchup-game-system/data"
	"matchup-game-system/models"
)

// GameService owns the live game sessions. Sessions are independent and
// single-player; the registry mutex only guards the map itself.
type GameService struct {
	Store   ScoreStore
	Config  GameConfig
	Catalog []data.Service

	mu       sync.Mutex
	sessions map[string]*GameSession
}

func NewGameService(store ScoreStore, cfg GameConfig, catalog []data.Service) *GameService {
	return &GameService{
		Store:    store,
		Config:   cfg,
		Catalog:  catalog,
		sessions: make(map[string]*GameSession),
	}
}

// CreateSession registers a fresh NotStarted session for the player.
func (g *GameService) CreateSession(player models.Player) *GameSession {
	sess := &GameSession{
		ID:        uuid.New().String(),
		Player:    player,
		cfg:       g.Config,
		catalog:   g.Catalog,
		state:     StateNotStarted,
		remaining: g.Config.SessionSeconds,
	}
	if g.Store != nil {
		store := g.Store
		sess.save = func(rec *models.GameScore) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return store.AppendScore(ctx, rec)
		}
	}

	g.mu.Lock()
	g.sessions[sess.ID] = sess
	g.mu.Unlock()
	return sess
}

// Session looks up a live session by id.
func (g *GameService) Session(id string) *GameSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions[id]
}

// DropSession discards a session and stops its timers ("change player").
func (g *GameService) DropSession(id string) {
	g.mu.Lock()
	sess := g.sessions[id]
	delete(g.sessions, id)
	g.mu.Unlock()
	if sess != nil {
		sess.Close()
	}
}

// StartGame creates a session for a registered player and starts it.
func (g *GameService) StartGame(c *fiber.Ctx) error {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.PlayerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_id is required"})
	}

	player, err := g.Store.GetPlayer(c.Context(), req.PlayerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found", "cause": err.Error()})
	}

	sess := g.CreateSession(*player)
	sess.Start()
	return c.Status(fiber.StatusCreated).JSON(sess.Snapshot())
}

// GetGame returns the current session snapshot.
func (g *GameService) GetGame(c *fiber.Ctx) error {
	sess := g.Session(c.Params("id"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	return c.JSON(sess.Snapshot())
}

// FlipTile flips one tile. A rejected flip is not an error; the client just
// gets the unchanged board back.
func (g *GameService) FlipTile(c *fiber.Ctx) error {
	sess := g.Session(c.Params("id"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}

	var req struct {
		TileID string `json:"tile_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	accepted := sess.Flip(req.TileID)
	return c.JSON(fiber.Map{
		"accepted": accepted,
		"game":     sess.Snapshot(),
	})
}

// NewGame resets the session to NotStarted for another round.
func (g *GameService) NewGame(c *fiber.Ctx) error {
	sess := g.Session(c.Params("id"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	sess.Reset()
	return c.JSON(sess.Snapshot())
}

// RestartGame starts a new round on an existing session.
func (g *GameService) RestartGame(c *fiber.Ctx) error {
	sess := g.Session(c.Params("id"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	sess.Reset()
	sess.Start()
	return c.JSON(sess.Snapshot())
}

// EndGame discards the session ("change player").
func (g *GameService) EndGame(c *fiber.Ctx) error {
	id := c.Params("id")
	if g.Session(id) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	g.DropSession(id)
	return c.JSON(fiber.Map{"message": "game session closed"})
}

// GetCatalog lists the matchable services.
func (g *GameService) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(g.Catalog)
}
