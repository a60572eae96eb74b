package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"matchup-game-system/models"
)

// SessionMarkerStore persists the "current session" boundary.
type SessionMarkerStore interface {
	// SessionStart returns the stored boundary, establishing init as the
	// boundary on first access.
	SessionStart(ctx context.Context, init time.Time) (time.Time, error)
	SetSessionStart(ctx context.Context, t time.Time) error
}

// GormMarkerStore keeps the marker in a single-row table so every instance
// sees the same boundary.
type GormMarkerStore struct {
	DB *gorm.DB
}

func (s *GormMarkerStore) SessionStart(ctx context.Context, init time.Time) (time.Time, error) {
	var m models.SessionMarker
	err := s.DB.WithContext(ctx).First(&m, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.SessionMarker{ID: 1, StartedAt: init}
		if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
			return time.Time{}, fmt.Errorf("failed to create session marker: %w", err)
		}
		return m.StartedAt, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load session marker: %w", err)
	}
	return m.StartedAt, nil
}

func (s *GormMarkerStore) SetSessionStart(ctx context.Context, t time.Time) error {
	if err := s.DB.WithContext(ctx).Save(&models.SessionMarker{ID: 1, StartedAt: t}).Error; err != nil {
		return fmt.Errorf("failed to move session marker: %w", err)
	}
	return nil
}

// WinnersArchiver stores a winners snapshot somewhere durable before a
// session is cleared.
type WinnersArchiver interface {
	ArchiveWinners(ctx context.Context, winners []models.GameScore, clearedAt time.Time) error
}

// WindowService scopes leaderboard queries to the current session and the
// current calendar day.
type WindowService struct {
	Store   ScoreStore
	Markers SessionMarkerStore
	Archive WinnersArchiver // optional
	Now     func() time.Time
}

func NewWindowService(store ScoreStore, markers SessionMarkerStore, archive WinnersArchiver) *WindowService {
	return &WindowService{Store: store, Markers: markers, Archive: archive, Now: time.Now}
}

// AllTimeScores returns every recorded score, ranked.
func (w *WindowService) AllTimeScores(ctx context.Context) ([]models.GameScore, error) {
	scores, err := w.Store.QueryScores(ctx, ScoreFilter{})
	if err != nil {
		return nil, err
	}
	return SortLeaderboard(scores), nil
}

// CurrentSessionScores returns scores recorded since the session boundary.
func (w *WindowService) CurrentSessionScores(ctx context.Context) ([]models.GameScore, error) {
	start, err := w.Markers.SessionStart(ctx, w.Now())
	if err != nil {
		return nil, err
	}
	scores, err := w.Store.QueryScores(ctx, ScoreFilter{Since: &start})
	if err != nil {
		return nil, err
	}
	return SortLeaderboard(scores), nil
}

// DailyScores returns scores recorded within the current calendar day in
// local time, independent of the session boundary.
func (w *WindowService) DailyScores(ctx context.Context) ([]models.GameScore, error) {
	now := w.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	scores, err := w.Store.QueryScores(ctx, ScoreFilter{Since: &dayStart, Until: &dayEnd})
	if err != nil {
		return nil, err
	}
	return SortLeaderboard(scores), nil
}

// ClearSession snapshots the top 3 of the closing session, archives the
// snapshot, then moves the boundary to now. The snapshot strictly precedes
// the marker move so no announced winner is already outside the session. No
// score records are deleted.
func (w *WindowService) ClearSession(ctx context.Context) ([]models.GameScore, error) {
	scores, err := w.CurrentSessionScores(ctx)
	if err != nil {
		return nil, err
	}
	winners := scores
	if len(winners) > 3 {
		winners = winners[:3]
	}

	now := w.Now()
	if w.Archive != nil && len(winners) > 0 {
		if err := w.Archive.ArchiveWinners(ctx, winners, now); err != nil {
			log.Printf("[SESSION] ⚠️ failed to archive winners snapshot: %v", err)
		}
	}

	if err := w.Markers.SetSessionStart(ctx, now); err != nil {
		return nil, err
	}
	return winners, nil
}

// GetLeaderboard serves the all-time leaderboard. Storage failures fall back
// to an empty list with a load error, never a crash.
func (w *WindowService) GetLeaderboard(c *fiber.Ctx) error {
	scores, err := w.AllTimeScores(c.Context())
	return leaderboardResponse(c, scores, err)
}

// GetSessionLeaderboard serves scores of the current session.
func (w *WindowService) GetSessionLeaderboard(c *fiber.Ctx) error {
	scores, err := w.CurrentSessionScores(c.Context())
	return leaderboardResponse(c, scores, err)
}

// GetDailyLeaderboard serves scores of the current day.
func (w *WindowService) GetDailyLeaderboard(c *fiber.Ctx) error {
	scores, err := w.DailyScores(c.Context())
	return leaderboardResponse(c, scores, err)
}

// ClearSessionHandler closes the current session and returns its winners.
func (w *WindowService) ClearSessionHandler(c *fiber.Ctx) error {
	winners, err := w.ClearSession(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to clear session",
			"cause": err.Error(),
		})
	}
	if winners == nil {
		winners = []models.GameScore{}
	}
	log.Printf("[SESSION] 🏁 session cleared by %v, %d winner(s) announced", c.Locals("operator_id"), len(winners))
	return c.JSON(fiber.Map{"winners": winners})
}

func leaderboardResponse(c *fiber.Ctx, scores []models.GameScore, err error) error {
	if err != nil {
		log.Printf("[LEADERBOARD] ⚠️ fetch failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "failed to load leaderboard",
			"scores": []models.GameScore{},
		})
	}
	if scores == nil {
		scores = []models.GameScore{}
	}
	return c.JSON(fiber.Map{"scores": scores})
}
