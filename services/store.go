package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"matchup-game-system/models"
)

// ScoreFilter narrows a score query to a time window. Nil bounds are open.
type ScoreFilter struct {
	Since *time.Time
	Until *time.Time
}

// ScoreStore is the persistence gateway for players and score records.
type ScoreStore interface {
	UpsertPlayer(ctx context.Context, name, company string) (*models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	AppendScore(ctx context.Context, rec *models.GameScore) error
	QueryScores(ctx context.Context, filter ScoreFilter) ([]models.GameScore, error)
}

// GormScoreStore backs ScoreStore with postgres.
type GormScoreStore struct {
	DB *gorm.DB
}

func NewGormScoreStore(db *gorm.DB) *GormScoreStore {
	return &GormScoreStore{DB: db}
}

var companyCaser = cases.Title(language.English, cases.NoLower)

// normalizeRegistration trims both fields and title-cases the company for
// display. The name is the player's identity key and is kept exactly as
// typed, casing included.
func normalizeRegistration(name, company string) (string, string) {
	return strings.TrimSpace(name), companyCaser.String(strings.TrimSpace(company))
}

// UpsertPlayer registers a player by name. Two concurrent registrations with
// the same name race on find-or-create, so this is a single atomic
// ON CONFLICT upsert against the unique name index rather than a lookup
// followed by an insert.
func (s *GormScoreStore) UpsertPlayer(ctx context.Context, name, company string) (*models.Player, error) {
	name, company = normalizeRegistration(name, company)

	player := models.Player{Name: name, Company: company}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"company"}),
	}).Create(&player).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert player %q: %w", name, err)
	}

	// The conflict path does not report the existing row's id; fetch it.
	var out models.Player
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load player %q after upsert: %w", name, err)
	}
	return &out, nil
}

func (s *GormScoreStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var player models.Player
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&player).Error; err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}
	return &player, nil
}

func (s *GormScoreStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *GormScoreStore) AppendScore(ctx context.Context, rec *models.GameScore) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to append score for %s: %w", rec.PlayerName, err)
	}
	return nil
}

// QueryScores returns records inside the filter window ordered by score then
// recency, the same order the backing store has always served leaderboards in.
func (s *GormScoreStore) QueryScores(ctx context.Context, filter ScoreFilter) ([]models.GameScore, error) {
	q := s.DB.WithContext(ctx).Model(&models.GameScore{})
	if filter.Since != nil {
		q = q.Where("recorded_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		q = q.Where("recorded_at < ?", *filter.Until)
	}

	var scores []models.GameScore
	if err := q.Order("score DESC").Order("recorded_at DESC").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	return scores, nil
}
