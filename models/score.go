package models

import "time"

// GameScore records one terminated game session. Player name/company are
// snapshotted at record time so leaderboard rows stay stable even if the
// player later re-registers under a different company.
type GameScore struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PlayerID      string    `gorm:"index;not null" json:"player_id"`
	PlayerName    string    `json:"player_name"`
	PlayerCompany string    `json:"player_company"`
	Score         int       `json:"score"`
	TilesRevealed int       `json:"tiles_revealed"`
	MatchedPairs  int       `json:"matched_pairs"`
	TimeRemaining int       `json:"time_remaining"`
	CompletedGame bool      `json:"completed_game"`
	RecordedAt    time.Time `gorm:"index;not null" json:"recorded_at"`
}
