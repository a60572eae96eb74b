package models

import "time"

// Winner announcement intervals recognized by AppSetting.
const (
	IntervalHourly      = "hourly"
	IntervalEvery2Hours = "every2hours"
	IntervalDisabled    = "disabled"
)

// AppSetting is the single-row process configuration. Loaded on demand,
// persisted on change.
type AppSetting struct {
	ID                         int       `gorm:"primaryKey" json:"-"`
	EnableNotifications        bool      `json:"enable_notifications"`
	ShowAnalytics              bool      `json:"show_analytics"`
	WinnerAnnouncementInterval string    `gorm:"type:varchar(16)" json:"winner_announcement_interval"`
	UpdatedAt                  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SessionMarker is the single-row "current session" boundary for leaderboard
// scoping. Clearing a session moves StartedAt forward; it never deletes
// scores.
type SessionMarker struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
}
