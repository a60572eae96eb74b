package models

import "time"

// Player is created at registration. Name is the identity key: registering
// again with an existing name updates the company instead of creating a
// duplicate row (enforced by the unique index + upsert in the store).
type Player struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
}
