package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Champion is the roster row kept in postgres so the champion grid can be
// served without a Data Dragon round trip.
type Champion struct {
	ID           string         `json:"id" gorm:"primaryKey"`     // e.g., "Aatrox"
	Key          string         `json:"key" gorm:"not null"`      // e.g., "266"
	Name         string         `json:"name" gorm:"not null"`     // Display name
	Title        string         `json:"title"`                    // e.g., "the Darkin Blade"
	ImageURL     string         `json:"imageUrl" gorm:"not null"` // Full URL to champion image
	Tags         datatypes.JSON `json:"tags" gorm:"type:jsonb"`   // ["Fighter", "Tank"]
	Partype      string         `json:"partype"`                  // "Mana", "Energy", "None", ...
	Version      string         `json:"version"`                  // Data Dragon patch the row was synced from
	LastSyncedAt time.Time      `json:"lastSyncedAt"`
}
