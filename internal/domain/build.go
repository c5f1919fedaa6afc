package domain

import (
	"time"

	"github.com/google/uuid"
)

// Build is a persisted item build. Items holds the JSON-encoded id array
// exactly as the client sent it, ordered by catalog display order.
type Build struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Champion  string    `json:"champion" gorm:"not null;index"`
	Items     string    `json:"items" gorm:"type:text;not null"`
	Runes     string    `json:"runes" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
