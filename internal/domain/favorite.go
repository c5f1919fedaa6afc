package domain

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_champion"`
	ChampionID string    `json:"championId" gorm:"not null;uniqueIndex:idx_favorite_user_champion"`
	CreatedAt  time.Time `json:"createdAt"`
}
