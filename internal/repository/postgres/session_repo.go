package postgres

import (
	"context"
	"time"

	"github.com/dom/league-builds/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// Rotate replaces every session of the user with session in one
// transaction, so a user holds at most one refresh token.
func (r *sessionRepository) Rotate(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.UserSession{}, "user_id = ?", session.UserID).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

// GetActive returns the user's session if it expires after now.
// Expired rows read as gorm.ErrRecordNotFound.
func (r *sessionRepository) GetActive(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteExpired drops the user's sessions that expired at or before now.
func (r *sessionRepository) DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.UserSession{}, "user_id = ? AND expires_at <= ?", userID, now)
	return res.RowsAffected, res.Error
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.UserSession{}, "user_id = ?", userID).Error
}
