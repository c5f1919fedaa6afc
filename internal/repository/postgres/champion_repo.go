package postgres

import (
	"context"

	"github.com/dom/league-builds/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type championRepository struct {
	db *gorm.DB
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{db: db}
}

// SyncRoster makes the table mirror one patch's roster: every champion is
// upserted with that version and rows left over from other patches are
// removed. An empty roster leaves the table untouched.
func (r *championRepository) SyncRoster(ctx context.Context, version string, champions []*domain.Champion) (int64, error) {
	if len(champions) == 0 {
		return 0, nil
	}
	for _, c := range champions {
		c.Version = version
	}

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"key", "name", "title", "image_url", "tags", "partype", "version", "last_synced_at",
			}),
		}).Create(champions).Error
		if err != nil {
			return err
		}

		res := tx.Where("version <> ?", version).Delete(&domain.Champion{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}

// List returns champions ordered by name. An empty version lists every row.
func (r *championRepository) List(ctx context.Context, version string) ([]*domain.Champion, error) {
	champions := make([]*domain.Champion, 0)
	q := r.db.WithContext(ctx).Order("name ASC")
	if version != "" {
		q = q.Where("version = ?", version)
	}
	if err := q.Find(&champions).Error; err != nil {
		return nil, err
	}
	return champions, nil
}

func (r *championRepository) GetByID(ctx context.Context, id string) (*domain.Champion, error) {
	var champion domain.Champion
	err := r.db.WithContext(ctx).First(&champion, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &champion, nil
}
