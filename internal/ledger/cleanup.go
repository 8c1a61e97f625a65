package ledger

import (
	"context"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DeleteEverything permanently removes all data, soft deleted rows
// included, and creates the default categories again.
func (l *Ledger) DeleteEverything(ctx context.Context) error {
	// Models referencing others come first, foreign keys are checked
	resources := []any{
		&models.Record{},
		&models.RecordTemplate{},
		&models.Bucket{},
		&models.Account{},
	}

	return l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range resources {
			if err := tx.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		// Subcategories reference their parent
		if err := tx.Unscoped().Where("parent_category_id IS NOT NULL").Delete(&models.Category{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
			return err
		}

		log.Warn().Msg("deleted all data")
		return models.CreateDefaultCategories(tx)
	})
}
