package ledger

import (
	"context"
	"time"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TemplatePatch contains the fields of a template to update. Nil fields are
// not changed. The nil UUID for CategoryID removes the category.
type TemplatePatch struct {
	Label      *string          `json:"label"`
	Amount     *decimal.Decimal `json:"amount"`
	AccountID  *uuid.UUID       `json:"accountId"`
	CategoryID *uuid.UUID       `json:"categoryId"`
	IsIncome   *bool            `json:"isIncome"`
}

// CreateTemplate saves a new record template.
func (l *Ledger) CreateTemplate(ctx context.Context, editable models.RecordTemplateEditable) (models.RecordTemplate, error) {
	editable.Amount = l.Round(editable.Amount)

	template, err := models.NewRecordTemplate(editable)
	if err != nil {
		return models.RecordTemplate{}, err
	}

	err = l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTemplateReferences(tx, template); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(&template).Error
	})

	return template, err
}

func checkTemplateReferences(tx *gorm.DB, t models.RecordTemplate) error {
	if err := tx.First(&models.Account{}, "id = ?", t.AccountID).Error; err != nil {
		return err
	}

	if t.CategoryID != nil {
		return tx.First(&models.Category{}, "id = ?", *t.CategoryID).Error
	}

	return nil
}

// Template returns the template with the given ID.
func (l *Ledger) Template(ctx context.Context, id uuid.UUID) (models.RecordTemplate, error) {
	var template models.RecordTemplate
	err := l.conn(ctx).First(&template, "id = ?", id).Error
	return template, err
}

// Templates returns all templates ordered by label.
func (l *Ledger) Templates(ctx context.Context) ([]models.RecordTemplate, error) {
	templates := []models.RecordTemplate{}
	err := l.conn(ctx).Order("label ASC").Find(&templates).Error
	return templates, err
}

// UpdateTemplate applies the patch to a template.
func (l *Ledger) UpdateTemplate(ctx context.Context, id uuid.UUID, patch TemplatePatch) (models.RecordTemplate, error) {
	var template models.RecordTemplate

	err := l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&template, "id = ?", id).Error; err != nil {
			return err
		}

		if patch.Label != nil {
			template.Label = *patch.Label
		}

		if patch.Amount != nil {
			template.Amount = l.Round(*patch.Amount)
		}

		if patch.AccountID != nil {
			template.AccountID = *patch.AccountID
		}

		if patch.CategoryID != nil {
			template.CategoryID = patch.CategoryID
		}

		if patch.IsIncome != nil {
			template.IsIncome = *patch.IsIncome
		}

		validated, err := models.NewRecordTemplate(template.RecordTemplateEditable)
		if err != nil {
			return err
		}
		template.RecordTemplateEditable = validated.RecordTemplateEditable

		if err := checkTemplateReferences(tx, template); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&template).Error
	})
	if err != nil {
		return models.RecordTemplate{}, err
	}

	return template, nil
}

// DeleteTemplate deletes a template. Records created from it are kept.
func (l *Ledger) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	template, err := l.Template(ctx, id)
	if err != nil {
		return err
	}

	return l.conn(ctx).Delete(&template).Error
}

// RecordFromTemplate creates a record with the values of a template.
// A zero date is replaced with the current time.
func (l *Ledger) RecordFromTemplate(ctx context.Context, id uuid.UUID, date time.Time) (models.Record, error) {
	template, err := l.Template(ctx, id)
	if err != nil {
		return models.Record{}, err
	}

	return l.CreateRecord(ctx, RecordInput{
		RecordEditable: models.RecordEditable{
			Label:      template.Label,
			Amount:     template.Amount,
			Date:       date,
			AccountID:  template.AccountID,
			CategoryID: template.CategoryID,
			IsIncome:   template.IsIncome,
		},
	})
}
