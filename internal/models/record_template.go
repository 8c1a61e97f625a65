package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordTemplate is a blueprint for records that are added repeatedly,
// e.g. the monthly rent.
type RecordTemplate struct {
	Model
	RecordTemplateEditable
	Account  Account   `json:"-" gorm:"foreignKey:AccountID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// RecordTemplateEditable contains all user configurable fields of a RecordTemplate.
type RecordTemplateEditable struct {
	Label      string          `json:"label" example:"Rent" validate:"required,max=255"`                                                    // Label for records created from the template
	Amount     decimal.Decimal `json:"amount" example:"850.00" gorm:"type:DECIMAL(20,8)"`                                                   // Default amount
	AccountID  uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2" gorm:"type:uuid;index" validate:"required"` // Default account
	CategoryID *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f" gorm:"type:uuid;index"`                    // Default category
	IsIncome   bool            `json:"isIncome" example:"false" default:"false"`                                                            // Records created from the template are income
}

// NewRecordTemplate validates the editable fields and returns a new, unsaved RecordTemplate.
func NewRecordTemplate(editable RecordTemplateEditable) (RecordTemplate, error) {
	editable.Label = strings.TrimSpace(editable.Label)

	if editable.CategoryID != nil && *editable.CategoryID == uuid.Nil {
		editable.CategoryID = nil
	}

	if err := validateStruct(editable); err != nil {
		return RecordTemplate{}, err
	}

	if !editable.Amount.IsPositive() {
		return RecordTemplate{}, ErrAmountNotPositive
	}

	return RecordTemplate{RecordTemplateEditable: editable}, nil
}

// TemplateOf copies the fields of a record that a template keeps.
func TemplateOf(r RecordEditable) RecordTemplateEditable {
	return RecordTemplateEditable{
		Label:      r.Label,
		Amount:     r.Amount,
		AccountID:  r.AccountID,
		CategoryID: r.CategoryID,
		IsIncome:   r.IsIncome,
	}
}

// BeforeSave trims whitespace from the label.
func (t *RecordTemplate) BeforeSave(_ *gorm.DB) error {
	t.Label = strings.TrimSpace(t.Label)
	return nil
}
