package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bucket is a named part of the money in an account, e.g. "Holidays" or
// "Emergency fund".
//
// The amount of a bucket is stored and changed directly: by transfers
// between buckets of the same account and by expenses that are paid from
// the bucket.
type Bucket struct {
	DefaultModel
	BucketEditable
	Account Account `json:"-"`
}

// BucketEditable contains all user configurable fields of a Bucket.
type BucketEditable struct {
	Name      string          `json:"name" example:"Holidays" validate:"required,max=255"`                                                 // Name of the bucket
	Amount    decimal.Decimal `json:"amount" example:"250.00" gorm:"type:DECIMAL(20,8)"`                                                   // Money currently in the bucket
	AccountID uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2" gorm:"type:uuid;index" validate:"required"` // The account the bucket belongs to
}

// NewBucket validates the editable fields and returns a new, unsaved Bucket.
func NewBucket(editable BucketEditable) (Bucket, error) {
	editable.Name = strings.TrimSpace(editable.Name)

	if err := validateStruct(editable); err != nil {
		return Bucket{}, err
	}

	return Bucket{BucketEditable: editable}, nil
}

// BeforeSave trims whitespace from the name.
func (b *Bucket) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	return nil
}
