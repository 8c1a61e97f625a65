package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Record is a single income, expense or transfer.
//
// A transfer is one row: its amount leaves AccountID and arrives at
// TransferToAccountID. Records are deleted from the database, not soft deleted.
type Record struct {
	Model
	RecordEditable
	Account           Account   `json:"-" gorm:"foreignKey:AccountID"`
	TransferToAccount *Account  `json:"-" gorm:"foreignKey:TransferToAccountID"`
	Category          *Category `json:"-" gorm:"foreignKey:CategoryID"`
	Bucket            *Bucket   `json:"-" gorm:"foreignKey:BucketID"`
}

// RecordEditable contains all user configurable fields of a Record.
type RecordEditable struct {
	Label               string          `json:"label" example:"Groceries at the market" validate:"required,max=255"`                                                                                                                                   // Short description of the record
	Amount              decimal.Decimal `json:"amount" example:"42.50" gorm:"type:DECIMAL(20,8);check:amount_positive,amount > 0"`                                                                                                                     // Amount of the record. Always positive, the direction is given by IsIncome and IsTransfer
	Date                time.Time       `json:"date" example:"2026-10-17T00:00:00Z" gorm:"index"`                                                                                                                                                      // Date of the record
	AccountID           uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2" gorm:"type:uuid;index" validate:"required"`                                                                                                   // Origin account
	CategoryID          *uuid.UUID      `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f" gorm:"type:uuid;index"`                                                                                                                      // Category of the record. Always empty for transfers
	IsIncome            bool            `json:"isIncome" example:"false" default:"false"`                                                                                                                                                              // The record adds money to the account
	IsTransfer          bool            `json:"isTransfer" example:"false" default:"false" gorm:"check:transfer_not_income,NOT (is_transfer AND is_income)"`                                                                                           // The record moves money to TransferToAccountID
	TransferToAccountID *uuid.UUID      `json:"transferToAccountId" example:"1d4d5b4c-9c1f-4b77-8a43-d7d0a9b3c1e2" gorm:"type:uuid;index;check:transfer_destination_different,transfer_to_account_id IS NULL OR transfer_to_account_id <> account_id"` // Destination account of a transfer
	BucketID            *uuid.UUID      `json:"bucketId" example:"0b8f0c93-2e0d-4c52-8a57-2ad5a3c5f0e1" gorm:"type:uuid;index"`                                                                                                                        // Bucket an expense was paid from
}

// NewRecord validates the editable fields and returns a new, unsaved Record.
//
// Income records and transfers never reference a bucket, the bucket is
// dropped for them.
func NewRecord(editable RecordEditable) (Record, error) {
	editable.Label = strings.TrimSpace(editable.Label)
	editable.normalize()

	if err := validateStruct(editable); err != nil {
		return Record{}, err
	}

	if err := editable.check(); err != nil {
		return Record{}, err
	}

	return Record{RecordEditable: editable}, nil
}

// Check verifies the consistency rules that cannot be expressed with
// struct tags.
func (e RecordEditable) check() error {
	if !e.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !e.IsTransfer {
		return nil
	}

	if e.IsIncome {
		return ErrTransferIsIncome
	}

	if e.TransferToAccountID == nil || *e.TransferToAccountID == uuid.Nil {
		return ErrTransferDestinationMissing
	}

	if *e.TransferToAccountID == e.AccountID {
		return ErrTransferDestinationIsOrigin
	}

	if e.CategoryID != nil {
		return ErrTransferHasCategory
	}

	return nil
}

// Validate runs all validation rules on an already constructed record,
// e.g. after a partial update.
func (r *Record) Validate() error {
	r.normalize()

	if err := validateStruct(r.RecordEditable); err != nil {
		return err
	}

	return r.check()
}

// normalize clears references that do not apply to the kind of record.
func (e *RecordEditable) normalize() {
	if e.CategoryID != nil && *e.CategoryID == uuid.Nil {
		e.CategoryID = nil
	}

	if e.BucketID != nil && *e.BucketID == uuid.Nil {
		e.BucketID = nil
	}

	if e.TransferToAccountID != nil && *e.TransferToAccountID == uuid.Nil {
		e.TransferToAccountID = nil
	}

	if !e.IsTransfer {
		e.TransferToAccountID = nil
	}

	if e.IsIncome || e.IsTransfer {
		e.BucketID = nil
	}

	if e.Date.IsZero() {
		e.Date = time.Now()
	}
}

// IsExpense reports if the record takes money out of its account without
// moving it to another account.
func (r Record) IsExpense() bool {
	return !r.IsIncome && !r.IsTransfer
}

// Signed returns the amount with the sign it has for the balance of
// its origin account.
func (r Record) Signed() decimal.Decimal {
	if r.IsIncome && !r.IsTransfer {
		return r.Amount
	}
	return r.Amount.Neg()
}

// NetEffect returns the change of the summed balance of all accounts
// caused by the record. Transfers move money between accounts and have
// no net effect.
func (r Record) NetEffect() decimal.Decimal {
	if r.IsTransfer {
		return decimal.Zero
	}
	return r.Signed()
}

// BeforeSave stores the date in UTC.
//
// SQLite compares timestamps as strings, so all of them must use the
// same time zone.
func (r *Record) BeforeSave(_ *gorm.DB) error {
	r.Label = strings.TrimSpace(r.Label)
	r.Date = r.Date.UTC()
	return nil
}

// AfterFind sets all timestamps to UTC.
func (r *Record) AfterFind(tx *gorm.DB) error {
	r.Date = r.Date.In(time.UTC)
	return r.Model.AfterFind(tx)
}
