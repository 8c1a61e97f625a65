package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a place where money is kept, e.g. a bank account or a wallet.
//
// The balance of an account is never stored, it is always calculated from
// the beginning balance and the records of the account.
type Account struct {
	DefaultModel
	AccountEditable
}

// AccountEditable contains all user configurable fields of an Account.
type AccountEditable struct {
	Name             string          `json:"name" example:"Checking" gorm:"uniqueIndex" validate:"required,max=255"` // Name of the account, unique among all accounts
	Description      string          `json:"description" example:"Main bank account" validate:"max=1024"`            // Longer description of the account
	BeginningBalance decimal.Decimal `json:"beginningBalance" example:"1500.00" gorm:"type:DECIMAL(20,8)"`           // Balance of the account before any record was added
	Hidden           bool            `json:"hidden" example:"false" default:"false"`                                 // Hidden accounts are not listed by default
}

// NewAccount validates the editable fields and returns a new, unsaved Account.
func NewAccount(editable AccountEditable) (Account, error) {
	editable.Name = strings.TrimSpace(editable.Name)
	editable.Description = strings.TrimSpace(editable.Description)

	if err := validateStruct(editable); err != nil {
		return Account{}, err
	}

	return Account{AccountEditable: editable}, nil
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	return nil
}
