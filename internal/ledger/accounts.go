package ledger

import (
	"context"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountPatch contains the fields of an account to update. Nil fields
// are not changed.
type AccountPatch struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	BeginningBalance *decimal.Decimal `json:"beginningBalance"`
	Hidden           *bool            `json:"hidden"`
}

// CreateAccount creates a new account.
func (l *Ledger) CreateAccount(ctx context.Context, editable models.AccountEditable) (models.Account, error) {
	editable.BeginningBalance = l.Round(editable.BeginningBalance)

	account, err := models.NewAccount(editable)
	if err != nil {
		return models.Account{}, err
	}

	err = l.conn(ctx).Omit(clause.Associations).Create(&account).Error
	if err != nil {
		return models.Account{}, err
	}

	log.Debug().Str("account", account.ID.String()).Msg("created account")
	return account, nil
}

// Account returns the account with the given ID.
func (l *Ledger) Account(ctx context.Context, id uuid.UUID) (models.Account, error) {
	var account models.Account
	err := l.conn(ctx).First(&account, "id = ?", id).Error
	return account, err
}

// Accounts returns all accounts ordered by name. Hidden accounts are only
// included when includeHidden is set and are listed last.
func (l *Ledger) Accounts(ctx context.Context, includeHidden bool) ([]models.Account, error) {
	query := l.conn(ctx).Order("hidden ASC").Order("name ASC")
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	accounts := []models.Account{}
	err := query.Find(&accounts).Error
	return accounts, err
}

// UpdateAccount applies the patch to the account.
func (l *Ledger) UpdateAccount(ctx context.Context, id uuid.UUID, patch AccountPatch) (models.Account, error) {
	account, err := l.Account(ctx, id)
	if err != nil {
		return models.Account{}, err
	}

	if patch.Name != nil {
		account.Name = *patch.Name
	}

	if patch.Description != nil {
		account.Description = *patch.Description
	}

	if patch.BeginningBalance != nil {
		account.BeginningBalance = l.Round(*patch.BeginningBalance)
	}

	if patch.Hidden != nil {
		account.Hidden = *patch.Hidden
	}

	if _, err := models.NewAccount(account.AccountEditable); err != nil {
		return models.Account{}, err
	}

	err = l.conn(ctx).Omit(clause.Associations).Save(&account).Error
	return account, err
}

// ToggleHidden flips the hidden flag of the account.
func (l *Ledger) ToggleHidden(ctx context.Context, id uuid.UUID) (models.Account, error) {
	var account models.Account

	err := l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", id).Error; err != nil {
			return err
		}

		account.Hidden = !account.Hidden
		return tx.Model(&account).Update("hidden", account.Hidden).Error
	})

	return account, err
}

// DeleteAccount soft deletes the account. Its records and buckets are kept.
func (l *Ledger) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := l.Account(ctx, id)
	if err != nil {
		return err
	}

	err = l.conn(ctx).Delete(&account).Error
	if err != nil {
		return err
	}

	log.Debug().Str("account", id.String()).Msg("deleted account")
	return nil
}
