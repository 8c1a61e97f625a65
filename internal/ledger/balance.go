package ledger

import (
	"context"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountWithBalance is an account with its current balance.
type AccountWithBalance struct {
	models.Account
	Balance decimal.Decimal `json:"balance" example:"1234.56"` // Current balance of the account
}

// balanceColumns are the record columns needed to replay balances.
var balanceColumns = []string{"amount", "account_id", "is_income", "is_transfer", "transfer_to_account_id"}

// replay applies the effect of a record on the balances of the accounts
// it touches.
//
// Money leaves the origin account for expenses and transfers and arrives
// for income. A transfer adds its amount to the destination account.
func replay(balances map[uuid.UUID]decimal.Decimal, r models.Record) {
	balances[r.AccountID] = balances[r.AccountID].Add(r.Signed())

	if r.IsTransfer && r.TransferToAccountID != nil {
		balances[*r.TransferToAccountID] = balances[*r.TransferToAccountID].Add(r.Amount)
	}
}

// AccountBalance calculates the current balance of an account from its
// beginning balance and all records that touch it.
//
// Soft deleted accounts are not found.
func (l *Ledger) AccountBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	account, err := l.Account(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	var records []models.Record
	err = l.conn(ctx).
		Select(balanceColumns).
		Where("account_id = ?", id).
		Or("is_transfer = ? AND transfer_to_account_id = ?", true, id).
		Find(&records).Error
	if err != nil {
		return decimal.Zero, err
	}

	balances := map[uuid.UUID]decimal.Decimal{id: account.BeginningBalance}
	for _, r := range records {
		replay(balances, r)
	}

	return l.Round(balances[id]), nil
}

// AccountsWithBalance returns the accounts with their balances.
//
// All records are read once and replayed for all accounts together.
func (l *Ledger) AccountsWithBalance(ctx context.Context, includeHidden bool) ([]AccountWithBalance, error) {
	accounts, err := l.Accounts(ctx, includeHidden)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	err = l.conn(ctx).Select(balanceColumns).Find(&records).Error
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.ID] = a.BeginningBalance
	}

	for _, r := range records {
		replay(balances, r)
	}

	result := make([]AccountWithBalance, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, AccountWithBalance{
			Account: a,
			Balance: l.Round(balances[a.ID]),
		})
	}

	return result, nil
}
