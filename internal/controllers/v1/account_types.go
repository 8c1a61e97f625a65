package v1

import (
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/shopspring/decimal"
)

type AccountListResponse struct {
	Data  []ledger.AccountWithBalance `json:"data"`                                                          // List of accounts
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountResponse struct {
	Data  *ledger.AccountWithBalance `json:"data"`                                                          // Data for the account
	Error *string                    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BalanceResponse struct {
	Data  *decimal.Decimal `json:"data" example:"1234.56"`                                        // Current balance of the account
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountQueryFilter struct {
	Hidden bool `form:"hidden"` // Include hidden accounts
}
