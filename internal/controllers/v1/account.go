package v1

import (
	"net/http"

	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetAccounts)
		r.POST("", co.CreateAccount)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetAccount)
		r.PATCH("/:id", co.UpdateAccount)
		r.DELETE("/:id", co.DeleteAccount)
		r.GET("/:id/balance", co.GetAccountBalance)
		r.POST("/:id/toggle-hidden", co.ToggleAccountHidden)
	}
}

// withBalance adds the current balance to the account.
func (co Controller) withBalance(c *gin.Context, account models.Account) (ledger.AccountWithBalance, error) {
	balance, err := co.ledger.AccountBalance(c.Request.Context(), account.ID)
	if err != nil {
		return ledger.AccountWithBalance{}, err
	}

	return ledger.AccountWithBalance{Account: account, Balance: balance}, nil
}

// GetAccounts returns all accounts with their balances. Hidden accounts
// are only included with ?hidden=true.
func (co Controller) GetAccounts(c *gin.Context) {
	var filter AccountQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, AccountListResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	accounts, err := co.ledger.AccountsWithBalance(c.Request.Context(), filter.Hidden)
	if err != nil {
		c.JSON(status(err), AccountListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: accounts})
}

// CreateAccount creates a new account.
func (co Controller) CreateAccount(c *gin.Context) {
	var editable models.AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	account, err := co.ledger.CreateAccount(c.Request.Context(), editable)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	data := ledger.AccountWithBalance{Account: account, Balance: account.BeginningBalance}
	c.JSON(http.StatusCreated, AccountResponse{Data: &data})
}

// GetAccount returns a specific account with its balance.
func (co Controller) GetAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	account, err := co.ledger.Account(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	data, err := co.withBalance(c, account)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// UpdateAccount updates an account. Only values to be updated need to
// be specified.
func (co Controller) UpdateAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	var patch ledger.AccountPatch
	if err := httputil.BindData(c, &patch); err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	account, err := co.ledger.UpdateAccount(c.Request.Context(), uri.ID.UUID, patch)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	data, err := co.withBalance(c, account)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// DeleteAccount deletes an account. Its records and buckets are kept.
func (co Controller) DeleteAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := co.ledger.DeleteAccount(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAccountBalance returns the current balance of an account.
func (co Controller) GetAccountBalance(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), BalanceResponse{
			Error: errorString(err),
		})
		return
	}

	balance, err := co.ledger.AccountBalance(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), BalanceResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Data: &balance})
}

// ToggleAccountHidden hides a visible account and shows a hidden one.
func (co Controller) ToggleAccountHidden(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	account, err := co.ledger.ToggleHidden(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	data, err := co.withBalance(c, account)
	if err != nil {
		c.JSON(status(err), AccountResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}
