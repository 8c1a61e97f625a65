package v1_test

import (
	"net/http"

	v1 "github.com/buckets-finance/buckets/internal/controllers/v1"
	"github.com/buckets-finance/buckets/internal/models"
)

func (suite *TestSuiteStandard) TestCleanup() {
	suite.router.Group("/v1").DELETE("", suite.controller.Cleanup)

	account := suite.createAccount("Checking", "100")
	suite.createBucket(account, "Vacation", "20")
	suite.createRecord(models.RecordEditable{Label: "Coffee", Amount: dec("3"), AccountID: account.ID})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"No confirmation", "", http.StatusBadRequest},
		{"Wrong confirmation", "?confirm=yes", http.StatusBadRequest},
		{"Confirmed", "?confirm=yes-please-delete-everything", http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.request(http.MethodDelete, tt.query, nil, tt.status)
		})
	}

	var accounts v1.AccountListResponse
	suite.decode(http.MethodGet, "/accounts", nil, &accounts, http.StatusOK)
	suite.Assert().Len(accounts.Data, 0)

	var records v1.RecordListResponse
	suite.decode(http.MethodGet, "/records", nil, &records, http.StatusOK)
	suite.Assert().Len(records.Data, 0)

	var categories v1.CategoryListResponse
	suite.decode(http.MethodGet, "/categories", nil, &categories, http.StatusOK)
	suite.Assert().Len(categories.Data, 25)
}
