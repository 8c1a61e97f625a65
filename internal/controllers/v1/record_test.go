package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/buckets-finance/buckets/internal/controllers/v1"
	"github.com/buckets-finance/buckets/internal/forms"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/test"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestRecordsCreate() {
	account := suite.createAccount("Checking", "100")
	bucket := suite.createBucket(account, "Groceries", "50")
	food := suite.category("Groceries")

	var response v1.RecordResponse
	body := fmt.Sprintf(`{
		"label": "Market",
		"amount": "12.345",
		"date": "2026-10-17T10:00:00Z",
		"accountId": "%s",
		"categoryId": "%s",
		"bucketId": "%s"
	}`, account.ID, food.ID, bucket.ID)
	suite.decode(http.MethodPost, "/records", body, &response, http.StatusCreated)

	suite.Assert().Equal("Market", response.Data.Label)
	suite.assertDecimal("12.35", response.Data.Amount)
	suite.Assert().Equal(time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC), response.Data.Date)

	var b v1.BucketResponse
	suite.decode(http.MethodGet, "/buckets/"+bucket.ID.String(), nil, &b, http.StatusOK)
	suite.assertDecimal("37.65", b.Data.Amount)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Amount not positive", fmt.Sprintf(`{"label": "x", "amount": "-1", "accountId": "%s"}`, account.ID), http.StatusBadRequest},
		{"Missing label", fmt.Sprintf(`{"amount": "1", "accountId": "%s"}`, account.ID), http.StatusBadRequest},
		{"Unknown account", fmt.Sprintf(`{"label": "x", "amount": "1", "accountId": "%s"}`, uuid.New()), http.StatusNotFound},
		{"Transfer as income", fmt.Sprintf(`{"label": "x", "amount": "1", "accountId": "%s", "isTransfer": true, "isIncome": true}`, account.ID), http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodPost, "http://example.com/v1/records", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestRecordsList() {
	checking := suite.createAccount("Checking", "0")
	savings := suite.createAccount("Savings", "0")
	rent := suite.category("Rent")

	market := suite.createRecord(models.RecordEditable{Label: "Farmers Market", Amount: dec("25"), AccountID: checking.ID, Date: now.AddDate(0, 0, -2)})
	rentRecord := suite.createRecord(models.RecordEditable{Label: "Rent", Amount: dec("800"), AccountID: checking.ID, CategoryID: &rent.ID, Date: now.AddDate(0, 0, -1)})
	coffee := suite.createRecord(models.RecordEditable{Label: "Coffee", Amount: dec("3.5"), AccountID: savings.ID})
	september := suite.createRecord(models.RecordEditable{Label: "Coffee", Amount: dec("3"), AccountID: savings.ID, Date: now.AddDate(0, -1, 0)})

	tests := []struct {
		name     string
		query    string
		expected []uuid.UUID
	}{
		{"Current month", "", []uuid.UUID{coffee.ID, rentRecord.ID, market.ID}},
		{"Previous month", "?offset=-1", []uuid.UUID{september.ID}},
		{"Year", "?unit=year", []uuid.UUID{coffee.ID, rentRecord.ID, market.ID, september.ID}},
		{"Account", "?account=" + checking.ID.String(), []uuid.UUID{rentRecord.ID, market.ID}},
		{"Category", "?categories=Rent|Fuel", []uuid.UUID{rentRecord.ID}},
		{"Amount", "?amount=%3E%3D25", []uuid.UUID{rentRecord.ID, market.ID}},
		{"Label", "?label=market", []uuid.UUID{market.ID}},
		{"Label pattern", "?label=c*e", []uuid.UUID{coffee.ID}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, "http://example.com/v1/records"+tt.query, nil)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.RecordListResponse
			test.DecodeResponse(t, &r, &response)

			ids := make([]uuid.UUID, 0, len(response.Data))
			for _, record := range response.Data {
				ids = append(ids, record.ID)
			}
			suite.Assert().Equal(tt.expected, ids)
		})
	}

	var response v1.RecordListResponse
	suite.decode(http.MethodGet, "/records?offset=-1", nil, &response, http.StatusOK)
	suite.Assert().Equal("Last Month", response.Period.Label)
	suite.Assert().Equal(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), response.Period.Start.UTC())

	suite.request(http.MethodGet, "/records?amount=about", nil, http.StatusBadRequest)
	suite.request(http.MethodGet, "/records?unit=decade", nil, http.StatusBadRequest)
	suite.request(http.MethodGet, "/records?offset=last", nil, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestRecordsUpdateDelete() {
	account := suite.createAccount("Checking", "0")
	bucket := suite.createBucket(account, "Fun", "100")
	record := suite.createRecord(models.RecordEditable{Label: "Cinema", Amount: dec("20"), AccountID: account.ID, BucketID: &bucket.ID})
	path := "/records/" + record.ID.String()

	var response v1.RecordResponse
	suite.decode(http.MethodPatch, path, `{"amount": "30"}`, &response, http.StatusOK)
	suite.assertDecimal("30", response.Data.Amount)
	suite.Assert().Equal("Cinema", response.Data.Label)

	b, err := suite.ledger.Bucket(suite.ctx, bucket.ID)
	suite.Require().NoError(err)
	suite.assertDecimal("70", b.Amount)

	suite.request(http.MethodPatch, path, `{"amount": "0"}`, http.StatusBadRequest)

	suite.request(http.MethodDelete, path, nil, http.StatusNoContent)
	suite.request(http.MethodGet, path, nil, http.StatusNotFound)

	b, err = suite.ledger.Bucket(suite.ctx, bucket.ID)
	suite.Require().NoError(err)
	suite.assertDecimal("100", b.Amount)
}

func (suite *TestSuiteStandard) TestRecordsForm() {
	account := suite.createAccount("Checking", "100")
	suite.createBucket(account, "Fun", "10")

	var response v1.FormResponse
	suite.decode(http.MethodGet, "/records/form", nil, &response, http.StatusOK)

	accountField := response.Data.Field("accountId")
	suite.Require().NotNil(accountField)
	suite.Assert().Equal(account.ID.String(), accountField.Default)
	suite.Require().Len(accountField.Options, 1)
	suite.Assert().Equal("Checking", accountField.Options[0].Text)

	suite.Assert().Len(response.Data.Field("categoryId").Options, 27)
	suite.Assert().Len(response.Data.Field("bucketId").Options, 1)
	suite.Assert().Equal("18", response.Data.Field("date").Default)

	suite.decode(http.MethodGet, "/records/transfer-form", nil, &response, http.StatusOK)
	suite.Assert().Len(response.Data.Field("transferToAccountId").Options, 1)
}

func (suite *TestSuiteStandard) TestRecordsEditForm() {
	account := suite.createAccount("Checking", "100")
	savings := suite.createAccount("Savings", "0")
	food := suite.category("Groceries")

	record := suite.createRecord(models.RecordEditable{Label: "Market", Amount: dec("12.5"), AccountID: account.ID, CategoryID: &food.ID, Date: now.AddDate(0, 0, -3)})
	transfer := suite.createRecord(models.RecordEditable{Label: "Saving", Amount: dec("50"), AccountID: account.ID, IsTransfer: true, TransferToAccountID: &savings.ID})

	var response v1.FormResponse
	suite.decode(http.MethodGet, "/records/"+record.ID.String()+"/form", nil, &response, http.StatusOK)
	suite.Assert().Equal("Market", response.Data.Field("label").Default)
	suite.Assert().Equal(forms.String, response.Data.Field("label").Type)
	suite.assertDecimal("12.5", dec(response.Data.Field("amount").Default))
	suite.Assert().Equal(food.ID.String(), response.Data.Field("categoryId").Default)
	suite.Assert().Equal("15", response.Data.Field("date").Default)

	suite.decode(http.MethodGet, "/records/"+transfer.ID.String()+"/form", nil, &response, http.StatusOK)
	suite.Assert().Equal(savings.ID.String(), response.Data.Field("transferToAccountId").Default)
	suite.Assert().Nil(response.Data.Field("categoryId"))

	suite.request(http.MethodGet, "/records/"+uuid.NewString()+"/form", nil, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRecordsSubmitForm() {
	account := suite.createAccount("Checking", "100")
	food := suite.category("Groceries")

	var response v1.FormSubmissionResponse
	suite.decode(http.MethodPost, "/records/form", map[string]string{
		"label":          "Market",
		"categoryId":     food.ID.String(),
		"amount":         "10+2.5",
		"accountId":      account.ID.String(),
		"date":           "3",
		"createTemplate": "true",
	}, &response, http.StatusCreated)

	suite.Assert().Nil(response.Error)
	suite.assertDecimal("12.5", response.Data.Amount)
	suite.Assert().Equal(time.Date(2026, time.October, 3, 0, 0, 0, 0, time.UTC), response.Data.Date)

	templates, err := suite.ledger.Templates(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(templates, 1)
	suite.Assert().Equal("Market", templates[0].Label)

	var invalid v1.FormSubmissionResponse
	suite.decode(http.MethodPost, "/records/form", map[string]string{"amount": "zero"}, &invalid, http.StatusBadRequest)
	suite.Assert().Nil(invalid.Data)
	suite.Assert().Equal(forms.Errors{
		"label":      "Required",
		"categoryId": "Must be selected",
		"amount":     "Must be a number",
		"accountId":  "Must be selected",
	}, invalid.Errors)
	suite.Assert().NotNil(invalid.Error)

	// Valid form, but the account does not exist
	var unknown v1.FormSubmissionResponse
	suite.decode(http.MethodPost, "/records/form", map[string]string{
		"label":      "Market",
		"categoryId": food.ID.String(),
		"amount":     "1",
		"accountId":  uuid.NewString(),
	}, &unknown, http.StatusNotFound)
	suite.Assert().Nil(unknown.Errors)
}

func (suite *TestSuiteStandard) TestRecordsSubmitTransferForm() {
	checking := suite.createAccount("Checking", "100")
	savings := suite.createAccount("Savings", "0")

	var response v1.FormSubmissionResponse
	suite.decode(http.MethodPost, "/records/transfer-form", map[string]string{
		"label":               "Saving",
		"amount":              "40",
		"accountId":           checking.ID.String(),
		"transferToAccountId": savings.ID.String(),
	}, &response, http.StatusCreated)
	suite.Assert().True(response.Data.IsTransfer)
	suite.Assert().Nil(response.Data.CategoryID)
	suite.Assert().Equal(now, response.Data.Date)

	balance, err := suite.ledger.AccountBalance(suite.ctx, savings.ID)
	suite.Require().NoError(err)
	suite.assertDecimal("40", balance)

	var invalid v1.FormSubmissionResponse
	suite.decode(http.MethodPost, "/records/transfer-form", map[string]string{
		"label":               "Saving",
		"amount":              "40",
		"accountId":           checking.ID.String(),
		"transferToAccountId": checking.ID.String(),
	}, &invalid, http.StatusBadRequest)
	suite.Assert().Equal("Must be different from the origin account", invalid.Errors["transferToAccountId"])
}
