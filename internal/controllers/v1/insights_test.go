package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/buckets-finance/buckets/internal/controllers/v1"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/test"
)

// createInsightRecords creates the records of October 2026 all insight
// tests use.
func (suite *TestSuiteStandard) createInsightRecords() {
	checking := suite.createAccount("Checking", "1000")
	savings := suite.createAccount("Savings", "0")

	salary := suite.category("Salary")
	rent := suite.category("Rent")
	groceries := suite.category("Groceries")
	events := suite.category("Events")

	october := func(day int) time.Time {
		return time.Date(2026, time.October, day, 12, 0, 0, 0, time.UTC)
	}

	suite.createRecord(models.RecordEditable{Label: "Salary", Amount: dec("2000"), AccountID: checking.ID, CategoryID: &salary.ID, IsIncome: true, Date: october(1)})
	suite.createRecord(models.RecordEditable{Label: "Rent", Amount: dec("800"), AccountID: checking.ID, CategoryID: &rent.ID, Date: october(2)})
	suite.createRecord(models.RecordEditable{Label: "Cinema", Amount: dec("30"), AccountID: checking.ID, CategoryID: &events.ID, Date: october(17)})
	suite.createRecord(models.RecordEditable{Label: "Market", Amount: dec("50"), AccountID: checking.ID, CategoryID: &groceries.ID, Date: october(18)})
	suite.createRecord(models.RecordEditable{Label: "Saving", Amount: dec("100"), AccountID: checking.ID, IsTransfer: true, TransferToAccountID: &savings.ID, Date: october(18)})
}

func (suite *TestSuiteStandard) TestInsightsSummary() {
	suite.createInsightRecords()

	var response v1.SummaryResponse
	suite.decode(http.MethodGet, "/insights/summary", nil, &response, http.StatusOK)

	s := response.Data
	suite.Assert().Equal("This Month", s.Period.Label)
	suite.assertDecimal("2000", s.Income)
	suite.assertDecimal("880", s.Expenses)
	suite.assertDecimal("1120", s.Net)
	suite.assertDecimal("28.39", s.DailyAverage)
	suite.assertDecimal("800", s.Natures[models.NatureMust])
	suite.assertDecimal("50", s.Natures[models.NatureNeed])
	suite.assertDecimal("30", s.Natures[models.NatureWant])

	var empty v1.SummaryResponse
	suite.decode(http.MethodGet, "/insights/summary?offset=-1", nil, &empty, http.StatusOK)
	suite.assertDecimal("0", empty.Data.Expenses)
	suite.assertDecimal("0", empty.Data.Net)

	suite.request(http.MethodGet, "/insights/summary?unit=fortnight", nil, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInsightsCategories() {
	suite.createInsightRecords()

	type share struct {
		name       string
		total      string
		percentage string
	}

	tests := []struct {
		name     string
		query    string
		expected []share
	}{
		{"Default limit", "", []share{{"Housing", "800", "90.9"}, {"Food & Drinks", "50", "5.7"}, {"Entertainment", "30", "3.4"}}},
		{"Limit", "?limit=2", []share{{"Housing", "800", "90.9"}, {"Food & Drinks", "50", "5.7"}, {ledger.OthersName, "30", "3.4"}}},
		{"Subcategories", "?subcategories=true&limit=0", []share{{"Rent", "800", "90.9"}, {"Groceries", "50", "5.7"}, {"Events", "30", "3.4"}}},
		{"Income", "?income=true", []share{{"Income", "2000", "100"}}},
		{"Empty period", "?offset=-1", []share{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, "http://example.com/v1/insights/categories"+tt.query, nil)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CategorySharesResponse
			test.DecodeResponse(t, &r, &response)

			shares := make([]share, 0, len(response.Data))
			for _, s := range response.Data {
				shares = append(shares, share{s.Category.Name, s.Total.String(), s.Percentage.String()})
			}
			suite.Assert().Equal(tt.expected, shares)
		})
	}

	suite.request(http.MethodGet, "/insights/categories?limit=many", nil, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInsightsCategoriesAccount() {
	suite.createInsightRecords()

	var savings models.Account
	suite.Require().NoError(suite.db.First(&savings, "name = ?", "Savings").Error)

	events := suite.category("Events")
	suite.createRecord(models.RecordEditable{Label: "Concert", Amount: dec("20"), AccountID: savings.ID, CategoryID: &events.ID})

	var response v1.CategorySharesResponse
	suite.decode(http.MethodGet, "/insights/categories?account="+savings.ID.String(), nil, &response, http.StatusOK)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Entertainment", response.Data[0].Category.Name)
	suite.assertDecimal("20", response.Data[0].Total)
	suite.assertDecimal("100", response.Data[0].Percentage)

	suite.request(http.MethodGet, "/insights/categories?account=not-a-uuid", nil, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInsightsSpending() {
	suite.createInsightRecords()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"Per day", "?unit=week", []string{"0", "0", "0", "0", "0", "30", "50"}},
		{"Cumulative", "?unit=week&cumulative=true", []string{"0", "0", "0", "0", "0", "30", "80"}},
		{"Previous week", "?unit=week&offset=-1", []string{"0", "0", "0", "0", "0", "0", "0"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.router, http.MethodGet, "http://example.com/v1/insights/spending"+tt.query, nil)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.SeriesResponse
			test.DecodeResponse(t, &r, &response)
			suite.Require().Len(response.Data, len(tt.expected))

			for i, v := range response.Data {
				suite.assertDecimal(tt.expected[i], v.Value, "day %d", i)
			}
		})
	}

	var response v1.SeriesResponse
	suite.decode(http.MethodGet, "/insights/spending?unit=week", nil, &response, http.StatusOK)
	suite.Assert().Equal(time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), response.Data[0].Date.UTC())
	suite.Assert().Equal(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), response.Data[6].Date.UTC())

	// The current month only has values up to today
	suite.decode(http.MethodGet, "/insights/spending", nil, &response, http.StatusOK)
	suite.Assert().Len(response.Data, 18)
}

func (suite *TestSuiteStandard) TestInsightsBalance() {
	suite.createInsightRecords()

	var response v1.SeriesResponse
	suite.decode(http.MethodGet, "/insights/balance?unit=week", nil, &response, http.StatusOK)

	expected := []string{"2200", "2200", "2200", "2200", "2200", "2170", "2120"}
	suite.Require().Len(response.Data, len(expected))
	for i, v := range response.Data {
		suite.assertDecimal(expected[i], v.Value, "day %d", i)
	}
	suite.Assert().Equal("This Week", response.Period.Label)
}
