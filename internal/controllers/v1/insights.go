package v1

import (
	"net/http"
	"time"

	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/internal/types"
	api_uuid "github.com/buckets-finance/buckets/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary contains the key figures of a period.
type Summary struct {
	Period       Period                            `json:"period"`
	Income       decimal.Decimal                   `json:"income" example:"2500"`
	Expenses     decimal.Decimal                   `json:"expenses" example:"1830.45"`
	Net          decimal.Decimal                   `json:"net" example:"669.55"`         // Income minus expenses
	DailyAverage decimal.Decimal                   `json:"dailyAverage" example:"59.05"` // Expenses per day of the period
	Natures      map[models.Nature]decimal.Decimal `json:"natures"`                      // Expenses per category nature
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`
	Error *string  `json:"error"` // The error, if any occurred
}

// CategoryShare is the total of a category and its share of all totals.
type CategoryShare struct {
	ledger.CategoryTotal
	Percentage decimal.Decimal `json:"percentage" example:"23.5"`
}

type CategorySharesResponse struct {
	Data   []CategoryShare `json:"data"`   // Categories with the largest totals first
	Period *Period         `json:"period"` // The period the totals are from
	Error  *string         `json:"error"`  // The error, if any occurred
}

// DayValue is the value of a single day of a series.
type DayValue struct {
	Date  time.Time       `json:"date" example:"2026-10-01T00:00:00Z"`
	Value decimal.Decimal `json:"value" example:"42.5"`
}

type SeriesResponse struct {
	Data   []DayValue `json:"data"`   // One value per day up to today
	Period *Period    `json:"period"` // The period of the series
	Error  *string    `json:"error"`  // The error, if any occurred
}

type InsightQueryFilter struct {
	PeriodQuery
	Account api_uuid.UUID `form:"account"` // Only records of this origin account
}

type CategoryInsightQueryFilter struct {
	PeriodQuery
	Account       api_uuid.UUID `form:"account"`       // Only records of this origin account
	Income        bool          `form:"income"`        // Income instead of expenses
	Subcategories bool          `form:"subcategories"` // List subcategories instead of adding them to their parent
	Limit         *int          `form:"limit"`         // Number of categories before the rest is summed up. 0 lists all
}

type SpendingQueryFilter struct {
	PeriodQuery
	Cumulative bool `form:"cumulative"` // Running total instead of the value per day
}

// RegisterInsightRoutes registers the routes for insights with
// the RouterGroup that is passed.
func (co Controller) RegisterInsightRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/summary", httputil.OptionsGet)
	r.GET("/summary", co.GetSummary)
	r.OPTIONS("/categories", httputil.OptionsGet)
	r.GET("/categories", co.GetCategoryShares)
	r.OPTIONS("/spending", httputil.OptionsGet)
	r.GET("/spending", co.GetSpending)
	r.OPTIONS("/balance", httputil.OptionsGet)
	r.GET("/balance", co.GetBalanceTimeline)
}

// GetSummary returns income, expenses and their difference for a period.
func (co Controller) GetSummary(c *gin.Context) {
	var filter InsightQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	unit, err := co.unit(filter.PeriodQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: errorString(err),
		})
		return
	}

	summary, err := co.summary(c, filter.Offset, unit, filter.Account.Ptr())
	if err != nil {
		c.JSON(status(err), SummaryResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

func (co Controller) summary(c *gin.Context, offset int, unit types.Unit, account *uuid.UUID) (Summary, error) {
	ctx := c.Request.Context()
	income, expenses := true, false

	s := Summary{
		Period:  co.period(offset, unit),
		Natures: make(map[models.Nature]decimal.Decimal),
	}

	var err error
	if s.Income, err = co.ledger.PeriodNet(ctx, ledger.Filter{Offset: offset, Unit: unit, Income: &income, AccountID: account}); err != nil {
		return Summary{}, err
	}

	if s.Expenses, err = co.ledger.PeriodNet(ctx, ledger.Filter{Offset: offset, Unit: unit, Income: &expenses, AccountID: account}); err != nil {
		return Summary{}, err
	}

	for _, nature := range []models.Nature{models.NatureMust, models.NatureNeed, models.NatureWant} {
		total, err := co.ledger.PeriodNet(ctx, ledger.Filter{Offset: offset, Unit: unit, Income: &expenses, AccountID: account, Nature: &nature})
		if err != nil {
			return Summary{}, err
		}
		s.Natures[nature] = total
	}

	s.Net = s.Income.Sub(s.Expenses)
	s.DailyAverage = co.ledger.PeriodAverage(s.Expenses, offset, unit)

	return s, nil
}

// GetCategoryShares returns the expenses or income of a period per category.
//
// Only the categories with the largest totals are listed, the rest is
// summed up as "Others".
func (co Controller) GetCategoryShares(c *gin.Context) {
	var filter CategoryInsightQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, CategorySharesResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	unit, err := co.unit(filter.PeriodQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, CategorySharesResponse{
			Error: errorString(err),
		})
		return
	}

	totals, err := co.ledger.CategoryBreakdown(c.Request.Context(), ledger.Filter{
		Offset:    filter.Offset,
		Unit:      unit,
		Income:    &filter.Income,
		AccountID: filter.Account.Ptr(),
	}, filter.Subcategories)
	if err != nil {
		c.JSON(status(err), CategorySharesResponse{
			Error: errorString(err),
		})
		return
	}

	limit := co.topCategories
	if filter.Limit != nil {
		limit = *filter.Limit
	}

	period := co.period(filter.Offset, unit)
	c.JSON(http.StatusOK, CategorySharesResponse{
		Data:   shares(ledger.CollapseOthers(totals, limit)),
		Period: &period,
	})
}

var hundred = decimal.NewFromInt(100)

// shares calculates the percentage of every total of the sum of all
// totals, rounded to one decimal place.
func shares(totals []ledger.CategoryTotal) []CategoryShare {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}

	result := make([]CategoryShare, 0, len(totals))
	for _, t := range totals {
		share := CategoryShare{CategoryTotal: t, Percentage: decimal.Zero}
		if !sum.IsZero() {
			share.Percentage = t.Total.Mul(hundred).Div(sum).Round(1)
		}
		result = append(result, share)
	}

	return result
}

// GetSpending returns the expenses of every day of a period up to today.
func (co Controller) GetSpending(c *gin.Context) {
	var filter SpendingQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, SeriesResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	unit, err := co.unit(filter.PeriodQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, SeriesResponse{
			Error: errorString(err),
		})
		return
	}

	period := co.period(filter.Offset, unit)
	values, err := co.ledger.DailySeries(c.Request.Context(), period.Start, period.End, filter.Cumulative)
	if err != nil {
		c.JSON(status(err), SeriesResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, SeriesResponse{Data: days(period.Start, values), Period: &period})
}

// GetBalanceTimeline returns the summed balance of all accounts at the end
// of every day of a period up to today.
func (co Controller) GetBalanceTimeline(c *gin.Context) {
	var filter PeriodQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, SeriesResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	unit, err := co.unit(filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, SeriesResponse{
			Error: errorString(err),
		})
		return
	}

	period := co.period(filter.Offset, unit)
	values, err := co.ledger.DailyBalanceTimeline(c.Request.Context(), period.Start, period.End)
	if err != nil {
		c.JSON(status(err), SeriesResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, SeriesResponse{Data: days(period.Start, values), Period: &period})
}

// days pairs every value with its day, starting at start.
func days(start time.Time, values []decimal.Decimal) []DayValue {
	result := make([]DayValue, 0, len(values))
	for i, v := range values {
		result = append(result, DayValue{Date: start.AddDate(0, 0, i), Value: v})
	}
	return result
}
