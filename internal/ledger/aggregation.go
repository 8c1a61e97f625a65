package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Filter selects the records an aggregation works on.
type Filter struct {
	Offset    int            // Offset of the period from the current one
	Unit      types.Unit     // Length of the period
	Income    *bool          // Only income (true) or expense (false) records. Both if nil
	AccountID *uuid.UUID     // Only records with this origin account
	Nature    *models.Nature // Only records whose category has this nature
}

// CategoryTotal is the sum of the records of a category in a period.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Total    decimal.Decimal `json:"total" example:"123.45"`
}

// OthersName is the name of the entry CollapseOthers sums the tail into.
const OthersName = "Others"

// periodRecords returns a query for the non-transfer records matching the filter.
func (l *Ledger) periodRecords(ctx context.Context, f Filter) *gorm.DB {
	p := l.Period(f.Offset, f.Unit)

	query := l.conn(ctx).
		Model(&models.Record{}).
		Where("records.date >= ? AND records.date < ?", p.Start.UTC(), p.End.UTC()).
		Where("records.is_transfer = ?", false)

	if f.Income != nil {
		query = query.Where("records.is_income = ?", *f.Income)
	}

	if f.AccountID != nil {
		query = query.Where("records.account_id = ?", *f.AccountID)
	}

	if f.Nature != nil {
		query = query.
			Joins("JOIN categories ON categories.id = records.category_id AND categories.deleted_at IS NULL").
			Where("categories.nature = ?", *f.Nature)
	}

	return query
}

// PeriodNet returns the absolute value of income minus expenses of the
// records matching the filter. Transfers are never counted.
func (l *Ledger) PeriodNet(ctx context.Context, f Filter) (decimal.Decimal, error) {
	var records []models.Record
	err := l.periodRecords(ctx, f).Select("records.amount", "records.is_income", "records.is_transfer").Find(&records).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Signed())
	}

	return l.Round(total).Abs(), nil
}

// PeriodAverage divides net by the number of days of the period.
func (l *Ledger) PeriodAverage(net decimal.Decimal, offset int, unit types.Unit) decimal.Decimal {
	days := l.Period(offset, unit).Days()
	return l.Round(net.Div(decimal.NewFromInt(int64(days))))
}

// CategoryBreakdown sums the records matching the filter per category.
//
// Without a direction in the filter, expenses are summed. Records without
// category are skipped. Unless includeSubcategories is set, the amounts of
// subcategories are added to their parent category. Deleted categories and
// categories without amount are dropped. The result is ordered by total,
// largest first.
func (l *Ledger) CategoryBreakdown(ctx context.Context, f Filter, includeSubcategories bool) ([]CategoryTotal, error) {
	if f.Income == nil {
		expenses := false
		f.Income = &expenses
	}

	var records []models.Record
	err := l.periodRecords(ctx, f).
		Select("records.amount", "records.category_id").
		Preload("Category", func(db *gorm.DB) *gorm.DB {
			// Subcategories of deleted parents still need to be found to
			// roll them up
			return db.Unscoped()
		}).
		Where("records.category_id IS NOT NULL").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, r := range records {
		if r.Category == nil {
			continue
		}

		id := r.Category.ID
		if !includeSubcategories && r.Category.IsSubcategory() {
			id = *r.Category.ParentCategoryID
		}

		totals[id] = totals[id].Add(r.Amount)
	}

	if len(totals) == 0 {
		return []CategoryTotal{}, nil
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}

	var categories []models.Category
	err = l.conn(ctx).Where("id IN ?", ids).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	result := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		total := l.Round(totals[c.ID])
		if total.IsZero() {
			continue
		}

		result = append(result, CategoryTotal{Category: c, Total: total})
	}

	slices.SortStableFunc(result, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Category.Name, b.Category.Name)
	})

	return result, nil
}

// CollapseOthers keeps the first limit totals and sums up the rest in one
// entry named OthersName. The sum of all totals does not change.
//
// With a limit of 0 or less, or when there are no more than limit totals,
// the list is returned unchanged.
func CollapseOthers(totals []CategoryTotal, limit int) []CategoryTotal {
	if limit <= 0 || len(totals) <= limit {
		return totals
	}

	others := decimal.Zero
	for _, t := range totals[limit:] {
		others = others.Add(t.Total)
	}

	result := make([]CategoryTotal, 0, limit+1)
	result = append(result, totals[:limit]...)
	result = append(result, CategoryTotal{
		Category: models.Category{CategoryEditable: models.CategoryEditable{
			Name:  OthersName,
			Color: models.DefaultCategoryColor,
		}},
		Total: others,
	})

	return result
}

// days returns the start of every calendar day in [start, end) that is not
// after today.
func (l *Ledger) days(start, end time.Time) []time.Time {
	loc := l.settings.Location
	start = start.In(loc)
	today := types.DateOf(l.Now())

	var days []time.Time
	for day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		if types.DateOf(day).After(today) {
			break
		}
		days = append(days, day)
	}

	return days
}

// dayKey returns the calendar day of t in the location of the ledger.
func (l *Ledger) dayKey(t time.Time) time.Time {
	return types.DateOf(t.In(l.settings.Location))
}

// DailySeries returns the sum of the expenses for every day in [start, end)
// up to today. Income and transfers are not counted.
//
// If cumulative is set, every value is the running total up to and
// including that day.
func (l *Ledger) DailySeries(ctx context.Context, start, end time.Time, cumulative bool) ([]decimal.Decimal, error) {
	var records []models.Record
	err := l.conn(ctx).
		Select("amount", "date").
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Where("is_income = ? AND is_transfer = ?", false, false).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	perDay := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		key := l.dayKey(r.Date)
		perDay[key] = perDay[key].Add(r.Amount)
	}

	days := l.days(start, end)
	series := make([]decimal.Decimal, 0, len(days))
	running := decimal.Zero

	for _, day := range days {
		value := perDay[types.DateOf(day)]
		if cumulative {
			running = running.Add(value)
			value = running
		}

		series = append(series, l.Round(value))
	}

	return series, nil
}

// DailyBalanceTimeline returns the summed balance of all accounts at the
// end of every day in [start, end) up to today.
//
// The balance before start is the sum of the beginning balances of all
// accounts and the effect of all records before start. Transfers do not
// change the summed balance.
func (l *Ledger) DailyBalanceTimeline(ctx context.Context, start, end time.Time) ([]decimal.Decimal, error) {
	var accounts []models.Account
	err := l.conn(ctx).Select("beginning_balance").Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	balance := decimal.Zero
	for _, a := range accounts {
		balance = balance.Add(a.BeginningBalance)
	}

	var before []models.Record
	err = l.conn(ctx).
		Select("amount", "is_income", "is_transfer").
		Where("date < ?", start.UTC()).
		Find(&before).Error
	if err != nil {
		return nil, err
	}

	for _, r := range before {
		balance = balance.Add(r.NetEffect())
	}

	var records []models.Record
	err = l.conn(ctx).
		Select("amount", "date", "is_income", "is_transfer").
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	perDay := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		key := l.dayKey(r.Date)
		perDay[key] = perDay[key].Add(r.NetEffect())
	}

	days := l.days(start, end)
	timeline := make([]decimal.Decimal, 0, len(days))

	for _, day := range days {
		balance = balance.Add(perDay[types.DateOf(day)])
		timeline = append(timeline, l.Round(balance))
	}

	return timeline, nil
}
