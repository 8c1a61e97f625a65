// Package ledger implements the calculations and the mutations of the
// accounts, buckets, categories and records stored with package models.
package ledger

import (
	"context"
	"time"

	"github.com/buckets-finance/buckets/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settings are the calendar and rounding conventions the ledger uses.
type Settings struct {
	RoundDecimals  int32          // Number of decimal places all amounts are rounded to
	FirstDayOfWeek int            // 0 is Monday, 6 is Sunday
	Location       *time.Location // Location used to split time into calendar days
}

// DefaultSettings are used when no configuration is given.
var DefaultSettings = Settings{
	RoundDecimals:  2,
	FirstDayOfWeek: 6,
	Location:       time.Local,
}

// Ledger executes all reads and writes of the domain.
type Ledger struct {
	db       *gorm.DB
	settings Settings
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the clock used to determine the current time.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New returns a Ledger working on db.
func New(db *gorm.DB, settings Settings, opts ...Option) *Ledger {
	if settings.Location == nil {
		settings.Location = time.Local
	}

	l := &Ledger{
		db:       db,
		settings: settings,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Settings returns the settings of the ledger.
func (l *Ledger) Settings() Settings {
	return l.settings
}

// Now returns the current time in the location of the ledger.
func (l *Ledger) Now() time.Time {
	return l.now().In(l.settings.Location)
}

// Period returns the period offset units away from the current one.
func (l *Ledger) Period(offset int, unit types.Unit) types.Period {
	return types.PeriodOf(l.Now(), offset, unit, l.settings.FirstDayOfWeek)
}

// Label returns the human readable name of a period.
func (l *Ledger) Label(offset int, unit types.Unit) string {
	return types.Label(l.Now(), offset, unit, l.settings.FirstDayOfWeek)
}

// Round rounds d to the configured number of decimal places.
func (l *Ledger) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(l.settings.RoundDecimals)
}

// conn returns a database session bound to ctx.
func (l *Ledger) conn(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx)
}

var transfers = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bucket_transfers_total",
		Help: "How many bucket transfers were attempted, partitioned by result.",
	},
	[]string{"result"},
)

// Collectors returns the Prometheus metrics of the ledger.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{transfers}
}
