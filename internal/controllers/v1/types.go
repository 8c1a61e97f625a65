package v1

import (
	"time"

	"github.com/buckets-finance/buckets/internal/types"
	api_uuid "github.com/buckets-finance/buckets/internal/uuid"
)

type URIID struct {
	ID api_uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

// PeriodQuery selects a period relative to the current one.
type PeriodQuery struct {
	Offset int    `form:"offset" example:"-1"`  // Offset from the current period. 0 is the current period, -1 the one before
	Unit   string `form:"unit" example:"month"` // One of day, week, month, year. Defaults to the configured unit
}

// unit returns the unit of the query. An empty unit is the default unit,
// an unknown one is an error.
func (co Controller) unit(q PeriodQuery) (types.Unit, error) {
	if q.Unit == "" {
		return co.defaultUnit, nil
	}

	u := types.Unit(q.Unit)
	if !u.Valid() {
		return "", errUnitInvalid
	}

	return u, nil
}

// Period describes the period a response is about.
type Period struct {
	Label string    `json:"label" example:"This Month"`
	Start time.Time `json:"start" example:"2026-10-01T00:00:00Z"`
	End   time.Time `json:"end" example:"2026-11-01T00:00:00Z"` // Exclusive
}

func (co Controller) period(offset int, unit types.Unit) Period {
	p := co.ledger.Period(offset, unit)
	return Period{
		Label: co.ledger.Label(offset, unit),
		Start: p.Start,
		End:   p.End,
	}
}
