// Package v1 implements the JSON API for the ledger.
package v1

import (
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/types"
	"github.com/gin-gonic/gin"
)

// Controller holds everything the handlers need.
type Controller struct {
	ledger        *ledger.Ledger
	defaultUnit   types.Unit
	topCategories int
}

// New returns a Controller working on l.
//
// defaultUnit is used when a request does not specify a period unit,
// topCategories is the number of categories listed in the category
// insights before the rest is summed up as "Others".
func New(l *ledger.Ledger, defaultUnit types.Unit, topCategories int) Controller {
	return Controller{
		ledger:        l,
		defaultUnit:   defaultUnit,
		topCategories: topCategories,
	}
}

// RegisterRoutes registers all v1 routes with the RouterGroup that is passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	co.RegisterAccountRoutes(r.Group("/accounts"))
	co.RegisterBucketRoutes(r.Group("/buckets"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterRecordRoutes(r.Group("/records"))
	co.RegisterTemplateRoutes(r.Group("/templates"))
	co.RegisterInsightRoutes(r.Group("/insights"))
}
