package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/gin-gonic/gin"
)

type TemplateListResponse struct {
	Data  []models.RecordTemplate `json:"data"`                                                          // List of templates
	Error *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TemplateResponse struct {
	Data  *models.RecordTemplate `json:"data"`                                                          // Data for the template
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// TemplateUse contains the values for a record created from a template.
type TemplateUse struct {
	Date time.Time `json:"date" example:"2026-10-01T00:00:00Z"` // Date of the record. Defaults to now
}

// RegisterTemplateRoutes registers the routes for record templates with
// the RouterGroup that is passed.
func (co Controller) RegisterTemplateRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTemplates)
		r.POST("", co.CreateTemplate)
	}

	// Template with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetTemplate)
		r.PATCH("/:id", co.UpdateTemplate)
		r.DELETE("/:id", co.DeleteTemplate)
		r.OPTIONS("/:id/records", httputil.OptionsPost)
		r.POST("/:id/records", co.CreateRecordFromTemplate)
	}
}

// GetTemplates returns all templates ordered by label.
func (co Controller) GetTemplates(c *gin.Context) {
	templates, err := co.ledger.Templates(c.Request.Context())
	if err != nil {
		c.JSON(status(err), TemplateListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, TemplateListResponse{Data: templates})
}

// CreateTemplate creates a new record template.
func (co Controller) CreateTemplate(c *gin.Context) {
	var editable models.RecordTemplateEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	template, err := co.ledger.CreateTemplate(c.Request.Context(), editable)
	if err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, TemplateResponse{Data: &template})
}

// GetTemplate returns a specific template.
func (co Controller) GetTemplate(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	template, err := co.ledger.Template(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, TemplateResponse{Data: &template})
}

// UpdateTemplate updates a template. Only values to be updated need to be
// specified.
func (co Controller) UpdateTemplate(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	var patch ledger.TemplatePatch
	if err := httputil.BindData(c, &patch); err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	template, err := co.ledger.UpdateTemplate(c.Request.Context(), uri.ID.UUID, patch)
	if err != nil {
		c.JSON(status(err), TemplateResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, TemplateResponse{Data: &template})
}

// DeleteTemplate deletes a template. Records created from it are kept.
func (co Controller) DeleteTemplate(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := co.ledger.DeleteTemplate(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateRecordFromTemplate creates a record with the values of a template.
//
// The body is optional. Without a date, the record is created for now.
func (co Controller) CreateRecordFromTemplate(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	var use TemplateUse
	if err := httputil.BindData(c, &use); err != nil && !errors.Is(err, httputil.ErrRequestBodyEmpty) {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	record, err := co.ledger.RecordFromTemplate(c.Request.Context(), uri.ID.UUID, use.Date)
	if err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, RecordResponse{Data: &record})
}
