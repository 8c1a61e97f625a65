package v1

import (
	"net/http"
	"time"

	"github.com/buckets-finance/buckets/internal/forms"
	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/gin-gonic/gin"
)

// RegisterRecordRoutes registers the routes for records with
// the RouterGroup that is passed.
func (co Controller) RegisterRecordRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetRecords)
		r.POST("", co.CreateRecord)
	}

	// Forms
	{
		r.OPTIONS("/form", httputil.OptionsGetPost)
		r.GET("/form", co.GetRecordForm)
		r.POST("/form", co.SubmitRecordForm)
		r.OPTIONS("/transfer-form", httputil.OptionsGetPost)
		r.GET("/transfer-form", co.GetTransferForm)
		r.POST("/transfer-form", co.SubmitTransferForm)
	}

	// Record with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetRecord)
		r.PATCH("/:id", co.UpdateRecord)
		r.DELETE("/:id", co.DeleteRecord)
		r.OPTIONS("/:id/form", httputil.OptionsGet)
		r.GET("/:id/form", co.GetRecordEditForm)
	}
}

// GetRecords returns the records of a period, newest first.
//
// The records can be filtered by account, category names, amount and label.
func (co Controller) GetRecords(c *gin.Context) {
	var filter RecordQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, RecordListResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	unit, err := co.unit(filter.PeriodQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, RecordListResponse{
			Error: errorString(err),
		})
		return
	}

	records, err := co.ledger.Records(c.Request.Context(), ledger.RecordQuery{
		Offset:     filter.Offset,
		Unit:       unit,
		AccountID:  filter.Account.Ptr(),
		Categories: filter.Categories,
		Amount:     filter.Amount,
		Label:      filter.Label,
	})
	if err != nil {
		c.JSON(status(err), RecordListResponse{
			Error: errorString(err),
		})
		return
	}

	period := co.period(filter.Offset, unit)
	c.JSON(http.StatusOK, RecordListResponse{Data: records, Period: &period})
}

// CreateRecord creates a new record.
func (co Controller) CreateRecord(c *gin.Context) {
	var input ledger.RecordInput
	if err := httputil.BindData(c, &input); err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	record, err := co.ledger.CreateRecord(c.Request.Context(), input)
	if err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, RecordResponse{Data: &record})
}

// GetRecord returns a specific record.
func (co Controller) GetRecord(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	record, err := co.ledger.Record(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, RecordResponse{Data: &record})
}

// UpdateRecord updates a record. Only values to be updated need to be specified.
func (co Controller) UpdateRecord(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	var patch ledger.RecordPatch
	if err := httputil.BindData(c, &patch); err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	record, err := co.ledger.UpdateRecord(c.Request.Context(), uri.ID.UUID, patch)
	if err != nil {
		c.JSON(status(err), RecordResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, RecordResponse{Data: &record})
}

// DeleteRecord deletes a record.
func (co Controller) DeleteRecord(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := co.ledger.DeleteRecord(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// recordForm builds the record form with the current templates,
// categories, accounts and buckets as options.
func (co Controller) recordForm(c *gin.Context) (forms.Form, error) {
	ctx := c.Request.Context()

	var (
		o   forms.RecordOptions
		err error
	)

	if o.Templates, err = co.ledger.Templates(ctx); err != nil {
		return forms.Form{}, err
	}

	if o.Categories, err = co.ledger.CategoriesByFrequency(ctx); err != nil {
		return forms.Form{}, err
	}

	if o.Accounts, err = co.ledger.AccountsWithBalance(ctx, false); err != nil {
		return forms.Form{}, err
	}

	if o.Buckets, err = co.ledger.Buckets(ctx, nil, false); err != nil {
		return forms.Form{}, err
	}

	return forms.RecordForm(co.ledger.Now(), o), nil
}

// GetRecordForm returns the form to add an income or expense record.
func (co Controller) GetRecordForm(c *gin.Context) {
	form, err := co.recordForm(c)
	if err != nil {
		c.JSON(status(err), FormResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, FormResponse{Data: &form})
}

// GetRecordEditForm returns the record form with the values of an
// existing record as defaults.
func (co Controller) GetRecordEditForm(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), FormResponse{
			Error: errorString(err),
		})
		return
	}

	record, err := co.ledger.Record(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), FormResponse{
			Error: errorString(err),
		})
		return
	}

	var form forms.Form
	if record.IsTransfer {
		var accounts []ledger.AccountWithBalance
		accounts, err = co.ledger.AccountsWithBalance(c.Request.Context(), false)
		form = forms.TransferForm(co.ledger.Now(), accounts)
	} else {
		form, err = co.recordForm(c)
	}

	if err != nil {
		c.JSON(status(err), FormResponse{
			Error: errorString(err),
		})
		return
	}

	form = forms.Fill(form, record, co.ledger.Now())
	c.JSON(http.StatusOK, FormResponse{Data: &form})
}

// SubmitRecordForm creates a record from the submitted record form.
//
// All values are submitted as strings, keyed by the field key.
func (co Controller) SubmitRecordForm(c *gin.Context) {
	co.submitForm(c, forms.DecodeRecord)
}

// GetTransferForm returns the form to move money between accounts.
func (co Controller) GetTransferForm(c *gin.Context) {
	accounts, err := co.ledger.AccountsWithBalance(c.Request.Context(), false)
	if err != nil {
		c.JSON(status(err), FormResponse{
			Error: errorString(err),
		})
		return
	}

	form := forms.TransferForm(co.ledger.Now(), accounts)
	c.JSON(http.StatusOK, FormResponse{Data: &form})
}

// SubmitTransferForm creates a transfer from the submitted transfer form.
func (co Controller) SubmitTransferForm(c *gin.Context) {
	co.submitForm(c, forms.DecodeTransfer)
}

type formDecoder func(submitted map[string]string, now time.Time) (ledger.RecordInput, forms.Errors)

func (co Controller) submitForm(c *gin.Context, decode formDecoder) {
	var submitted map[string]string
	if err := httputil.BindData(c, &submitted); err != nil {
		c.JSON(status(err), FormSubmissionResponse{
			Error: errorString(err),
		})
		return
	}

	input, errs := decode(submitted, co.ledger.Now())
	if errs != nil {
		c.JSON(http.StatusBadRequest, FormSubmissionResponse{
			Errors: errs,
			Error:  errorString(errFormInvalid),
		})
		return
	}

	record, err := co.ledger.CreateRecord(c.Request.Context(), input)
	if err != nil {
		c.JSON(status(err), FormSubmissionResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, FormSubmissionResponse{Data: &record})
}
