package v1

import (
	"errors"
	"net/http"

	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	api_uuid "github.com/buckets-finance/buckets/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BucketListResponse struct {
	Data  []models.Bucket `json:"data"`                                                          // List of buckets
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BucketResponse struct {
	Data  *models.Bucket `json:"data"`                                                          // Data for the bucket
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BucketQueryFilter struct {
	Account api_uuid.UUID `form:"account"` // Only buckets of this account
	Deleted bool          `form:"deleted"` // Include deleted buckets
}

// BucketTransfer moves money between two buckets of the same account.
type BucketTransfer struct {
	From   api_uuid.UUID   `json:"from" example:"0b8f0c93-2e0d-4c52-8a57-2ad5a3c5f0e1"`
	To     api_uuid.UUID   `json:"to" example:"5e0dca2d-3b66-4e0c-a8a1-9b8f2f1fbb0c"`
	Amount decimal.Decimal `json:"amount" example:"50"`
}

// BucketTransferResult contains both buckets after a transfer.
type BucketTransferResult struct {
	From models.Bucket `json:"from"`
	To   models.Bucket `json:"to"`
}

type BucketTransferResponse struct {
	Data  *BucketTransferResult `json:"data"`
	Error *string               `json:"error" example:"Insufficient funds in source bucket."` // The error, if any occurred
}

// RegisterBucketRoutes registers the routes for buckets with
// the RouterGroup that is passed.
func (co Controller) RegisterBucketRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetBuckets)
		r.POST("", co.CreateBucket)
		r.OPTIONS("/transfer", httputil.OptionsPost)
		r.POST("/transfer", co.TransferBetweenBuckets)
	}

	// Bucket with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetBucket)
		r.PATCH("/:id", co.UpdateBucket)
		r.DELETE("/:id", co.DeleteBucket)
	}
}

// GetBuckets returns the buckets, optionally only those of one account.
func (co Controller) GetBuckets(c *gin.Context) {
	var filter BucketQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, BucketListResponse{
			Error: errorString(httputil.ErrInvalidQuery),
		})
		return
	}

	buckets, err := co.ledger.Buckets(c.Request.Context(), filter.Account.Ptr(), filter.Deleted)
	if err != nil {
		c.JSON(status(err), BucketListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, BucketListResponse{Data: buckets})
}

// CreateBucket creates a new bucket in an existing account.
func (co Controller) CreateBucket(c *gin.Context) {
	var editable models.BucketEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	bucket, err := co.ledger.CreateBucket(c.Request.Context(), editable)
	if err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, BucketResponse{Data: &bucket})
}

// GetBucket returns a specific bucket.
func (co Controller) GetBucket(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	bucket, err := co.ledger.Bucket(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, BucketResponse{Data: &bucket})
}

// UpdateBucket updates a bucket. Only values to be updated need to be specified.
func (co Controller) UpdateBucket(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	var patch ledger.BucketPatch
	if err := httputil.BindData(c, &patch); err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	bucket, err := co.ledger.UpdateBucket(c.Request.Context(), uri.ID.UUID, patch)
	if err != nil {
		c.JSON(status(err), BucketResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, BucketResponse{Data: &bucket})
}

// DeleteBucket deletes a bucket.
func (co Controller) DeleteBucket(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := co.ledger.DeleteBucket(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// TransferBetweenBuckets moves an amount from one bucket to another.
//
// Rejected transfers are answered with 400 and the reason as error.
func (co Controller) TransferBetweenBuckets(c *gin.Context) {
	var transfer BucketTransfer
	if err := httputil.BindData(c, &transfer); err != nil {
		c.JSON(status(err), BucketTransferResponse{
			Error: errorString(err),
		})
		return
	}

	ctx := c.Request.Context()
	err := co.ledger.TransferBetweenBuckets(ctx, transfer.From.UUID, transfer.To.UUID, transfer.Amount)

	var transferErr *ledger.BucketTransferError
	if errors.As(err, &transferErr) {
		c.JSON(http.StatusBadRequest, BucketTransferResponse{
			Error: errorString(transferErr),
		})
		return
	} else if err != nil {
		c.JSON(status(err), BucketTransferResponse{
			Error: errorString(err),
		})
		return
	}

	var result BucketTransferResult
	if result.From, err = co.ledger.Bucket(ctx, transfer.From.UUID); err == nil {
		result.To, err = co.ledger.Bucket(ctx, transfer.To.UUID)
	}

	if err != nil {
		c.JSON(status(err), BucketTransferResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, BucketTransferResponse{Data: &result})
}
