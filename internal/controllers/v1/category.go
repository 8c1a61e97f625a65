package v1

import (
	"net/http"

	"github.com/buckets-finance/buckets/internal/httputil"
	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/gin-gonic/gin"
)

type CategoryListResponse struct {
	Data  []models.Category `json:"data"`                                                          // List of categories
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryResponse struct {
	Data  *models.Category `json:"data"`                                                          // Data for the category
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryTreeResponse struct {
	Data  []ledger.CategoryNode `json:"data"`  // Top level categories with their subcategories
	Error *string               `json:"error"` // The error, if any occurred
}

type CategoryUsageResponse struct {
	Data  []ledger.CategoryUsage `json:"data"`  // Categories, most used first
	Error *string                `json:"error"` // The error, if any occurred
}

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
		r.OPTIONS("/tree", httputil.OptionsGet)
		r.GET("/tree", co.GetCategoryTree)
		r.OPTIONS("/usage", httputil.OptionsGet)
		r.GET("/usage", co.GetCategoryUsage)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

// GetCategories returns all categories ordered by name.
func (co Controller) GetCategories(c *gin.Context) {
	categories, err := co.ledger.Categories(c.Request.Context())
	if err != nil {
		c.JSON(status(err), CategoryListResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: categories})
}

// GetCategoryTree returns the top level categories with their subcategories.
func (co Controller) GetCategoryTree(c *gin.Context) {
	tree, err := co.ledger.CategoryTree(c.Request.Context())
	if err != nil {
		c.JSON(status(err), CategoryTreeResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CategoryTreeResponse{Data: tree})
}

// GetCategoryUsage returns all categories with the number of records
// using them, most used first.
func (co Controller) GetCategoryUsage(c *gin.Context) {
	usage, err := co.ledger.CategoriesByFrequency(c.Request.Context())
	if err != nil {
		c.JSON(status(err), CategoryUsageResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CategoryUsageResponse{Data: usage})
}

// CreateCategory creates a new category.
func (co Controller) CreateCategory(c *gin.Context) {
	var editable models.CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	category, err := co.ledger.CreateCategory(c.Request.Context(), editable)
	if err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: &category})
}

// GetCategory returns a specific category.
func (co Controller) GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	category, err := co.ledger.Category(c.Request.Context(), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: &category})
}

// UpdateCategory updates a category. Only values to be updated need to be
// specified.
func (co Controller) UpdateCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	var patch ledger.CategoryPatch
	if err := httputil.BindData(c, &patch); err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	category, err := co.ledger.UpdateCategory(c.Request.Context(), uri.ID.UUID, patch)
	if err != nil {
		c.JSON(status(err), CategoryResponse{
			Error: errorString(err),
		})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: &category})
}

// DeleteCategory deletes a category and its subcategories.
func (co Controller) DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if err := co.ledger.DeleteCategory(c.Request.Context(), uri.ID.UUID); err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
