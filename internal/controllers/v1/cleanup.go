package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cleanup permanently deletes all accounts, buckets, records and templates
// and resets the categories to the defaults.
//
// The query parameter confirm must have the value
// "yes-please-delete-everything".
func (co Controller) Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	err = co.ledger.DeleteEverything(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
