package v1

import (
	"errors"
	"net/http"

	"github.com/buckets-finance/buckets/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// errorString returns a pointer to the message of err for responses.
func errorString(err error) *string {
	s := err.Error()
	return &s
}

var (
	errUnitInvalid = errors.New("the unit query parameter must be one of 'day', 'week', 'month' or 'year'")
	errFormInvalid = errors.New("the submitted form contains errors")

	errCleanupConfirmation = errors.New("the confirm query parameter must be set to 'yes-please-delete-everything'")
)
