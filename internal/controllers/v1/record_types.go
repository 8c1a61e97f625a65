package v1

import (
	"github.com/buckets-finance/buckets/internal/forms"
	"github.com/buckets-finance/buckets/internal/models"
	api_uuid "github.com/buckets-finance/buckets/internal/uuid"
)

type RecordListResponse struct {
	Data   []models.Record `json:"data"`                                                          // List of records, newest first
	Period *Period         `json:"period"`                                                        // The period the records are from
	Error  *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecordResponse struct {
	Data  *models.Record `json:"data"`                                                          // Data for the record
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecordQueryFilter struct {
	PeriodQuery
	Account    api_uuid.UUID `form:"account"`                        // Only records of this origin account
	Categories string        `form:"categories" example:"Food|Rent"` // Category names separated by "|"
	Amount     string        `form:"amount" example:">=12.5"`        // Amount with optional operator
	Label      string        `form:"label" example:"market*"`        // Substring of the label, or glob pattern with "*"
}

type FormResponse struct {
	Data  *forms.Form `json:"data"`  // The form
	Error *string     `json:"error"` // The error, if any occurred
}

// FormSubmissionResponse is returned when a form is submitted.
//
// If the submission is invalid, Errors contains one message per field.
type FormSubmissionResponse struct {
	Data   *models.Record `json:"data"`             // The created record
	Errors forms.Errors   `json:"errors,omitempty"` // Messages for invalid fields, by field key
	Error  *string        `json:"error"`            // The error, if any occurred
}
