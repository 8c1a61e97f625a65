package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("validation failed")
)

// Account errors
var (
	ErrAccountNameNotUnique = errors.New("the account name must be unique")
)

// Category errors
var (
	ErrCategoryNatureInvalid  = errors.New("the category nature must be one of 'Must', 'Need' or 'Want'")
	ErrCategoryNestingTooDeep = errors.New("a subcategory cannot be the parent of another category")
	ErrCategoryParentIsSelf   = errors.New("a category cannot be its own parent")
)

// Record errors
var (
	ErrAmountNotPositive           = errors.New("the amount must be greater than 0")
	ErrTransferIsIncome            = errors.New("a transfer cannot be an income")
	ErrTransferDestinationMissing  = errors.New("a transfer needs a destination account")
	ErrTransferDestinationIsOrigin = errors.New("the destination account of a transfer must be different from its origin account")
	ErrTransferHasCategory         = errors.New("a transfer cannot have a category")
	ErrBucketAccountMismatch       = errors.New("the bucket must belong to the account of the record")
	ErrAmountFilterInvalid         = errors.New("the amount filter must be a number with an optional operator, e.g. '>=12.5'")
)
