package forms

import (
	"time"

	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordOptions are the choices offered by the autocomplete fields of the
// record form.
type RecordOptions struct {
	Templates  []models.RecordTemplate
	Categories []ledger.CategoryUsage
	Accounts   []ledger.AccountWithBalance
	Buckets    []models.Bucket
}

var zero = decimal.Zero

// RecordForm returns the form to add an income or expense record.
func RecordForm(now time.Time, o RecordOptions) Form {
	form := Form{Fields: []Field{
		{Key: "label", Title: "Label / Template name", Type: Autocomplete, Required: true, Suggest: true},
		{Key: "categoryId", Title: "Category", Type: Autocomplete, Required: true},
		{Key: "amount", Title: "Amount", Type: Number, Required: true, Min: &zero},
		{Key: "accountId", Title: "Account", Type: Autocomplete, Required: true},
		{Key: "isIncome", Title: "Income", Type: Boolean, Default: "false"},
		{Key: "date", Title: "Date", Type: DateAutoDay, Default: now.Format("02")},
		{Key: "bucketId", Title: "Bucket", Type: Autocomplete},
		{Key: "createTemplate", Title: "Save as template", Type: Boolean, Default: "false"},
	}}

	label := form.Field("label")
	for _, t := range o.Templates {
		label.Options = append(label.Options, Option{Text: t.Label, Value: t.ID.String(), Hint: t.Amount.String()})
	}

	category := form.Field("categoryId")
	for _, c := range o.Categories {
		category.Options = append(category.Options, Option{Text: c.Name, Value: c.ID.String(), Hint: string(c.Nature)})
	}

	account := form.Field("accountId")
	for _, a := range o.Accounts {
		account.Options = append(account.Options, Option{Text: a.Name, Value: a.ID.String(), Hint: a.Balance.String()})
	}
	if len(o.Accounts) > 0 {
		account.Default = o.Accounts[0].ID.String()
	}

	bucket := form.Field("bucketId")
	for _, b := range o.Buckets {
		bucket.Options = append(bucket.Options, Option{Text: b.Name, Value: b.ID.String(), Hint: b.Amount.String()})
	}

	return form
}

// TransferForm returns the form to move money from one account to another.
func TransferForm(now time.Time, accounts []ledger.AccountWithBalance) Form {
	form := Form{Fields: []Field{
		{Key: "label", Title: "Label", Type: String, Required: true},
		{Key: "amount", Title: "Amount", Type: Number, Required: true, Min: &zero},
		{Key: "accountId", Title: "From", Type: Autocomplete, Required: true},
		{Key: "transferToAccountId", Title: "To", Type: Autocomplete, Required: true},
		{Key: "date", Title: "Date", Type: DateAutoDay, Default: now.Format("02")},
	}}

	for _, key := range []string{"accountId", "transferToAccountId"} {
		field := form.Field(key)
		for _, a := range accounts {
			field.Options = append(field.Options, Option{Text: a.Name, Value: a.ID.String(), Hint: a.Balance.String()})
		}
	}

	return form
}

// Fill sets the values of an existing record as defaults of the form.
// The label of an existing record is edited as plain text.
func Fill(form Form, r models.Record, now time.Time) Form {
	filled := Form{Fields: make([]Field, len(form.Fields))}
	copy(filled.Fields, form.Fields)

	for i := range filled.Fields {
		field := &filled.Fields[i]

		switch field.Key {
		case "label":
			field.Default = r.Label
			field.Type = String
			field.Options = nil
		case "amount":
			field.Default = r.Amount.String()
		case "date":
			field.Default = FormatDate(r.Date, now)
		case "isIncome":
			field.Default = boolString(r.IsIncome)
		case "accountId":
			field.Default = r.AccountID.String()
		case "categoryId":
			field.Default = idString(r.CategoryID)
		case "bucketId":
			field.Default = idString(r.BucketID)
		case "transferToAccountId":
			field.Default = idString(r.TransferToAccountID)
		}
	}

	return filled
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// DecodeRecord validates the submitted record form and returns the input
// for ledger.CreateRecord.
//
// Selections are only checked to be IDs here, the ledger checks that they
// exist. A missing date is left empty for the ledger to fill in.
func DecodeRecord(submitted map[string]string, now time.Time) (ledger.RecordInput, Errors) {
	values, errs := RecordForm(now, RecordOptions{}).Decode(submitted, now)
	if errs == nil {
		errs = Errors{}
	}

	var input ledger.RecordInput
	decodeCommon(values, errs, &input.RecordEditable)

	input.IsIncome, _ = values["isIncome"].(bool)
	input.CreateTemplate, _ = values["createTemplate"].(bool)
	input.CategoryID = optionalID(values, errs, "categoryId")
	input.BucketID = optionalID(values, errs, "bucketId")

	if len(errs) > 0 {
		return ledger.RecordInput{}, errs
	}
	return input, nil
}

// DecodeTransfer validates the submitted transfer form and returns the
// input for ledger.CreateRecord.
func DecodeTransfer(submitted map[string]string, now time.Time) (ledger.RecordInput, Errors) {
	values, errs := TransferForm(now, nil).Decode(submitted, now)
	if errs == nil {
		errs = Errors{}
	}

	var input ledger.RecordInput
	decodeCommon(values, errs, &input.RecordEditable)

	input.IsTransfer = true
	input.TransferToAccountID = optionalID(values, errs, "transferToAccountId")

	if input.TransferToAccountID != nil && *input.TransferToAccountID == input.AccountID {
		errs["transferToAccountId"] = "Must be different from the origin account"
	}

	if len(errs) > 0 {
		return ledger.RecordInput{}, errs
	}
	return input, nil
}

// decodeCommon sets the fields the record and transfer forms share.
func decodeCommon(values Values, errs Errors, e *models.RecordEditable) {
	e.Label, _ = values["label"].(string)
	e.Amount, _ = values["amount"].(decimal.Decimal)
	e.Date, _ = values["date"].(time.Time)

	if id := optionalID(values, errs, "accountId"); id != nil {
		e.AccountID = *id
	}
}

// optionalID parses the UUID at key. Missing values result in nil.
func optionalID(values Values, errs Errors, key string) *uuid.UUID {
	raw, ok := values[key].(string)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		errs[key] = "Invalid selection"
		return nil
	}

	return &id
}
