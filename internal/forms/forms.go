// Package forms describes the input forms of the API and turns submitted
// string values into typed values.
package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldType is the kind of value a field accepts.
type FieldType string

const (
	String       FieldType = "string"
	Number       FieldType = "number"
	Integer      FieldType = "integer"
	Boolean      FieldType = "boolean"
	Date         FieldType = "date"
	DateAutoDay  FieldType = "dateAutoDay"
	Autocomplete FieldType = "autocomplete"
)

// DateFormat is the format dates are entered and displayed in.
const DateFormat = "02 01 06"

// dateLayout parses DateFormat and also accepts single digit days and months.
const dateLayout = "2 1 06"

// Option is one choice of an autocomplete field.
type Option struct {
	Text  string `json:"text" example:"Checking"`
	Value string `json:"value" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Hint  string `json:"hint,omitempty" example:"1234.56"` // Additional information shown next to the option
}

// Field describes one input of a form.
type Field struct {
	Key      string           `json:"key" example:"amount"`
	Title    string           `json:"title" example:"Amount"`
	Type     FieldType        `json:"type" example:"number"`
	Required bool             `json:"required" example:"true"`
	Min      *decimal.Decimal `json:"min,omitempty"` // Exclusive lower bound for number and integer fields
	Max      *decimal.Decimal `json:"max,omitempty"` // Inclusive upper bound for number and integer fields
	Options  []Option         `json:"options,omitempty"`
	Default  string           `json:"default,omitempty"`

	// Free text is accepted for autocomplete fields that only suggest values
	Suggest bool `json:"suggest,omitempty"`
}

// Form is an ordered list of fields.
type Form struct {
	Fields []Field `json:"fields"`
}

// Field returns a pointer to the field with the given key, or nil.
func (f *Form) Field(key string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Key == key {
			return &f.Fields[i]
		}
	}
	return nil
}

// Errors maps field keys to the problem with the submitted value.
type Errors map[string]string

func (e Errors) Error() string {
	keys := maps.Keys(e)
	slices.Sort(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, fmt.Sprintf("%s: %s", k, e[k]))
	}

	return strings.Join(messages, "; ")
}

// Values are the decoded values of a form, keyed by field key. The dynamic
// type of a value depends on the field type: decimal.Decimal for numbers,
// int for integers, bool for booleans, time.Time for dates and string for
// everything else.
type Values map[string]any

// Decode validates the submitted values and converts them according to
// the field types. Empty optional fields are left out of the result.
// Dates are interpreted in the location of now.
func (f Form) Decode(submitted map[string]string, now time.Time) (Values, Errors) {
	values := Values{}
	errs := Errors{}

	for _, field := range f.Fields {
		raw := strings.TrimSpace(submitted[field.Key])

		if raw == "" {
			switch {
			case field.Type == Boolean:
				values[field.Key] = false
			case field.Required:
				errs[field.Key] = field.requiredMessage()
			}
			continue
		}

		value, problem := field.decode(raw, now)
		if problem != "" {
			errs[field.Key] = problem
			continue
		}

		values[field.Key] = value
	}

	if len(errs) > 0 {
		return values, errs
	}
	return values, nil
}

func (field Field) requiredMessage() string {
	if field.Type == Autocomplete && !field.Suggest {
		return "Must be selected"
	}
	return "Required"
}

// decode converts a single non-empty value. Problems are returned as
// message for the user.
func (field Field) decode(raw string, now time.Time) (any, string) {
	switch field.Type {
	case Number:
		n, err := ParseFormula(raw)
		if err != nil {
			return nil, "Must be a number"
		}
		return n, field.checkRange(n)

	case Integer:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "Must be a whole number"
		}
		return i, field.checkRange(decimal.NewFromInt(int64(i)))

	case Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, "Must be true or false"
		}
		return b, ""

	case Date:
		t, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			return nil, "Must be in dd mm yy format"
		}
		return t, ""

	case DateAutoDay:
		t, err := parseDateAutoDay(raw, now)
		if err != nil {
			return nil, "Must be in dd (mm) (yy) format"
		}
		return t, ""

	case Autocomplete:
		if field.Suggest || len(field.Options) == 0 {
			return raw, ""
		}

		for _, o := range field.Options {
			if o.Value == raw {
				return raw, ""
			}
		}
		return nil, "Invalid selection"
	}

	return raw, ""
}

// checkRange applies Min and Max.
func (field Field) checkRange(n decimal.Decimal) string {
	if field.Min != nil && n.LessThanOrEqual(*field.Min) {
		return fmt.Sprintf("Must be greater than %s", field.Min)
	}

	if field.Max != nil && n.GreaterThan(*field.Max) {
		return fmt.Sprintf("Must be less than %s", field.Max)
	}

	return ""
}

var onlyDigits = regexp.MustCompile(`^\d{1,2}$`)

// parseDateAutoDay parses "dd mm yy". A day alone is a day of the month
// of now.
func parseDateAutoDay(raw string, now time.Time) (time.Time, error) {
	if onlyDigits.MatchString(raw) {
		raw = fmt.Sprintf("%s %s", raw, now.Format("01 06"))
	}

	return time.ParseInLocation(dateLayout, raw, now.Location())
}

// FormatDate formats t for a dateAutoDay field: just the day if t is in
// the month of now, the full date otherwise.
func FormatDate(t, now time.Time) string {
	t = t.In(now.Location())
	if t.Year() == now.Year() && t.Month() == now.Month() {
		return t.Format("02")
	}
	return t.Format(DateFormat)
}

var formulaTerm = regexp.MustCompile(`^[+-]?\d+(\.\d+)?|^[+-]?\.\d+`)

// ErrFormula is returned by ParseFormula for anything but a sum of numbers.
var ErrFormula = errors.New("not a sum of numbers")

// ParseFormula evaluates a sum of numbers, e.g. "12.5+3-1". A trailing
// operator is ignored.
func ParseFormula(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "+-", "-")
	s = strings.TrimRight(s, "+-.")

	if s == "" {
		return decimal.Zero, ErrFormula
	}

	total := decimal.Zero
	for s != "" {
		term := formulaTerm.FindString(s)
		if term == "" {
			return decimal.Zero, ErrFormula
		}

		n, err := decimal.NewFromString(strings.TrimPrefix(term, "+"))
		if err != nil {
			return decimal.Zero, ErrFormula
		}

		total = total.Add(n)
		s = s[len(term):]

		// Every further term has to start with an operator
		if s != "" && s[0] != '+' && s[0] != '-' {
			return decimal.Zero, ErrFormula
		}
	}

	return total, nil
}
