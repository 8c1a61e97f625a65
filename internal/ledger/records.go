package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordInput contains the fields of a new record.
type RecordInput struct {
	models.RecordEditable
	CreateTemplate bool `json:"createTemplate" example:"false"` // Also save the record as template
}

// RecordPatch contains the fields of a record to update. Nil fields are
// not changed. For CategoryID, TransferToAccountID and BucketID, the nil
// UUID removes the reference.
type RecordPatch struct {
	Label               *string          `json:"label"`
	Amount              *decimal.Decimal `json:"amount"`
	Date                *time.Time       `json:"date"`
	AccountID           *uuid.UUID       `json:"accountId"`
	CategoryID          *uuid.UUID       `json:"categoryId"`
	IsIncome            *bool            `json:"isIncome"`
	IsTransfer          *bool            `json:"isTransfer"`
	TransferToAccountID *uuid.UUID       `json:"transferToAccountId"`
	BucketID            *uuid.UUID       `json:"bucketId"`
}

// RecordQuery filters the records returned by Records.
type RecordQuery struct {
	Offset     int        // Offset of the period from the current one
	Unit       types.Unit // Length of the period
	AccountID  *uuid.UUID // Only records with this origin account
	Categories string     // Category names separated by "|"
	Amount     string     // Amount with optional operator, e.g. ">=12.5", "<10" or "42"
	Label      string     // Substring of the label, or a glob pattern if it contains "*"
}

// apply sets all non-nil fields of the patch on the record.
func (p RecordPatch) apply(r *models.Record) {
	if p.Label != nil {
		r.Label = *p.Label
	}

	if p.Amount != nil {
		r.Amount = *p.Amount
	}

	if p.Date != nil {
		r.Date = *p.Date
	}

	if p.AccountID != nil {
		r.AccountID = *p.AccountID
	}

	if p.CategoryID != nil {
		r.CategoryID = p.CategoryID
	}

	if p.IsIncome != nil {
		r.IsIncome = *p.IsIncome
	}

	if p.IsTransfer != nil {
		r.IsTransfer = *p.IsTransfer
	}

	if p.TransferToAccountID != nil {
		r.TransferToAccountID = p.TransferToAccountID
	}

	if p.BucketID != nil {
		r.BucketID = p.BucketID
	}
}

// bucketDebit returns the bucket a record takes money from and the amount.
func bucketDebit(r models.Record) (*uuid.UUID, decimal.Decimal) {
	if !r.IsExpense() || r.BucketID == nil {
		return nil, decimal.Zero
	}
	return r.BucketID, r.Amount
}

// checkReferences verifies that all resources the record references exist
// and are not deleted.
func checkReferences(tx *gorm.DB, r models.Record) error {
	return checkChangedReferences(tx, nil, r)
}

// checkChangedReferences verifies the references of r that differ from
// old. With a nil old, all references are checked.
//
// References that did not change may point to deleted resources, the
// record was valid when they were set.
func checkChangedReferences(tx *gorm.DB, old *models.Record, r models.Record) error {
	accountChanged := old == nil || old.AccountID != r.AccountID
	if accountChanged {
		if err := tx.First(&models.Account{}, "id = ?", r.AccountID).Error; err != nil {
			return err
		}
	}

	if r.TransferToAccountID != nil && (old == nil || !sameID(old.TransferToAccountID, r.TransferToAccountID)) {
		if err := tx.First(&models.Account{}, "id = ?", *r.TransferToAccountID).Error; err != nil {
			return fmt.Errorf("transfer destination: %w", err)
		}
	}

	if r.CategoryID != nil && (old == nil || !sameID(old.CategoryID, r.CategoryID)) {
		if err := tx.First(&models.Category{}, "id = ?", *r.CategoryID).Error; err != nil {
			return err
		}
	}

	if r.BucketID == nil {
		return nil
	}

	bucketChanged := old == nil || !sameID(old.BucketID, r.BucketID)
	if !bucketChanged && !accountChanged {
		return nil
	}

	query := tx
	if !bucketChanged {
		query = tx.Unscoped()
	}

	var bucket models.Bucket
	if err := query.First(&bucket, "id = ?", *r.BucketID).Error; err != nil {
		return err
	}

	if bucket.AccountID != r.AccountID {
		return models.ErrBucketAccountMismatch
	}

	return nil
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// adjustBucket adds delta to the amount of a bucket.
//
// Deleted buckets are adjusted too, so removing a record restores the
// bucket it was paid from even after the bucket was deleted.
func (l *Ledger) adjustBucket(tx *gorm.DB, id *uuid.UUID, delta decimal.Decimal) error {
	if id == nil || delta.IsZero() {
		return nil
	}

	var bucket models.Bucket
	if err := tx.Unscoped().First(&bucket, "id = ?", *id).Error; err != nil {
		return err
	}

	return tx.Unscoped().Model(&bucket).Update("amount", l.Round(bucket.Amount.Add(delta))).Error
}

// CreateRecord validates and saves a new record.
//
// An expense paid from a bucket reduces the amount of the bucket. Income
// and transfers never touch buckets. With CreateTemplate, a template with
// the same label, amount, account, category and direction is saved too.
// All changes are made in one transaction.
func (l *Ledger) CreateRecord(ctx context.Context, input RecordInput) (models.Record, error) {
	input.Amount = l.Round(input.Amount)
	if input.Date.IsZero() {
		input.Date = l.Now()
	}

	record, err := models.NewRecord(input.RecordEditable)
	if err != nil {
		return models.Record{}, err
	}

	err = l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, record); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}

		bucketID, amount := bucketDebit(record)
		if err := l.adjustBucket(tx, bucketID, amount.Neg()); err != nil {
			return err
		}

		if !input.CreateTemplate {
			return nil
		}

		template, err := models.NewRecordTemplate(models.TemplateOf(record.RecordEditable))
		if err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(&template).Error
	})
	if err != nil {
		return models.Record{}, err
	}

	log.Debug().Str("record", record.ID.String()).Str("amount", record.Amount.String()).Msg("created record")
	return record, nil
}

// Record returns the record with the given ID.
func (l *Ledger) Record(ctx context.Context, id uuid.UUID) (models.Record, error) {
	var record models.Record
	err := l.conn(ctx).First(&record, "id = ?", id).Error
	return record, err
}

// UpdateRecord applies the patch to a record.
//
// If the record was paid from a bucket, the bucket gets the old amount
// back and the new amount is taken from the bucket the record is paid
// from after the update, in the same transaction.
func (l *Ledger) UpdateRecord(ctx context.Context, id uuid.UUID, patch RecordPatch) (models.Record, error) {
	var record models.Record

	err := l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return err
		}

		before := record
		oldBucket, oldAmount := bucketDebit(record)

		patch.apply(&record)
		record.Amount = l.Round(record.Amount)
		if err := record.Validate(); err != nil {
			return err
		}

		if err := checkChangedReferences(tx, &before, record); err != nil {
			return err
		}

		if err := l.adjustBucket(tx, oldBucket, oldAmount); err != nil {
			return err
		}

		newBucket, newAmount := bucketDebit(record)
		if err := l.adjustBucket(tx, newBucket, newAmount.Neg()); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&record).Error
	})
	if err != nil {
		return models.Record{}, err
	}

	return record, nil
}

// DeleteRecord deletes a record. The amount of an expense paid from a
// bucket is given back to the bucket.
func (l *Ledger) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Record
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			return err
		}

		bucketID, amount := bucketDebit(record)
		if err := l.adjustBucket(tx, bucketID, amount); err != nil {
			return err
		}

		if err := tx.Delete(&record).Error; err != nil {
			return err
		}

		log.Debug().Str("record", id.String()).Msg("deleted record")
		return nil
	})
}

var amountFilter = regexp.MustCompile(`^(>=|>|=|<=|<)?(\d+(\.\d+)?)$`)

// ParseAmountFilter parses an amount with an optional comparison operator.
// Without operator, the amount must match exactly.
func ParseAmountFilter(s string) (string, decimal.Decimal, error) {
	match := amountFilter.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return "", decimal.Zero, models.ErrAmountFilterInvalid
	}

	operator := match[1]
	if operator == "" {
		operator = "="
	}

	amount, err := decimal.NewFromString(match[2])
	if err != nil {
		return "", decimal.Zero, models.ErrAmountFilterInvalid
	}

	return operator, amount, nil
}

// Records returns the records of a period matching the query, newest first.
func (l *Ledger) Records(ctx context.Context, q RecordQuery) ([]models.Record, error) {
	p := l.Period(q.Offset, q.Unit)

	query := l.conn(ctx).
		Where("records.date >= ? AND records.date < ?", p.Start.UTC(), p.End.UTC()).
		Order("records.date DESC").
		Order("records.created_at DESC")

	if q.AccountID != nil {
		query = query.Where("records.account_id = ?", *q.AccountID)
	}

	if names := splitCategories(q.Categories); len(names) > 0 {
		query = query.
			Joins("JOIN categories ON categories.id = records.category_id AND categories.deleted_at IS NULL").
			Where("categories.name IN ?", names)
	}

	if strings.TrimSpace(q.Amount) != "" {
		operator, amount, err := ParseAmountFilter(q.Amount)
		if err != nil {
			return nil, err
		}

		// The operator is one of the fixed strings of amountFilter
		query = query.Where(fmt.Sprintf("records.amount %s ?", operator), amount)
	}

	label := strings.ToLower(strings.TrimSpace(q.Label))
	pattern := strings.Contains(label, "*")
	if label != "" && !pattern {
		query = query.Where("LOWER(records.label) LIKE ?", "%"+label+"%")
	}

	records := []models.Record{}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	if !pattern {
		return records, nil
	}

	matching := make([]models.Record, 0, len(records))
	for _, r := range records {
		if glob.Glob(label, strings.ToLower(r.Label)) {
			matching = append(matching, r)
		}
	}

	return matching, nil
}

func splitCategories(piped string) []string {
	var names []string
	for _, name := range strings.Split(piped, "|") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
