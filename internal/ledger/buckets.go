package ledger

import (
	"context"
	"errors"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BucketTransferError is returned when a transfer between buckets is not
// possible. The reason is meant to be shown to the user as is.
type BucketTransferError struct {
	Reason string
}

func (e *BucketTransferError) Error() string {
	return e.Reason
}

// Reasons a transfer between buckets fails, in the order they are checked.
var (
	ErrBucketTransferSameBucket        = &BucketTransferError{"Source and destination buckets must be different."}
	ErrBucketTransferAmountNotPositive = &BucketTransferError{"Amount must be greater than 0."}
	ErrBucketTransferSourceNotFound    = &BucketTransferError{"Source bucket not found."}
	ErrBucketTransferDestNotFound      = &BucketTransferError{"Destination bucket not found."}
	ErrBucketTransferDifferentAccounts = &BucketTransferError{"Buckets must belong to the same account."}
	ErrBucketTransferInsufficientFunds = &BucketTransferError{"Insufficient funds in source bucket."}
)

// BucketPatch contains the fields of a bucket to update. Nil fields are
// not changed.
type BucketPatch struct {
	Name      *string          `json:"name"`
	Amount    *decimal.Decimal `json:"amount"`
	AccountID *uuid.UUID       `json:"accountId"`
}

// CreateBucket creates a bucket in an existing account.
func (l *Ledger) CreateBucket(ctx context.Context, editable models.BucketEditable) (models.Bucket, error) {
	editable.Amount = l.Round(editable.Amount)

	bucket, err := models.NewBucket(editable)
	if err != nil {
		return models.Bucket{}, err
	}

	if _, err := l.Account(ctx, bucket.AccountID); err != nil {
		return models.Bucket{}, err
	}

	err = l.conn(ctx).Omit(clause.Associations).Create(&bucket).Error
	return bucket, err
}

// Bucket returns the bucket with the given ID.
func (l *Ledger) Bucket(ctx context.Context, id uuid.UUID) (models.Bucket, error) {
	var bucket models.Bucket
	err := l.conn(ctx).First(&bucket, "id = ?", id).Error
	return bucket, err
}

// Buckets returns the buckets ordered by name. If accountID is set, only
// buckets of that account are returned.
func (l *Ledger) Buckets(ctx context.Context, accountID *uuid.UUID, includeDeleted bool) ([]models.Bucket, error) {
	query := l.conn(ctx).Order("account_id ASC").Order("name ASC")
	if includeDeleted {
		query = query.Unscoped()
	}

	if accountID != nil {
		query = query.Where("account_id = ?", *accountID)
	}

	buckets := []models.Bucket{}
	err := query.Find(&buckets).Error
	return buckets, err
}

// UpdateBucket applies the patch to the bucket.
//
// Moving a bucket to another account has to be requested explicitly with
// AccountID.
func (l *Ledger) UpdateBucket(ctx context.Context, id uuid.UUID, patch BucketPatch) (models.Bucket, error) {
	bucket, err := l.Bucket(ctx, id)
	if err != nil {
		return models.Bucket{}, err
	}

	if patch.Name != nil {
		bucket.Name = *patch.Name
	}

	if patch.Amount != nil {
		bucket.Amount = l.Round(*patch.Amount)
	}

	if patch.AccountID != nil && *patch.AccountID != bucket.AccountID {
		if _, err := l.Account(ctx, *patch.AccountID); err != nil {
			return models.Bucket{}, err
		}
		bucket.AccountID = *patch.AccountID
	}

	if _, err := models.NewBucket(bucket.BucketEditable); err != nil {
		return models.Bucket{}, err
	}

	err = l.conn(ctx).Omit(clause.Associations).Save(&bucket).Error
	return bucket, err
}

// DeleteBucket soft deletes the bucket.
func (l *Ledger) DeleteBucket(ctx context.Context, id uuid.UUID) error {
	bucket, err := l.Bucket(ctx, id)
	if err != nil {
		return err
	}

	return l.conn(ctx).Delete(&bucket).Error
}

// TransferBetweenBuckets moves amount from one bucket to another bucket of
// the same account.
//
// Failed preconditions are reported as *BucketTransferError. Both buckets
// are updated in one transaction, either both changes are saved or none.
func (l *Ledger) TransferBetweenBuckets(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	err := l.transferBetweenBuckets(ctx, from, to, amount)

	result := "success"
	var transferErr *BucketTransferError
	if errors.As(err, &transferErr) {
		result = "rejected"
	} else if err != nil {
		result = "error"
	}
	transfers.WithLabelValues(result).Inc()

	return err
}

func (l *Ledger) transferBetweenBuckets(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	if from == to {
		return ErrBucketTransferSameBucket
	}

	amount = l.Round(amount)
	if !amount.IsPositive() {
		return ErrBucketTransferAmountNotPositive
	}

	return l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var source, destination models.Bucket

		err := tx.First(&source, "id = ?", from).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return ErrBucketTransferSourceNotFound
		} else if err != nil {
			return err
		}

		err = tx.First(&destination, "id = ?", to).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return ErrBucketTransferDestNotFound
		} else if err != nil {
			return err
		}

		if source.AccountID != destination.AccountID {
			return ErrBucketTransferDifferentAccounts
		}

		if source.Amount.LessThan(amount) {
			return ErrBucketTransferInsufficientFunds
		}

		err = tx.Model(&source).Update("amount", l.Round(source.Amount.Sub(amount))).Error
		if err != nil {
			return err
		}

		err = tx.Model(&destination).Update("amount", l.Round(destination.Amount.Add(amount))).Error
		if err != nil {
			return err
		}

		log.Debug().
			Str("from", from.String()).
			Str("to", to.String()).
			Str("amount", amount.String()).
			Msg("transferred between buckets")

		return nil
	})
}
