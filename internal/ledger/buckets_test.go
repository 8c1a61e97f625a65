package ledger_test

import (
	"errors"

	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestTransferBetweenBuckets() {
	account := suite.createTestAccount("A", "0")
	x := suite.createTestBucket(account, "50")
	y := suite.createTestBucket(account, "10")

	suite.Require().Nil(suite.ledger.TransferBetweenBuckets(suite.ctx, x.ID, y.ID, dec("20")))
	suite.assertDecimal("30", suite.bucketAmount(x.ID))
	suite.assertDecimal("30", suite.bucketAmount(y.ID))

	suite.Require().Nil(suite.ledger.TransferBetweenBuckets(suite.ctx, x.ID, y.ID, dec("20")))
	suite.assertDecimal("10", suite.bucketAmount(x.ID))
	suite.assertDecimal("50", suite.bucketAmount(y.ID))

	err := suite.ledger.TransferBetweenBuckets(suite.ctx, x.ID, y.ID, dec("20"))
	suite.Assert().ErrorIs(err, ledger.ErrBucketTransferInsufficientFunds)
	suite.assertDecimal("10", suite.bucketAmount(x.ID))
	suite.assertDecimal("50", suite.bucketAmount(y.ID))

	// The whole amount can be moved
	suite.Require().Nil(suite.ledger.TransferBetweenBuckets(suite.ctx, x.ID, y.ID, dec("10")))
	suite.assertDecimal("0", suite.bucketAmount(x.ID))
	suite.assertDecimal("60", suite.bucketAmount(y.ID))
}

func (suite *TestSuiteStandard) TestTransferBetweenBucketsConservesAmount() {
	account := suite.createTestAccount("A", "0")
	x := suite.createTestBucket(account, "100.10")
	y := suite.createTestBucket(account, "0.05")

	for _, amount := range []string{"0.01", "33.333", "12", "0.5"} {
		before := suite.bucketAmount(x.ID).Add(suite.bucketAmount(y.ID))
		suite.Require().Nil(suite.ledger.TransferBetweenBuckets(suite.ctx, x.ID, y.ID, dec(amount)))
		after := suite.bucketAmount(x.ID).Add(suite.bucketAmount(y.ID))

		suite.Assert().True(before.Equal(after), "%s: %s != %s", amount, before, after)
	}

	// 33.333 is rounded to 33.33
	suite.assertDecimal("54.26", suite.bucketAmount(x.ID))
	suite.assertDecimal("45.89", suite.bucketAmount(y.ID))
}

func (suite *TestSuiteStandard) TestTransferBetweenBucketsPreconditions() {
	account := suite.createTestAccount("A", "0")
	other := suite.createTestAccount("B", "0")

	x := suite.createTestBucket(account, "50")
	y := suite.createTestBucket(account, "10")
	foreign := suite.createTestBucket(other, "10")
	deleted := suite.createTestBucket(account, "10")
	suite.Require().Nil(suite.ledger.DeleteBucket(suite.ctx, deleted.ID))

	tests := []struct {
		name   string
		from   uuid.UUID
		to     uuid.UUID
		amount string
		reason string
	}{
		{"Same bucket", x.ID, x.ID, "0", "Source and destination buckets must be different."},
		{"Zero amount", x.ID, y.ID, "0", "Amount must be greater than 0."},
		{"Negative amount", uuid.New(), y.ID, "-5", "Amount must be greater than 0."},
		{"Rounds to zero", x.ID, y.ID, "0.004", "Amount must be greater than 0."},
		{"Unknown source", uuid.New(), uuid.New(), "5", "Source bucket not found."},
		{"Deleted source", deleted.ID, y.ID, "5", "Source bucket not found."},
		{"Unknown destination", x.ID, uuid.New(), "5", "Destination bucket not found."},
		{"Deleted destination", x.ID, deleted.ID, "5", "Destination bucket not found."},
		{"Different accounts", x.ID, foreign.ID, "100", "Buckets must belong to the same account."},
		{"Insufficient funds", x.ID, y.ID, "50.01", "Insufficient funds in source bucket."},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := suite.ledger.TransferBetweenBuckets(suite.ctx, tt.from, tt.to, dec(tt.amount))

			var transferErr *ledger.BucketTransferError
			suite.Require().True(errors.As(err, &transferErr), "Error is %v", err)
			suite.Assert().Equal(tt.reason, transferErr.Reason)
		})
	}

	// No failed transfer changed any bucket
	suite.assertDecimal("50", suite.bucketAmount(x.ID))
	suite.assertDecimal("10", suite.bucketAmount(y.ID))
	suite.assertDecimal("10", suite.bucketAmount(foreign.ID))
	suite.assertDecimal("10", suite.bucketAmount(deleted.ID))
}

func (suite *TestSuiteStandard) TestTransferBetweenBucketsDatabaseClosed() {
	suite.CloseDB()

	err := suite.ledger.TransferBetweenBuckets(suite.ctx, uuid.New(), uuid.New(), dec("1"))
	var transferErr *ledger.BucketTransferError
	suite.Assert().False(errors.As(err, &transferErr))
	suite.Assert().NotNil(err)
}

func (suite *TestSuiteStandard) TestCreateBucket() {
	account := suite.createTestAccount("A", "0")

	bucket, err := suite.ledger.CreateBucket(suite.ctx, models.BucketEditable{Name: " Holidays ", Amount: dec("12.345"), AccountID: account.ID})
	suite.Require().Nil(err)
	suite.Assert().Equal("Holidays", bucket.Name)
	suite.assertDecimal("12.35", bucket.Amount)

	_, err = suite.ledger.CreateBucket(suite.ctx, models.BucketEditable{Name: "Orphan", AccountID: uuid.New()})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.ledger.CreateBucket(suite.ctx, models.BucketEditable{AccountID: account.ID})
	suite.Assert().ErrorIs(err, models.ErrValidation)
}

func (suite *TestSuiteStandard) TestBuckets() {
	a := suite.createTestAccount("A", "0")
	b := suite.createTestAccount("B", "0")

	first := suite.createTestBucket(a, "1")
	suite.createTestBucket(a, "2")
	suite.createTestBucket(b, "3")
	suite.Require().Nil(suite.ledger.DeleteBucket(suite.ctx, first.ID))

	all, err := suite.ledger.Buckets(suite.ctx, nil, false)
	suite.Require().Nil(err)
	suite.Assert().Len(all, 2)

	ofA, err := suite.ledger.Buckets(suite.ctx, &a.ID, false)
	suite.Require().Nil(err)
	suite.Assert().Len(ofA, 1)

	withDeleted, err := suite.ledger.Buckets(suite.ctx, &a.ID, true)
	suite.Require().Nil(err)
	suite.Assert().Len(withDeleted, 2)

	_, err = suite.ledger.Bucket(suite.ctx, first.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestUpdateBucket() {
	a := suite.createTestAccount("A", "0")
	b := suite.createTestAccount("B", "0")
	bucket := suite.createTestBucket(a, "10")

	updated, err := suite.ledger.UpdateBucket(suite.ctx, bucket.ID, ledger.BucketPatch{Name: ptr("Renamed")})
	suite.Require().Nil(err)
	suite.Assert().Equal("Renamed", updated.Name)
	suite.assertDecimal("10", updated.Amount)
	suite.Assert().Equal(a.ID, updated.AccountID)

	updated, err = suite.ledger.UpdateBucket(suite.ctx, bucket.ID, ledger.BucketPatch{Amount: ptr(dec("99.999")), AccountID: &b.ID})
	suite.Require().Nil(err)
	suite.assertDecimal("100", updated.Amount)
	suite.Assert().Equal(b.ID, updated.AccountID)

	_, err = suite.ledger.UpdateBucket(suite.ctx, bucket.ID, ledger.BucketPatch{AccountID: ptr(uuid.New())})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.ledger.UpdateBucket(suite.ctx, bucket.ID, ledger.BucketPatch{Name: ptr("")})
	suite.Assert().ErrorIs(err, models.ErrValidation)

	_, err = suite.ledger.UpdateBucket(suite.ctx, uuid.New(), ledger.BucketPatch{Amount: ptr(decimal.Zero)})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
