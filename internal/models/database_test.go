package models_test

import (
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/buckets-finance/buckets/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestDefaultCategoriesCreated() {
	var parents, children int64
	suite.Require().Nil(suite.db.Model(&models.Category{}).Where("parent_category_id IS NULL").Count(&parents).Error)
	suite.Require().Nil(suite.db.Model(&models.Category{}).Where("parent_category_id IS NOT NULL").Count(&children).Error)

	suite.Assert().Greater(parents, int64(0))
	suite.Assert().Greater(children, int64(0))
}

func (suite *TestSuiteStandard) TestDefaultCategoriesNotRecreated() {
	path := test.TmpFile(suite.T())

	db, err := models.Connect(path)
	suite.Require().Nil(err)

	suite.Require().Nil(db.Where("1 = 1").Delete(&models.Category{}).Error)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	db, err = models.Connect(path)
	suite.Require().Nil(err)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	var count int64
	suite.Require().Nil(db.Model(&models.Category{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count, "deleted default categories must not be created again")
}

func (suite *TestSuiteStandard) TestDanglingCategoriesDeleted() {
	path := test.TmpFile(suite.T())

	db, err := models.Connect(path)
	suite.Require().Nil(err)

	parent := models.Category{CategoryEditable: models.CategoryEditable{Name: "Parent", Nature: models.NatureWant}}
	suite.Require().Nil(db.Create(&parent).Error)

	child := models.Category{CategoryEditable: models.CategoryEditable{Name: "Child", Nature: models.NatureWant, ParentCategoryID: &parent.ID}}
	suite.Require().Nil(db.Create(&child).Error)

	// Only delete the parent, leaving the child dangling
	suite.Require().Nil(db.Model(&models.Category{}).Where("id = ?", parent.ID).Update("deleted_at", parent.CreatedAt).Error)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	db, err = models.Connect(path)
	suite.Require().Nil(err)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	var found models.Category
	err = db.First(&found, "id = ?", child.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	suite.Require().Nil(db.Unscoped().First(&found, "id = ?", child.ID).Error)
	suite.Assert().True(found.Deleted())
}

func (suite *TestSuiteStandard) TestResourceNotFoundNamesResource() {
	tests := []struct {
		model any
		name  string
	}{
		{&models.Account{}, "account"},
		{&models.Category{}, "category"},
		{&models.RecordTemplate{}, "record template"},
	}

	for _, tt := range tests {
		err := suite.db.First(tt.model, "id = ?", uuid.New()).Error
		suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
		suite.Assert().Contains(err.Error(), tt.name)
	}
}

func (suite *TestSuiteStandard) TestAccountNameNotUnique() {
	suite.createTestAccount(models.Account{AccountEditable: models.AccountEditable{Name: "Checking"}})

	account := models.Account{AccountEditable: models.AccountEditable{Name: "Checking"}}
	err := suite.db.Create(&account).Error
	suite.Assert().ErrorIs(err, models.ErrAccountNameNotUnique)
}

func (suite *TestSuiteStandard) TestRecordCheckConstraints() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{})

	tests := []struct {
		name   string
		record models.Record
		err    error
	}{
		{"Negative amount", models.Record{RecordEditable: models.RecordEditable{AccountID: account.ID, Amount: decimal.NewFromInt(-5)}}, models.ErrAmountNotPositive},
		{"Transfer and income", models.Record{RecordEditable: models.RecordEditable{AccountID: account.ID, IsIncome: true, IsTransfer: true, TransferToAccountID: &other.ID}}, models.ErrTransferIsIncome},
		{"Transfer to origin", models.Record{RecordEditable: models.RecordEditable{AccountID: account.ID, IsTransfer: true, TransferToAccountID: &account.ID}}, models.ErrTransferDestinationIsOrigin},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			tt.record.Label = "Check"
			if tt.record.Amount.IsZero() {
				tt.record.Amount = decimal.NewFromInt(10)
			}

			err := suite.db.Create(&tt.record).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestDatabaseClosed() {
	suite.CloseDB()

	err := suite.db.First(&models.Account{}).Error
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
