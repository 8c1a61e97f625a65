package ledger_test

import (
	"time"

	"github.com/buckets-finance/buckets/internal/ledger"
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) createTestTemplate(account models.Account, category *models.Category) models.RecordTemplate {
	editable := models.RecordTemplateEditable{Label: "Rent", Amount: dec("850"), AccountID: account.ID}
	if category != nil {
		editable.CategoryID = &category.ID
	}

	template, err := suite.ledger.CreateTemplate(suite.ctx, editable)
	suite.Require().Nil(err, "Template could not be saved")

	return template
}

func (suite *TestSuiteStandard) TestCreateTemplate() {
	account := suite.createTestAccount("A", "0")

	template, err := suite.ledger.CreateTemplate(suite.ctx, models.RecordTemplateEditable{Label: "Coffee", Amount: dec("3.499"), AccountID: account.ID})
	suite.Require().Nil(err)
	suite.assertDecimal("3.5", template.Amount)

	tests := []struct {
		name     string
		editable models.RecordTemplateEditable
		err      error
	}{
		{"Zero amount", models.RecordTemplateEditable{Label: "Free", Amount: dec("0"), AccountID: account.ID}, models.ErrAmountNotPositive},
		{"Unknown account", models.RecordTemplateEditable{Label: "Lost", Amount: dec("1"), AccountID: uuid.New()}, models.ErrResourceNotFound},
		{"Unknown category", models.RecordTemplateEditable{Label: "Lost", Amount: dec("1"), AccountID: account.ID, CategoryID: ptr(uuid.New())}, models.ErrResourceNotFound},
		{"No label", models.RecordTemplateEditable{Amount: dec("1"), AccountID: account.ID}, models.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.ledger.CreateTemplate(suite.ctx, tt.editable)
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestTemplates() {
	account := suite.createTestAccount("A", "0")

	for _, label := range []string{"Rent", "Coffee", "Internet"} {
		_, err := suite.ledger.CreateTemplate(suite.ctx, models.RecordTemplateEditable{Label: label, Amount: dec("1"), AccountID: account.ID})
		suite.Require().Nil(err)
	}

	templates, err := suite.ledger.Templates(suite.ctx)
	suite.Require().Nil(err)
	suite.Require().Len(templates, 3)
	suite.Assert().Equal("Coffee", templates[0].Label)
	suite.Assert().Equal("Internet", templates[1].Label)
	suite.Assert().Equal("Rent", templates[2].Label)
}

func (suite *TestSuiteStandard) TestUpdateTemplate() {
	account := suite.createTestAccount("A", "0")
	other := suite.createTestAccount("B", "0")
	category := suite.createTestCategory("Housing", nil)
	template := suite.createTestTemplate(account, &category)

	updated, err := suite.ledger.UpdateTemplate(suite.ctx, template.ID, ledger.TemplatePatch{
		Amount:     ptr(dec("900")),
		AccountID:  &other.ID,
		CategoryID: ptr(uuid.Nil),
	})
	suite.Require().Nil(err)
	suite.assertDecimal("900", updated.Amount)
	suite.Assert().Equal(other.ID, updated.AccountID)
	suite.Assert().Nil(updated.CategoryID)
	suite.Assert().Equal("Rent", updated.Label)

	_, err = suite.ledger.UpdateTemplate(suite.ctx, template.ID, ledger.TemplatePatch{AccountID: ptr(uuid.New())})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.ledger.UpdateTemplate(suite.ctx, template.ID, ledger.TemplatePatch{Amount: ptr(dec("-5"))})
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	found, err := suite.ledger.Template(suite.ctx, template.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("900", found.Amount)
	suite.Assert().Equal(other.ID, found.AccountID)
}

func (suite *TestSuiteStandard) TestDeleteTemplate() {
	account := suite.createTestAccount("A", "0")
	template := suite.createTestTemplate(account, nil)

	record, err := suite.ledger.RecordFromTemplate(suite.ctx, template.ID, time.Time{})
	suite.Require().Nil(err)

	suite.Require().Nil(suite.ledger.DeleteTemplate(suite.ctx, template.ID))

	_, err = suite.ledger.Template(suite.ctx, template.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	_, err = suite.ledger.Record(suite.ctx, record.ID)
	suite.Assert().Nil(err, "records created from a template are kept")

	err = suite.ledger.DeleteTemplate(suite.ctx, template.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRecordFromTemplate() {
	account := suite.createTestAccount("A", "1000")
	category := suite.createTestCategory("Housing", nil)
	template := suite.createTestTemplate(account, &category)

	record, err := suite.ledger.RecordFromTemplate(suite.ctx, template.ID, date(2026, 10, 1))
	suite.Require().Nil(err)
	suite.Assert().Equal("Rent", record.Label)
	suite.assertDecimal("850", record.Amount)
	suite.Assert().Equal(category.ID, *record.CategoryID)
	suite.Assert().True(date(2026, 10, 1).Equal(record.Date))
	suite.Assert().False(record.IsIncome)

	record, err = suite.ledger.RecordFromTemplate(suite.ctx, template.ID, time.Time{})
	suite.Require().Nil(err)
	suite.Assert().True(now.Equal(record.Date))

	balance, err := suite.ledger.AccountBalance(suite.ctx, account.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("-700", balance)

	_, err = suite.ledger.RecordFromTemplate(suite.ctx, uuid.New(), time.Time{})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
