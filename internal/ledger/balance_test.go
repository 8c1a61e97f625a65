package ledger_test

import (
	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestAccountBalanceExpense() {
	account := suite.createTestAccount("A", "100.00")
	suite.expense(account, "30", now)

	balance, err := suite.ledger.AccountBalance(suite.ctx, account.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("70.00", balance)
}

func (suite *TestSuiteStandard) TestAccountBalanceAllKinds() {
	a := suite.createTestAccount("A", "1000")
	b := suite.createTestAccount("B", "0")

	suite.income(a, "200", now)
	suite.expense(a, "50.50", now)
	suite.transfer(a, b, "100", now)
	suite.transfer(b, a, "25", now)

	balance, err := suite.ledger.AccountBalance(suite.ctx, a.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("1074.50", balance)

	balance, err = suite.ledger.AccountBalance(suite.ctx, b.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("75", balance)

	// Reading twice without writes gives the same result
	again, err := suite.ledger.AccountBalance(suite.ctx, b.ID)
	suite.Require().Nil(err)
	suite.Assert().True(balance.Equal(again))
}

func (suite *TestSuiteStandard) TestAccountBalanceIncludesAllPeriods() {
	account := suite.createTestAccount("A", "0")
	suite.income(account, "10", date(2020, 1, 1))
	suite.income(account, "5", date(2026, 10, 18))

	balance, err := suite.ledger.AccountBalance(suite.ctx, account.ID)
	suite.Require().Nil(err)
	suite.assertDecimal("15", balance)
}

func (suite *TestSuiteStandard) TestAccountBalanceNotFound() {
	_, err := suite.ledger.AccountBalance(suite.ctx, uuid.New())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	account := suite.createTestAccount("Deleted", "10")
	suite.Require().Nil(suite.ledger.DeleteAccount(suite.ctx, account.ID))

	_, err = suite.ledger.AccountBalance(suite.ctx, account.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAccountsWithBalance() {
	checking := suite.createTestAccount("Checking", "100")
	savings := suite.createTestAccount("Savings", "1000")
	wallet := suite.createTestAccount("Wallet", "20")

	_, err := suite.ledger.ToggleHidden(suite.ctx, checking.ID)
	suite.Require().Nil(err)

	suite.expense(checking, "10", now)
	suite.transfer(savings, wallet, "50", now)
	suite.income(wallet, "2.5", now)

	visible, err := suite.ledger.AccountsWithBalance(suite.ctx, false)
	suite.Require().Nil(err)
	suite.Require().Len(visible, 2)
	suite.Assert().Equal("Savings", visible[0].Name)
	suite.assertDecimal("950", visible[0].Balance)
	suite.Assert().Equal("Wallet", visible[1].Name)
	suite.assertDecimal("72.5", visible[1].Balance)

	all, err := suite.ledger.AccountsWithBalance(suite.ctx, true)
	suite.Require().Nil(err)
	suite.Require().Len(all, 3)
	suite.Assert().Equal("Checking", all[2].Name, "hidden accounts are listed last")
	suite.assertDecimal("90", all[2].Balance)

	// The batch calculation matches the single account calculation
	for _, a := range all {
		balance, err := suite.ledger.AccountBalance(suite.ctx, a.ID)
		suite.Require().Nil(err)
		suite.Assert().True(balance.Equal(a.Balance), "%s: %s != %s", a.Name, balance, a.Balance)
	}
}

func (suite *TestSuiteStandard) TestAccountBalanceDatabaseClosed() {
	suite.CloseDB()

	_, err := suite.ledger.AccountBalance(suite.ctx, uuid.New())
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
