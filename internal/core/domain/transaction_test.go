package domain_test

import (
	"testing"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		categoryType domain.CategoryType
		want         string
	}{
		{name: "income stays positive", amount: decimal.NewFromInt(100), categoryType: domain.CategoryTypeIncome, want: "100"},
		{name: "negative income flips positive", amount: decimal.NewFromInt(-100), categoryType: domain.CategoryTypeIncome, want: "100"},
		{name: "expense flips negative", amount: decimal.NewFromInt(50), categoryType: domain.CategoryTypeExpense, want: "-50"},
		{name: "negative expense stays negative", amount: decimal.NewFromInt(-50), categoryType: domain.CategoryTypeExpense, want: "-50"},
		{name: "transfer keeps positive sign", amount: decimal.NewFromInt(75), categoryType: domain.CategoryTypeTransfer, want: "75"},
		{name: "transfer keeps negative sign", amount: decimal.NewFromInt(-75), categoryType: domain.CategoryTypeTransfer, want: "-75"},
		{name: "zero is unchanged", amount: decimal.Zero, categoryType: domain.CategoryTypeExpense, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.NormalizeAmount(tt.amount, tt.categoryType)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAmountSignValid(t *testing.T) {
	assert.True(t, domain.AmountSignValid(decimal.NewFromInt(10), domain.CategoryTypeIncome))
	assert.False(t, domain.AmountSignValid(decimal.NewFromInt(-10), domain.CategoryTypeIncome))
	assert.True(t, domain.AmountSignValid(decimal.NewFromInt(-10), domain.CategoryTypeExpense))
	assert.False(t, domain.AmountSignValid(decimal.NewFromInt(10), domain.CategoryTypeExpense))
	assert.True(t, domain.AmountSignValid(decimal.NewFromInt(10), domain.CategoryTypeTransfer))
	assert.True(t, domain.AmountSignValid(decimal.NewFromInt(-10), domain.CategoryTypeTransfer))
}

func TestTransaction_IsDeleted(t *testing.T) {
	var txn domain.Transaction
	assert.False(t, txn.IsDeleted())

	now := txn.CreatedAt
	txn.DeletedAt = &now
	assert.True(t, txn.IsDeleted())
}
