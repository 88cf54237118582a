package dto

import (
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a manual ledger
// entry. Date is a calendar day ("2006-01-02"); the amount's sign is
// normalized to the category's convention by the service.
type CreateTransactionRequest struct {
	PropertyID     string          `json:"propertyID" binding:"required"`
	CategoryID     string          `json:"categoryID" binding:"required"`
	Date           string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Payee          string          `json:"payee"`
	Memo           string          `json:"memo"`
	StatementMonth *string         `json:"statementMonth" binding:"omitempty,month"`
}

// UpdateTransactionRequest defines the data allowed for updating a
// transaction.
type UpdateTransactionRequest struct {
	CategoryID     *string          `json:"categoryID"`
	Date           *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Amount         *decimal.Decimal `json:"amount"`
	Payee          *string          `json:"payee"`
	Memo           *string          `json:"memo"`
	StatementMonth *string          `json:"statementMonth" binding:"omitempty,month"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID  string                   `json:"transactionID"`
	PropertyID     string                   `json:"propertyID"`
	CategoryID     string                   `json:"categoryID"`
	Date           string                   `json:"date"`
	Amount         decimal.Decimal          `json:"amount"`
	Payee          string                   `json:"payee"`
	Memo           string                   `json:"memo"`
	StatementMonth string                   `json:"statementMonth,omitempty"`
	Source         domain.TransactionSource `json:"source"`
	DeletedAt      *time.Time               `json:"deletedAt,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	LastUpdatedAt  time.Time                `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  t.TransactionID,
		PropertyID:     t.PropertyID,
		CategoryID:     t.CategoryID,
		Date:           t.Date.Format("2006-01-02"),
		Amount:         t.Amount,
		Payee:          t.Payee,
		Memo:           t.Memo,
		StatementMonth: t.StatementMonth,
		Source:         t.Source,
		DeletedAt:      t.DeletedAt,
		CreatedAt:      t.CreatedAt,
		LastUpdatedAt:  t.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(&t)
	}
	return res
}
