package domain

// CategoryType classifies how a category's transaction amounts are signed and
// reported.
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "INCOME"
	CategoryTypeExpense  CategoryType = "EXPENSE"
	CategoryTypeTransfer CategoryType = "TRANSFER"
)

// IsValid reports whether t is one of the known category types.
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer:
		return true
	}
	return false
}

// Category is a shared ledger dimension referenced by transactions and
// recurring rules. Categories form a tree via ParentID; the parent chain is
// acyclic and a child's type always equals its parent's type.
type Category struct {
	CategoryID string       `json:"categoryID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	ParentID   string       `json:"parentID,omitempty"` // empty means root
	IsActive   bool         `json:"isActive"`
	AuditFields
}

// DeleteAction tells the caller how a category removal request must be
// carried out.
type DeleteAction string

const (
	// DeleteActionHard removes the row; safe only for unreferenced categories.
	DeleteActionHard DeleteAction = "HARD_DELETE"
	// DeleteActionDeactivate soft-deletes by clearing IsActive, preserving
	// referential history for children and transactions.
	DeleteActionDeactivate DeleteAction = "DEACTIVATE"
)
