package repository

import (
	"context"

	"github.com/segyhp/fund-ledger/internal/domain"
)

// AdvanceRepository stores the advance-payment ledger. It is append-only:
// rows are never updated or removed.
type AdvanceRepository interface {
	// List returns every row in insertion order
	List(ctx context.Context) ([]*domain.AdvanceRow, error)

	// Append adds rows after the existing ones
	Append(ctx context.Context, rows ...*domain.AdvanceRow) error
}

// IncomeRepository stores allocated income rows
type IncomeRepository interface {
	List(ctx context.Context) ([]*domain.IncomeRecord, error)
	Append(ctx context.Context, rows ...*domain.IncomeRecord) error
}

// ExpenditureRepository stores disbursement rows
type ExpenditureRepository interface {
	List(ctx context.Context) ([]*domain.ExpenditureRecord, error)
	Append(ctx context.Context, rows ...*domain.ExpenditureRecord) error
}

// ARCodeRepository stores AR code assignments
type ARCodeRepository interface {
	List(ctx context.Context) ([]*domain.ARCodeAssignment, error)
	Append(ctx context.Context, rows ...*domain.ARCodeAssignment) error
}

// SpendCodeRepository reads the expense-code lookup table
type SpendCodeRepository interface {
	List(ctx context.Context) ([]*domain.SpendCode, error)
}
