package repository

import (
	"context"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type advancePostgresRepository struct {
	db *sqlx.DB
}

// NewAdvancePostgresRepository stores the ledger in the advance_rows table.
// seq preserves insertion order.
func NewAdvancePostgresRepository(db *sqlx.DB) AdvanceRepository {
	return &advancePostgresRepository{db: db}
}

func (r *advancePostgresRepository) List(ctx context.Context) ([]*domain.AdvanceRow, error) {
	query := `
		SELECT entered_at, project_code, ar_code, expense_code, borrow_date, amount,
		       due_date, return_date, amount_returned, remaining
		FROM advance_rows
		ORDER BY seq
	`

	var rows []*domain.AdvanceRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *advancePostgresRepository) Append(ctx context.Context, rows ...*domain.AdvanceRow) error {
	query := `
		INSERT INTO advance_rows (id, entered_at, project_code, ar_code, expense_code, borrow_date,
		                          amount, due_date, return_date, amount_returned, remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		_, err = tx.ExecContext(ctx, query,
			uuid.New(),
			row.EnteredAt,
			row.ProjectCode,
			row.ARCode,
			row.ExpenseCode,
			row.BorrowDate,
			row.Amount,
			row.DueDate,
			row.ReturnDate,
			row.AmountReturned,
			utils.ClampZero(row.Amount.Sub(row.AmountReturned)),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
