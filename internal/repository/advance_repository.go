package repository

import (
	"context"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

type advanceFileRepository struct {
	book *Workbook
}

// NewAdvanceFileRepository stores the ledger in an xlsx file. Every append
// rewrites the whole table; stored records are written back cell for cell
// and only the new rows are encoded.
func NewAdvanceFileRepository(book *Workbook) AdvanceRepository {
	return &advanceFileRepository{book: book}
}

func (r *advanceFileRepository) List(ctx context.Context) ([]*domain.AdvanceRow, error) {
	table, err := r.book.Read()
	if err != nil {
		return nil, err
	}
	return decodeAdvances(table), nil
}

func (r *advanceFileRepository) Append(ctx context.Context, rows ...*domain.AdvanceRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.book.Update(func(current *Table) (*Sheet, error) {
		encoded := make([][]interface{}, 0, len(rows))
		for _, row := range rows {
			encoded = append(encoded, encodeAdvance(row))
		}
		return AppendSheet(current, advanceHeader, encoded), nil
	})
}

func decodeAdvances(table *Table) []*domain.AdvanceRow {
	rows := make([]*domain.AdvanceRow, 0, len(table.Records))
	for _, rec := range table.Records {
		rows = append(rows, decodeAdvance(rec))
	}
	return rows
}

func decodeAdvance(rec Record) *domain.AdvanceRow {
	row := &domain.AdvanceRow{
		ProjectCode: rec.Get(colProjectCode),
		ARCode:      rec.Get(colARCode),
		ExpenseCode: rec.Get(colExpenseCode),
		// unparseable amounts drop out of reconciliation as non-positive
		Amount:         utils.AmountOrZero(rec.Get(colAmount)),
		AmountReturned: utils.AmountOrZero(rec.Get(colAmountReturned)),
	}

	row.EnteredAt = lenientDate(rec.Get(colEnteredAt))
	row.BorrowDate = lenientDate(rec.Get(colBorrowDate))
	row.ReturnDate = lenientDate(rec.Get(colReturnDate))
	// an unreadable due date leaves the loan's status unknown
	row.DueDate = lenientDate(rec.Get(colDueDate))

	row.Remaining = remainingOf(row)
	return row
}

func encodeAdvance(row *domain.AdvanceRow) []interface{} {
	return []interface{}{
		formatTimestamp(row.EnteredAt),
		row.ProjectCode,
		row.ARCode,
		row.ExpenseCode,
		utils.FormatDate(row.BorrowDate),
		row.Amount.InexactFloat64(),
		utils.FormatDate(row.DueDate),
		utils.FormatDate(row.ReturnDate),
		row.AmountReturned.InexactFloat64(),
		remainingOf(row).InexactFloat64(),
	}
}

func remainingOf(row *domain.AdvanceRow) decimal.Decimal {
	return utils.ClampZero(row.Amount.Sub(row.AmountReturned))
}

// lenientDate treats unparseable dates in hand-edited sheets as absent.
func lenientDate(s string) *time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		return nil
	}
	return t
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(utils.TimestampLayout)
}
