package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAdvanceFileRepository_ListMissingFile(t *testing.T) {
	repo := NewAdvanceFileRepository(NewWorkbook(filepath.Join(t.TempDir(), "reserve_payment.xlsx"), nil))

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestAdvanceFileRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAdvanceFileRepository(NewWorkbook(filepath.Join(t.TempDir(), "reserve_payment.xlsx"), nil))
	entered := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	loan := &domain.AdvanceRow{
		EnteredAt:      &entered,
		ProjectCode:    "E2568_001",
		ARCode:         "ARC001",
		ExpenseCode:    "X1",
		BorrowDate:     date(2024, 1, 1),
		Amount:         decimal.NewFromInt(1000),
		DueDate:        date(2024, 3, 31),
		AmountReturned: decimal.Zero,
	}
	require.NoError(t, repo.Append(ctx, loan))

	repayment := loan.Clone()
	repayment.AmountReturned = decimal.NewFromInt(400)
	repayment.ReturnDate = date(2024, 2, 1)
	require.NoError(t, repo.Append(ctx, repayment))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "E2568_001", first.ProjectCode)
	assert.Equal(t, "ARC001", first.ARCode)
	assert.Equal(t, "X1", first.ExpenseCode)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, first.Remaining.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, first.ReturnDate)
	require.NotNil(t, first.EnteredAt)
	assert.True(t, entered.Equal(*first.EnteredAt))

	second := rows[1]
	assert.True(t, second.AmountReturned.Equal(decimal.NewFromInt(400)))
	assert.True(t, second.Remaining.Equal(decimal.NewFromInt(600)))
	require.NotNil(t, second.ReturnDate)
	assert.Equal(t, "2024-02-01", second.ReturnDate.Format("2006-01-02"))

	// both rows still belong to the same loan
	assert.Equal(t, first.Key(), second.Key())
}

func TestAdvanceFileRepository_RemainingNeverNegative(t *testing.T) {
	ctx := context.Background()
	book := NewWorkbook(filepath.Join(t.TempDir(), "reserve_payment.xlsx"), nil)
	repo := NewAdvanceFileRepository(book)

	require.NoError(t, repo.Append(ctx, &domain.AdvanceRow{
		ProjectCode:    "E2568_001",
		ExpenseCode:    "X1",
		BorrowDate:     date(2024, 1, 1),
		Amount:         decimal.NewFromInt(100),
		AmountReturned: decimal.NewFromInt(150),
	}))

	table, err := book.Read()
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "0", table.Records[0].Get(colRemaining))
	assert.Equal(t, "", table.Records[0].Get(colDueDate))
}

func TestAdvanceFileRepository_LenientDecoding(t *testing.T) {
	table := &Table{
		Header: advanceHeader,
		Records: []Record{{
			colProjectCode:    "E2568_001",
			colExpenseCode:    "X1",
			colBorrowDate:     "45292",
			colAmount:         "1,000",
			colDueDate:        "not a date",
			colReturnDate:     "NaT",
			colAmountReturned: "",
		}},
	}

	rows := decodeAdvances(table)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01", rows[0].BorrowDate.Format("2006-01-02"))
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, rows[0].DueDate)
	assert.Nil(t, rows[0].ReturnDate)
	assert.True(t, rows[0].AmountReturned.IsZero())
}

func TestAdvanceFileRepository_AppendKeepsStoredRecords(t *testing.T) {
	ctx := context.Background()
	book := NewWorkbook(filepath.Join(t.TempDir(), "reserve_payment.xlsx"), nil)
	repo := NewAdvanceFileRepository(book)

	const colStatus = "สถานะ"
	header := append(append([]string(nil), advanceHeader...), colStatus)
	require.NoError(t, book.Update(func(*Table) (*Sheet, error) {
		return &Sheet{Header: header, Rows: [][]interface{}{
			{"2024-01-01 10:15:00", "E2568_001", "", "X1", "2024-01-01 10:15:00", "1,000", "31/03/2024", "", "0", "1000", "note"},
			{"2024-01-02 08:00:00", "E2568_001", "ARC001", "X2", "45292", "500", "not a date", "NaT", "", "500", "manual"},
		}}, nil
	}))

	before, err := book.Read()
	require.NoError(t, err)
	require.Len(t, before.Records, 2)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].DueDate, "an unreadable due date decodes as absent")

	repayment := rows[0].Clone()
	repayment.AmountReturned = decimal.NewFromInt(400)
	repayment.ReturnDate = date(2024, 2, 1)
	require.NoError(t, repo.Append(ctx, repayment))

	after, err := book.Read()
	require.NoError(t, err)
	assert.Equal(t, before.Header, after.Header)
	require.Len(t, after.Records, 3)
	for i, rec := range before.Records {
		assert.Equal(t, rec, after.Records[i], "record %d", i)
	}
	assert.Equal(t, "31/03/2024", after.Records[0].Get(colDueDate))
	assert.Equal(t, "note", after.Records[0].Get(colStatus))

	added := after.Records[2]
	assert.Equal(t, "400", added.Get(colAmountReturned))
	assert.Equal(t, "2024-02-01", added.Get(colReturnDate))
	assert.Equal(t, "", added.Get(colStatus))
}
