package repository

import (
	"context"
	"os"
	"testing"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	_, err = db.Exec("TRUNCATE advance_rows")
	require.NoError(t, err)

	return db
}

func TestAdvancePostgresRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewAdvancePostgresRepository(openTestDB(t))

	loan := &domain.AdvanceRow{
		ProjectCode:    "E2568_001",
		ARCode:         "ARC001",
		ExpenseCode:    "X1",
		BorrowDate:     date(2024, 1, 1),
		Amount:         decimal.NewFromInt(1000),
		DueDate:        date(2024, 3, 31),
		AmountReturned: decimal.Zero,
	}
	repayment := loan.Clone()
	repayment.AmountReturned = decimal.NewFromInt(400)
	repayment.ReturnDate = date(2024, 2, 1)

	require.NoError(t, repo.Append(ctx, loan))
	require.NoError(t, repo.Append(ctx, repayment))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].ReturnDate)
	assert.True(t, rows[1].AmountReturned.Equal(decimal.NewFromInt(400)))
	assert.True(t, rows[1].Remaining.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, rows[0].Key(), rows[1].Key())
}
