package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewIncomeFileRepository(NewWorkbook(filepath.Join(t.TempDir(), "income_data.xlsx"), nil))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	batch := uuid.New()
	record := &domain.IncomeRecord{
		BatchID:        batch,
		EnteredAt:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		FiscalYear:     "2568",
		ProjectCode:    "E2568_001",
		FundType:       domain.FundTypeInternal,
		FundSource:     "B01",
		ContractDate:   date(2024, 1, 1),
		DurationMonths: 12,
		ContractCode:   "CHR001/2568",
		Period:         1,
		ARCode:         "ARC001",
		ExpenseCode:    "X1",
		Category:       "ค่าวัสดุ",
		Item:           "วัสดุสำนักงาน",
		CostType:       "ทางตรง",
		Amount:         decimal.RequireFromString("2500.50"),
	}
	require.NoError(t, repo.Append(ctx, record))

	rows, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, batch, got.BatchID)
	assert.Equal(t, "2568", got.FiscalYear)
	assert.Equal(t, domain.FundTypeInternal, got.FundType)
	assert.Equal(t, 12, got.DurationMonths)
	assert.Equal(t, 1, got.Period)
	assert.Equal(t, "CHR001/2568", got.ContractCode)
	assert.Equal(t, "2024-01-01", got.ContractDate.Format("2006-01-02"))
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("2500.50")))
	assert.True(t, record.EnteredAt.Equal(got.EnteredAt))
}

func TestExpenditureFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewExpenditureFileRepository(NewWorkbook(filepath.Join(t.TempDir(), "expend_data.xlsx"), nil))

	require.NoError(t, repo.Append(ctx,
		&domain.ExpenditureRecord{
			ProjectCode:  "E2568_001",
			FundType:     domain.FundTypeInternal,
			PaymentType:  domain.PaymentTypeAdvance,
			DisbursedAt:  date(2024, 1, 15),
			ActivityCode: "1234567890123",
			Period:       2,
			ExpenseCode:  "X1",
			Amount:       decimal.NewFromInt(300),
		},
		&domain.ExpenditureRecord{
			ProjectCode: "E2568_001",
			PaymentType: domain.PaymentTypeActual,
			Period:      2,
			ExpenseCode: "X2",
			Amount:      decimal.NewFromInt(50),
		},
	))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.PaymentTypeAdvance, rows[0].PaymentType)
	assert.Equal(t, "1234567890123", rows[0].ActivityCode)
	assert.Equal(t, 2, rows[0].Period)
	assert.Equal(t, "2024-01-15", rows[0].DisbursedAt.Format("2006-01-02"))
	assert.Equal(t, uuid.Nil, rows[1].BatchID)
	assert.Nil(t, rows[1].DisbursedAt)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(50)))
}

func TestARCodeFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewARCodeFileRepository(NewWorkbook(filepath.Join(t.TempDir(), "ar_code.xlsx"), nil))

	require.NoError(t, repo.Append(ctx,
		&domain.ARCodeAssignment{ProjectCode: "E2568_001", ARCode: "ARC001", ExpenseCode: "X1"},
		&domain.ARCodeAssignment{ProjectCode: "E2568_001", ARCode: "ARC001", ExpenseCode: "X2"},
	))
	require.NoError(t, repo.Append(ctx))

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*domain.ARCodeAssignment{
		{ProjectCode: "E2568_001", ARCode: "ARC001", ExpenseCode: "X1"},
		{ProjectCode: "E2568_001", ARCode: "ARC001", ExpenseCode: "X2"},
	}, rows)
}

func TestSpendCodeCSVRepository(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		codes, err := NewSpendCodeCSVRepository(filepath.Join(dir, "missing.csv")).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, codes)
	})

	t.Run("bom and blank codes", func(t *testing.T) {
		path := filepath.Join(dir, "unique_spend_code.csv")
		content := "\ufeffรหัสค่าใช้จ่าย,หมวดรายจ่าย,รายการ,ประเภทค่าใช้จ่าย\n" +
			"X1 ,ค่าวัสดุ,วัสดุสำนักงาน,ทางตรง\n" +
			",ค่าจ้าง,,\n" +
			"X2,ค่าตอบแทน,ค่าที่ปรึกษา,ทางอ้อม\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		codes, err := NewSpendCodeCSVRepository(path).List(context.Background())
		require.NoError(t, err)
		require.Len(t, codes, 2)
		assert.Equal(t, &domain.SpendCode{Code: "X1", Category: "ค่าวัสดุ", Item: "วัสดุสำนักงาน", CostType: "ทางตรง"}, codes[0])
		assert.Equal(t, "X2", codes[1].Code)
	})
}
