package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/logging"
	"github.com/segyhp/fund-ledger/internal/mocks"
	customError "github.com/segyhp/fund-ledger/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportIncomes() []*domain.IncomeRecord {
	return []*domain.IncomeRecord{
		{ProjectCode: "E2567_001", FundType: domain.FundTypeInternal, ContractCode: "CHR001/2567", ContractDate: day(2024, 1, 1), DurationMonths: 12,
			Period: 1, ExpenseCode: "E01", Item: "ค่าจ้าง", Amount: decimal.NewFromInt(1000)},
		{ProjectCode: "E2567_001", FundType: domain.FundTypeInternal, ContractCode: "CHR001/2567", ContractDate: day(2024, 1, 1), DurationMonths: 12,
			Period: 2, ExpenseCode: "E01", Item: "ค่าจ้าง", Amount: decimal.NewFromInt(500)},
		{ProjectCode: "E2567_002", FundType: domain.FundTypeInternal, Period: 1, ExpenseCode: "F01", Item: "วัสดุสำนักงาน", Amount: decimal.NewFromInt(2_000_000)},
		{ProjectCode: "E2567_003", FundType: domain.FundTypeExternal, Period: 1, ExpenseCode: "E01", Item: "ค่าจ้าง", Amount: decimal.NewFromInt(300)},
	}
}

func reportExpenditures() []*domain.ExpenditureRecord {
	return []*domain.ExpenditureRecord{
		{ProjectCode: "E2567_001", FundType: domain.FundTypeInternal, PaymentType: domain.PaymentTypeActual, Period: 1, ExpenseCode: "E01", Item: "ค่าจ้าง", Amount: decimal.NewFromInt(400)},
		{ProjectCode: "E2567_001", FundType: domain.FundTypeInternal, PaymentType: domain.PaymentTypeAdvance, Period: 1, ExpenseCode: "E01", Item: "ค่าจ้าง", Amount: decimal.NewFromInt(100)},
	}
}

func newTestReportService(ctx context.Context) *ReportService {
	incomes := new(mocks.MockIncomeRepository)
	expenditures := new(mocks.MockExpenditureRepository)
	incomes.On("List", ctx).Return(reportIncomes(), nil)
	expenditures.On("List", ctx).Return(reportExpenditures(), nil)

	svc := NewReportService(incomes, expenditures, nil, logging.Discard())
	svc.Now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestReportService_ProjectSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestReportService(ctx)

	summary, err := svc.ProjectSummary(ctx, "e2567_001")

	require.NoError(t, err)
	assert.Equal(t, "E2567_001", summary.ProjectCode)
	assert.True(t, summary.Income.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.Expenditure.Equal(decimal.NewFromInt(400)), "advances are not spending")
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(1100)))
	assert.Equal(t, "26.67", summary.ExpenditurePercent.StringFixed(2))
	assert.Equal(t, "73.33", summary.BalancePercent.StringFixed(2))

	require.Len(t, summary.Periods, 2)
	p1 := summary.Periods[0]
	assert.Equal(t, 1, p1.Period)
	require.Len(t, p1.Lines, 1)
	assert.True(t, p1.Lines[0].Balance.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, "66.67", p1.IncomePercent.StringFixed(2))
	assert.Equal(t, 2, summary.Periods[1].Period)
	assert.True(t, summary.Periods[1].Expenditure.IsZero())

	require.NotNil(t, summary.Timeline)
	assert.Equal(t, "CHR001/2567", summary.Timeline.ContractCode)
	assert.Equal(t, 60, summary.Timeline.ElapsedDays)
	assert.Equal(t, 2, summary.Timeline.ElapsedMonths)
	assert.Equal(t, 10, summary.Timeline.RemainingMonths)
	assert.Equal(t, 0, summary.Timeline.RemainingDays)
}

func TestReportService_ProjectSummary_Empty(t *testing.T) {
	ctx := context.Background()
	svc := newTestReportService(ctx)

	summary, err := svc.ProjectSummary(ctx, "E2567_999")

	require.NoError(t, err)
	assert.Empty(t, summary.Periods)
	assert.Nil(t, summary.Timeline)
	assert.True(t, summary.ExpenditurePercent.IsZero())

	_, err = svc.ProjectSummary(ctx, " ")
	assert.Equal(t, customError.ErrCodeValidationFailed, customError.CodeOf(err))
}

func TestTimeline_RemainingNeverNegative(t *testing.T) {
	in := &domain.IncomeRecord{ContractDate: day(2023, 1, 1), DurationMonths: 6}

	got := timeline(in, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 365, got.ElapsedDays)
	assert.Zero(t, got.RemainingMonths)
	assert.Zero(t, got.RemainingDays)
}

func TestReportService_InternalFundUsage(t *testing.T) {
	ctx := context.Background()
	svc := newTestReportService(ctx)

	usage, err := svc.InternalFundUsage(ctx)

	require.NoError(t, err)
	assert.True(t, usage.Budget.Equal(decimal.NewFromInt(5_000_000)))
	require.Len(t, usage.Projects, 2)
	assert.Equal(t, "E2567_001", usage.Projects[0].ProjectCode)
	assert.Equal(t, "E2567_002", usage.Projects[1].ProjectCode)
	assert.Equal(t, "40.00", usage.Projects[1].Percent.StringFixed(2))
	assert.True(t, usage.Used.Equal(decimal.NewFromInt(2_001_500)))
	assert.True(t, usage.Remaining.Equal(decimal.NewFromInt(2_998_500)))
}

func TestReportService_ExpenseItemSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestReportService(ctx)

	summary, err := svc.ExpenseItemSummary(ctx)

	require.NoError(t, err)
	require.Len(t, summary.Periods, 2)

	p1 := summary.Periods[0]
	require.Len(t, p1.Items, 2)
	wage := p1.Items[0]
	assert.Equal(t, "ค่าจ้าง", wage.Item)
	assert.True(t, wage.Allocated.Equal(decimal.NewFromInt(1300)))
	assert.True(t, wage.Disbursed.Equal(decimal.NewFromInt(500)), "every disbursement counts")
	assert.True(t, wage.Remaining.Equal(decimal.NewFromInt(800)))

	assert.Equal(t, "รวม", p1.Total.Item)
	assert.True(t, p1.Total.Allocated.Equal(decimal.NewFromInt(2_001_300)))
	assert.True(t, p1.Total.Remaining.Equal(decimal.NewFromInt(2_000_800)))
}

func TestReportService_ExportExpenseItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestReportService(ctx)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportExpenseItems(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("สรุปงบประมาณ")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"งวด", "รายการ", "จัดสรร", "เบิกจ่าย", "คงเหลือ"}, rows[0])
	assert.Equal(t, "งวดที่ 1", rows[1][0])
	assert.Equal(t, "ค่าจ้าง", rows[1][1])
	assert.Equal(t, "รวม", rows[3][1])
	assert.Equal(t, "งวดที่ 2", rows[4][0])
}

func TestReportService_LoadFailure(t *testing.T) {
	ctx := context.Background()
	incomes := new(mocks.MockIncomeRepository)
	incomes.On("List", ctx).Return(nil, errors.New("corrupt"))
	svc := NewReportService(incomes, new(mocks.MockExpenditureRepository), nil, logging.Discard())

	_, err := svc.ExpenseItemSummary(ctx)
	assert.Equal(t, customError.ErrCodeLoadFailed, customError.CodeOf(err))

	_, err = svc.InternalFundUsage(ctx)
	assert.Equal(t, customError.ErrCodeLoadFailed, customError.CodeOf(err))
}
