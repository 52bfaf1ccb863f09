package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/segyhp/fund-ledger/internal/config"
	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const daysPerMonth = 30

var defaultInternalFundBudget = decimal.NewFromInt(5_000_000)

type ReportService struct {
	Incomes      repository.IncomeRepository
	Expenditures repository.ExpenditureRepository
	Now          func() time.Time

	config *config.Config
	logger *slog.Logger
}

func NewReportService(
	incomes repository.IncomeRepository,
	expenditures repository.ExpenditureRepository,
	config *config.Config,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		Incomes:      incomes,
		Expenditures: expenditures,
		Now:          time.Now,
		config:       config,
		logger:       logger,
	}
}

type budgetKey struct {
	fundType    string
	arCode      string
	expenseCode string
	period      int
}

// ProjectSummary compares income with actual spending per
// (fund type, ar_code, expense code, period). Advances are not spending.
func (s *ReportService) ProjectSummary(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	projectCode = normalizeProjectCode(projectCode)
	if projectCode == "" {
		return nil, customError.WrapValidation("Project code is required", nil)
	}

	incomes, expenditures, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	lines := make(map[budgetKey]*domain.BudgetLine)
	line := func(k budgetKey) *domain.BudgetLine {
		l, ok := lines[k]
		if !ok {
			l = &domain.BudgetLine{FundType: k.fundType, ARCode: k.arCode, ExpenseCode: k.expenseCode, Period: k.period}
			lines[k] = l
		}
		return l
	}

	var first *domain.IncomeRecord
	for _, in := range incomes {
		if !strings.EqualFold(in.ProjectCode, projectCode) {
			continue
		}
		if first == nil {
			first = in
		}
		l := line(budgetKey{in.FundType, in.ARCode, in.ExpenseCode, in.Period})
		l.Income = l.Income.Add(in.Amount)
	}
	for _, ex := range expenditures {
		if !strings.EqualFold(ex.ProjectCode, projectCode) || ex.PaymentType != domain.PaymentTypeActual {
			continue
		}
		l := line(budgetKey{ex.FundType, ex.ARCode, ex.ExpenseCode, ex.Period})
		l.Expenditure = l.Expenditure.Add(ex.Amount)
	}

	sorted := make([]*domain.BudgetLine, 0, len(lines))
	for _, l := range lines {
		l.Balance = l.Income.Sub(l.Expenditure)
		sorted = append(sorted, l)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.FundType != b.FundType {
			return a.FundType < b.FundType
		}
		if a.ARCode != b.ARCode {
			return a.ARCode < b.ARCode
		}
		return a.ExpenseCode < b.ExpenseCode
	})

	summary := &domain.ProjectSummary{ProjectCode: projectCode, Periods: []*domain.PeriodSummary{}}
	for _, l := range sorted {
		summary.Income = summary.Income.Add(l.Income)
		summary.Expenditure = summary.Expenditure.Add(l.Expenditure)

		n := len(summary.Periods)
		if n == 0 || summary.Periods[n-1].Period != l.Period {
			summary.Periods = append(summary.Periods, &domain.PeriodSummary{Period: l.Period})
			n++
		}
		p := summary.Periods[n-1]
		p.Lines = append(p.Lines, l)
		p.Income = p.Income.Add(l.Income)
		p.Expenditure = p.Expenditure.Add(l.Expenditure)
	}
	summary.Balance = summary.Income.Sub(summary.Expenditure)
	summary.ExpenditurePercent = utils.Percent(summary.Expenditure, summary.Income)
	summary.BalancePercent = utils.Percent(summary.Balance, summary.Income)

	for _, p := range summary.Periods {
		p.Balance = p.Income.Sub(p.Expenditure)
		p.IncomePercent = utils.Percent(p.Income, summary.Income)
		p.ExpenditurePercent = utils.Percent(p.Expenditure, summary.Income)
		p.BalancePercent = utils.Percent(p.Balance, summary.Income)
	}

	if first != nil {
		summary.Timeline = timeline(first, utils.Today(s.Now(), locationOf(s.config)))
	}
	return summary, nil
}

func timeline(in *domain.IncomeRecord, today time.Time) *domain.ProjectTimeline {
	t := &domain.ProjectTimeline{
		ContractCode:   in.ContractCode,
		ContractDate:   in.ContractDate,
		DurationMonths: in.DurationMonths,
	}
	if in.ContractDate == nil {
		return t
	}

	elapsed := int(today.Sub(utils.DateOnly(*in.ContractDate)).Hours() / 24)
	remaining := in.DurationMonths*daysPerMonth - elapsed
	if remaining < 0 {
		remaining = 0
	}
	t.ElapsedDays = elapsed
	t.ElapsedMonths = elapsed / daysPerMonth
	t.RemainingMonths = remaining / daysPerMonth
	t.RemainingDays = remaining % daysPerMonth
	return t
}

// InternalFundUsage shows how much of the internal fund budget each project
// has been allocated.
func (s *ReportService) InternalFundUsage(ctx context.Context) (*domain.InternalFundUsage, error) {
	incomes, err := s.Incomes.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("income", err)
	}

	budget := defaultInternalFundBudget
	if s.config != nil {
		budget = s.config.GetInternalFundBudget()
	}

	totals := make(map[string]decimal.Decimal)
	for _, in := range incomes {
		if in.FundType != domain.FundTypeInternal || in.ProjectCode == "" {
			continue
		}
		totals[in.ProjectCode] = totals[in.ProjectCode].Add(in.Amount)
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	usage := &domain.InternalFundUsage{Budget: budget, Projects: make([]*domain.ProjectFundShare, 0, len(codes))}
	for _, code := range codes {
		amount := totals[code]
		usage.Used = usage.Used.Add(amount)
		usage.Projects = append(usage.Projects, &domain.ProjectFundShare{
			ProjectCode: code,
			Amount:      amount,
			Percent:     utils.Percent(amount, budget),
		})
	}
	usage.Remaining = budget.Sub(usage.Used)
	return usage, nil
}

type itemKey struct {
	period int
	item   string
}

// ExpenseItemSummary compares allocated and disbursed amounts per period and
// item across all projects.
func (s *ReportService) ExpenseItemSummary(ctx context.Context) (*domain.ExpenseItemSummary, error) {
	incomes, expenditures, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	items := make(map[itemKey]*domain.ItemAllocation)
	get := func(k itemKey) *domain.ItemAllocation {
		a, ok := items[k]
		if !ok {
			a = &domain.ItemAllocation{Item: k.item}
			items[k] = a
		}
		return a
	}
	for _, in := range incomes {
		a := get(itemKey{in.Period, in.Item})
		a.Allocated = a.Allocated.Add(in.Amount)
	}
	for _, ex := range expenditures {
		a := get(itemKey{ex.Period, ex.Item})
		a.Disbursed = a.Disbursed.Add(ex.Amount)
	}

	keys := make([]itemKey, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].period != keys[j].period {
			return keys[i].period < keys[j].period
		}
		return keys[i].item < keys[j].item
	})

	summary := &domain.ExpenseItemSummary{Periods: []*domain.PeriodItems{}}
	for _, k := range keys {
		a := items[k]
		a.Remaining = a.Allocated.Sub(a.Disbursed)

		n := len(summary.Periods)
		if n == 0 || summary.Periods[n-1].Period != k.period {
			summary.Periods = append(summary.Periods, &domain.PeriodItems{
				Period: k.period,
				Total:  &domain.ItemAllocation{Item: "รวม"},
			})
			n++
		}
		p := summary.Periods[n-1]
		p.Items = append(p.Items, a)
		p.Total.Allocated = p.Total.Allocated.Add(a.Allocated)
		p.Total.Disbursed = p.Total.Disbursed.Add(a.Disbursed)
		p.Total.Remaining = p.Total.Remaining.Add(a.Remaining)
	}
	return summary, nil
}

var expenseItemHeader = []interface{}{"งวด", "รายการ", "จัดสรร", "เบิกจ่าย", "คงเหลือ"}

// ExportExpenseItems writes the expense item summary as an xlsx workbook.
func (s *ReportService) ExportExpenseItems(ctx context.Context, w io.Writer) error {
	summary, err := s.ExpenseItemSummary(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "สรุปงบประมาณ"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &expenseItemHeader); err != nil {
		return err
	}

	row := 2
	write := func(period int, a *domain.ItemAllocation) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			fmt.Sprintf("งวดที่ %d", period),
			a.Item,
			a.Allocated.InexactFloat64(),
			a.Disbursed.InexactFloat64(),
			a.Remaining.InexactFloat64(),
		}
		row++
		return f.SetSheetRow(sheet, cell, &values)
	}

	for _, p := range summary.Periods {
		for _, a := range p.Items {
			if err := write(p.Period, a); err != nil {
				return err
			}
		}
		if err := write(p.Period, p.Total); err != nil {
			return err
		}
	}

	s.logger.Debug("expense item export", "periods", len(summary.Periods), "rows", row-2)
	return f.Write(w)
}

func (s *ReportService) load(ctx context.Context) ([]*domain.IncomeRecord, []*domain.ExpenditureRecord, error) {
	incomes, err := s.Incomes.List(ctx)
	if err != nil {
		return nil, nil, customError.WrapLoadFailed("income", err)
	}
	expenditures, err := s.Expenditures.List(ctx)
	if err != nil {
		return nil, nil, customError.WrapLoadFailed("expenditure", err)
	}
	return incomes, expenditures, nil
}
