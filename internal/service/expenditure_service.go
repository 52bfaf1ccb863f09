package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segyhp/fund-ledger/internal/cache"
	"github.com/segyhp/fund-ledger/internal/config"
	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
	"github.com/segyhp/fund-ledger/pkg/utils"
	"github.com/segyhp/fund-ledger/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenditureService struct {
	Repo     repository.ExpenditureRepository
	Incomes  repository.IncomeRepository
	ARCodes  repository.ARCodeRepository
	Advances repository.AdvanceRepository
	Catalog  *SpendCatalog
	Cache    cache.SummaryCache
	Now      func() time.Time

	config    *config.Config
	logger    *slog.Logger
	validator *validation.Validator
}

func NewExpenditureService(
	repo repository.ExpenditureRepository,
	incomes repository.IncomeRepository,
	arCodes repository.ARCodeRepository,
	advances repository.AdvanceRepository,
	catalog *SpendCatalog,
	summaryCache cache.SummaryCache,
	config *config.Config,
	logger *slog.Logger,
) *ExpenditureService {
	if summaryCache == nil {
		summaryCache = cache.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenditureService{
		Repo:      repo,
		Incomes:   incomes,
		ARCodes:   arCodes,
		Advances:  advances,
		Catalog:   catalog,
		Cache:     summaryCache,
		Now:       time.Now,
		config:    config,
		logger:    logger,
		validator: validation.New(),
	}
}

// periodBudget is what a period's income allows to be spent: the expense
// codes allocated to it, and for each the AR codes it is booked under.
type periodBudget struct {
	codes map[string]bool
	arFor map[string][]string
}

func (b *periodBudget) resolve(arCode, expenseCode string) (string, error) {
	if !b.codes[expenseCode] {
		return "", fmt.Errorf("%w: %s", customError.ErrExpenseCodeNotAllocated, expenseCode)
	}
	groups := b.arFor[expenseCode]
	if arCode == "" {
		if len(groups) > 0 {
			return groups[0], nil
		}
		return "", nil
	}
	for _, g := range groups {
		if g == arCode {
			return arCode, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not booked under %s", customError.ErrExpenseCodeNotAllocated, expenseCode, arCode)
}

// CreateExpenditure records disbursements for one period. Only expense codes
// allocated in that period's income are accepted; lines without a positive
// amount are dropped. Advance payments also open a loan per saved line.
func (s *ExpenditureService) CreateExpenditure(ctx context.Context, request *domain.CreateExpenditureRequest) (*domain.CreateExpenditureResponse, error) {
	if request == nil {
		return nil, customError.WrapValidation("Expenditure request is required", nil)
	}
	request.ProjectCode = normalizeProjectCode(request.ProjectCode)
	request.FundType = strings.TrimSpace(request.FundType)
	request.ActivityCode = strings.TrimSpace(request.ActivityCode)

	if err := s.validator.Validate(request); err != nil {
		return nil, customError.WrapValidation("Invalid expenditure request", err)
	}

	budget, err := s.budgetFor(ctx, request.ProjectCode, request.FundType, request.Period)
	if err != nil {
		return nil, err
	}

	spend, err := s.Catalog.index(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	enteredAt := entryTimestamp(request.EntryDate, now)
	disbursedAt := request.DisbursementDate.Ptr()
	if disbursedAt == nil {
		t := utils.DateOnly(enteredAt)
		disbursedAt = &t
	}
	batch := uuid.New()

	var rows []*domain.ExpenditureRecord
	for _, item := range request.Items {
		if !item.Amount.IsPositive() {
			continue
		}
		code := strings.TrimSpace(item.ExpenseCode)
		arCode, err := budget.resolve(strings.TrimSpace(item.ARCode), code)
		if err != nil {
			return nil, customError.WrapValidation(fmt.Sprintf("Expense code %s is not allocated in period %d", code, request.Period), err)
		}

		sc := spend.lookup(code)
		rows = append(rows, &domain.ExpenditureRecord{
			BatchID:      batch,
			EnteredAt:    enteredAt,
			ProjectCode:  request.ProjectCode,
			FundType:     request.FundType,
			PaymentType:  request.PaymentType,
			DisbursedAt:  disbursedAt,
			ActivityCode: request.ActivityCode,
			Period:       request.Period,
			ARCode:       arCode,
			ExpenseCode:  code,
			Category:     sc.Category,
			Item:         sc.Item,
			CostType:     sc.CostType,
			Amount:       item.Amount,
		})
	}
	if len(rows) == 0 {
		return nil, customError.WrapValidation("No amounts to save", customError.ErrNothingToSave)
	}

	// Loans are written before the expenditure rows. Appending an identical
	// unpaid loan row again leaves that loan's summary unchanged, so a retry
	// after a failed expenditure write does not double any advance.
	response := &domain.CreateExpenditureResponse{Expenditures: rows}
	if request.PaymentType == domain.PaymentTypeAdvance {
		loans := s.openLoans(rows)
		if err := s.Advances.Append(ctx, loans...); err != nil {
			return nil, customError.WrapSaveFailed(ledgerSource, err)
		}
		if err := s.Cache.Invalidate(ctx, request.ProjectCode); err != nil {
			s.logger.Warn("summary cache invalidation failed", "project_code", request.ProjectCode, "error", customError.WrapCacheError(err))
		}
		response.Advances = loans
	}

	if err := s.Repo.Append(ctx, rows...); err != nil {
		return nil, customError.WrapSaveFailed("expenditure", err)
	}

	s.logger.Info("expenditure recorded",
		"project_code", request.ProjectCode,
		"batch_id", batch.String(),
		"period", request.Period,
		"payment_type", request.PaymentType,
		"rows", len(rows),
		"advances", len(response.Advances),
	)
	return response, nil
}

func (s *ExpenditureService) budgetFor(ctx context.Context, projectCode, fundType string, period int) (*periodBudget, error) {
	incomes, err := s.Incomes.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("income", err)
	}

	budget := &periodBudget{codes: make(map[string]bool), arFor: make(map[string][]string)}
	for _, in := range incomes {
		if !strings.EqualFold(in.ProjectCode, projectCode) || in.FundType != fundType || in.Period != period {
			continue
		}
		if in.ExpenseCode != "" {
			budget.codes[in.ExpenseCode] = true
		}
	}
	if len(budget.codes) == 0 {
		return nil, customError.WrapValidation(
			fmt.Sprintf("No income recorded for %s (%s) in period %d", projectCode, fundType, period),
			customError.ErrNoIncomeForPeriod,
		)
	}

	assignments, err := s.ARCodes.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("AR codes", err)
	}
	for _, a := range assignmentsFor(assignments, projectCode) {
		if a.ARCode == "" || !budget.codes[a.ExpenseCode] {
			continue
		}
		budget.arFor[a.ExpenseCode] = appendUnique(budget.arFor[a.ExpenseCode], a.ARCode)
	}
	return budget, nil
}

// openLoans turns advance disbursements into ledger rows due after the
// configured term. Nothing has been returned yet.
func (s *ExpenditureService) openLoans(rows []*domain.ExpenditureRecord) []*domain.AdvanceRow {
	termDays := termDaysOf(s.config)
	loans := make([]*domain.AdvanceRow, 0, len(rows))
	for _, row := range rows {
		entered := row.EnteredAt
		borrow := utils.DateOnly(*row.DisbursedAt)
		due := utils.CalculateDueDate(borrow, termDays)
		loans = append(loans, &domain.AdvanceRow{
			EnteredAt:      &entered,
			ProjectCode:    row.ProjectCode,
			ARCode:         row.ARCode,
			ExpenseCode:    row.ExpenseCode,
			BorrowDate:     &borrow,
			Amount:         row.Amount,
			DueDate:        &due,
			AmountReturned: decimal.Zero,
			Remaining:      row.Amount,
		})
	}
	return loans
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
