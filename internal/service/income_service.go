package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
	"github.com/segyhp/fund-ledger/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IncomeService struct {
	Repo    repository.IncomeRepository
	ARCodes repository.ARCodeRepository
	Catalog *SpendCatalog
	Now     func() time.Time

	logger    *slog.Logger
	validator *validation.Validator
}

func NewIncomeService(
	repo repository.IncomeRepository,
	arCodes repository.ARCodeRepository,
	catalog *SpendCatalog,
	logger *slog.Logger,
) *IncomeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IncomeService{
		Repo:      repo,
		ARCodes:   arCodes,
		Catalog:   catalog,
		Now:       time.Now,
		logger:    logger,
		validator: validation.New(),
	}
}

// CreateIncome records the allocation of a funding contract. Periods are
// numbered by position starting at 1. AR codes expand to every expense code
// registered under them for the project; free items carry no AR code.
func (s *IncomeService) CreateIncome(ctx context.Context, request *domain.CreateIncomeRequest) ([]*domain.IncomeRecord, error) {
	if request == nil {
		return nil, customError.WrapValidation("Income request is required", nil)
	}
	request.ProjectCode = normalizeProjectCode(request.ProjectCode)
	request.ContractCode = strings.TrimSpace(request.ContractCode)

	if err := s.validator.Validate(request); err != nil {
		return nil, customError.WrapValidation("Invalid income request", err)
	}

	assignments, err := s.ARCodes.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("AR codes", err)
	}
	assignments = assignmentsFor(assignments, request.ProjectCode)

	spend, err := s.Catalog.index(ctx)
	if err != nil {
		return nil, err
	}

	enteredAt := entryTimestamp(request.EntryDate, s.Now())
	batch := uuid.New()
	base := domain.IncomeRecord{
		BatchID:        batch,
		EnteredAt:      enteredAt,
		FiscalYear:     strings.TrimSpace(request.FiscalYear),
		ProjectCode:    request.ProjectCode,
		FundType:       request.FundType,
		FundSource:     strings.TrimSpace(request.FundSource),
		ContractDate:   request.ContractDate.Ptr(),
		DurationMonths: request.DurationMonths,
		ContractCode:   request.ContractCode,
	}

	var rows []*domain.IncomeRecord
	for i, period := range request.Periods {
		for _, group := range period.ARCodes {
			arCode := strings.TrimSpace(group.ARCode)
			for _, a := range assignments {
				if a.ARCode != arCode {
					continue
				}
				sc := spend.lookup(a.ExpenseCode)
				rows = append(rows, incomeRow(base, i+1, arCode, sc, amountFor(group.Amounts, sc.Code)))
			}
		}

		for _, item := range period.Items {
			code := strings.TrimSpace(item.ExpenseCode)
			if code == "" {
				continue
			}
			sc := spend.lookup(code)
			overrideSpend(sc, item.Category, item.Item, item.CostType)
			rows = append(rows, incomeRow(base, i+1, "", sc, item.Amount))
		}
	}

	if len(rows) == 0 {
		return nil, customError.WrapValidation("No income lines to save", customError.ErrNothingToSave)
	}

	if err := s.Repo.Append(ctx, rows...); err != nil {
		return nil, customError.WrapSaveFailed("income", err)
	}

	s.logger.Info("income recorded",
		"project_code", request.ProjectCode,
		"batch_id", batch.String(),
		"periods", len(request.Periods),
		"rows", len(rows),
	)
	return rows, nil
}

func incomeRow(base domain.IncomeRecord, period int, arCode string, sc *domain.SpendCode, amount decimal.Decimal) *domain.IncomeRecord {
	row := base
	row.Period = period
	row.ARCode = arCode
	row.ExpenseCode = sc.Code
	row.Category = sc.Category
	row.Item = sc.Item
	row.CostType = sc.CostType
	row.Amount = amount
	return &row
}

func amountFor(amounts map[string]decimal.Decimal, code string) decimal.Decimal {
	if amount, ok := amounts[code]; ok && amount.IsPositive() {
		return amount
	}
	return decimal.Zero
}

func overrideSpend(sc *domain.SpendCode, category, item, costType string) {
	if v := strings.TrimSpace(category); v != "" {
		sc.Category = v
	}
	if v := strings.TrimSpace(item); v != "" {
		sc.Item = v
	}
	if v := strings.TrimSpace(costType); v != "" {
		sc.CostType = v
	}
}

// entryTimestamp combines the form's entry date with the current clock time.
func entryTimestamp(entry domain.Date, now time.Time) time.Time {
	if entry.IsZero() {
		return now
	}
	return time.Date(entry.Year(), entry.Month(), entry.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location())
}
