package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/segyhp/fund-ledger/internal/cache"
	"github.com/segyhp/fund-ledger/internal/config"
	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
	"github.com/segyhp/fund-ledger/pkg/utils"
	"github.com/segyhp/fund-ledger/pkg/validation"
)

const ledgerSource = "advance ledger"

type AdvanceService struct {
	Repo  repository.AdvanceRepository
	Cache cache.SummaryCache
	Now   func() time.Time

	config    *config.Config
	logger    *slog.Logger
	validator *validation.Validator

	// held from reading the basis row until the repayment row is appended
	repayMu sync.Mutex
}

func NewAdvanceService(
	repo repository.AdvanceRepository,
	summaryCache cache.SummaryCache,
	config *config.Config,
	logger *slog.Logger,
) *AdvanceService {
	if summaryCache == nil {
		summaryCache = cache.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdvanceService{
		Repo:      repo,
		Cache:     summaryCache,
		Now:       time.Now,
		config:    config,
		logger:    logger,
		validator: validation.New(),
	}
}

// Summarize returns the reconciled state of every loan in the project.
// A project without loans yields an empty list.
func (s *AdvanceService) Summarize(ctx context.Context, projectCode string) ([]*domain.LoanSummary, error) {
	projectCode = strings.TrimSpace(projectCode)
	if projectCode == "" {
		return nil, customError.WrapValidation("Project code is required", nil)
	}

	today := s.today()
	if cached, ok := s.cached(ctx, projectCode, today); ok {
		return cached, nil
	}

	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed(ledgerSource, err)
	}

	summaries := Summarize(rows, projectCode, today)
	s.store(ctx, projectCode, today, summaries)
	return summaries, nil
}

// Outstanding lists the loans of a project that still owe money.
func (s *AdvanceService) Outstanding(ctx context.Context, projectCode string) (*domain.OutstandingSelection, error) {
	summaries, err := s.Summarize(ctx, projectCode)
	if err != nil {
		return nil, err
	}
	return groupOutstanding(strings.TrimSpace(projectCode), summaries), nil
}

// RecordRepayment appends a row carrying the loan's new cumulative amount
// returned. Existing rows are never touched.
func (s *AdvanceService) RecordRepayment(ctx context.Context, request *domain.RepaymentRequest) (*domain.RepaymentResponse, error) {
	if request == nil {
		return nil, customError.WrapValidation("Repayment request is required", nil)
	}
	request.ProjectCode = strings.TrimSpace(request.ProjectCode)

	if err := s.validator.Validate(request); err != nil {
		return nil, customError.WrapValidation("Invalid repayment request", err)
	}
	if request.ReturnAmount.IsNegative() {
		return nil, customError.WrapInvalidRepaymentAmount(request.ReturnAmount.String())
	}

	s.repayMu.Lock()
	defer s.repayMu.Unlock()

	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed(ledgerSource, err)
	}

	key, label, ok := s.resolveLoan(rows, request)
	var basis *domain.AdvanceRow
	if ok {
		basis = basisRow(rows, key)
	}
	if basis == nil {
		return nil, customError.WrapLoanNotFound(request.ProjectCode, label)
	}

	now := s.Now()
	returnDate := request.ReturnDate.Ptr()
	if returnDate == nil {
		t := s.today()
		returnDate = &t
	}

	next := basis.Clone()
	next.EnteredAt = &now
	next.ReturnDate = returnDate
	next.AmountReturned = returnedSoFar(rows, key).Add(request.ReturnAmount)
	next.Remaining = utils.ClampZero(next.Amount.Sub(next.AmountReturned))

	if err := s.Repo.Append(ctx, next); err != nil {
		return nil, customError.WrapSaveFailed(ledgerSource, err)
	}
	s.invalidate(ctx, request.ProjectCode)

	s.logger.Info("repayment recorded",
		"project_code", request.ProjectCode,
		"loan_id", key.ID().String(),
		"return_amount", request.ReturnAmount.String(),
		"amount_returned", next.AmountReturned.String(),
		"remaining", next.Remaining.String(),
	)

	today := s.today()
	summaries := Summarize(append(rows, next), request.ProjectCode, today)
	s.store(ctx, request.ProjectCode, today, summaries)

	response := &domain.RepaymentResponse{Row: next}
	for _, summary := range summaries {
		if summary.LoanID == key.ID() {
			response.Summary = summary
			break
		}
	}
	return response, nil
}

// Projects lists project codes that have at least one loan.
func (s *AdvanceService) Projects(ctx context.Context) ([]string, error) {
	rows, err := s.Repo.List(ctx)
	if errors.Is(err, repository.ErrTableNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, customError.WrapLoadFailed(ledgerSource, err)
	}
	return projectCodes(rows), nil
}

// SweepOverdue recomputes every project's summary, refreshes the cache and
// reports loans past their due date.
func (s *AdvanceService) SweepOverdue(ctx context.Context) (*domain.OverdueReport, error) {
	today := s.today()
	report := &domain.OverdueReport{AsOf: today, Overdue: []*domain.LoanSummary{}}

	rows, err := s.Repo.List(ctx)
	if errors.Is(err, repository.ErrTableNotFound) {
		return report, nil
	}
	if err != nil {
		return nil, customError.WrapLoadFailed(ledgerSource, err)
	}

	for _, projectCode := range projectCodes(rows) {
		summaries := Summarize(rows, projectCode, today)
		s.store(ctx, projectCode, today, summaries)
		report.Projects++

		for _, summary := range summaries {
			if summary.Status != domain.LoanStatusOverdue {
				continue
			}
			report.Overdue = append(report.Overdue, summary)
			s.logger.Warn("advance overdue",
				"project_code", summary.ProjectCode,
				"loan_id", summary.LoanID.String(),
				"expense_code", summary.ExpenseCode,
				"due_date", utils.FormatDate(summary.DueDate),
				"remaining", summary.Remaining.String(),
			)
		}
	}

	s.logger.Info("overdue sweep finished",
		"as_of", today.Format(utils.DateLayout),
		"projects", report.Projects,
		"overdue", len(report.Overdue),
	)
	return report, nil
}

func (s *AdvanceService) resolveLoan(rows []*domain.AdvanceRow, request *domain.RepaymentRequest) (domain.LoanKey, string, bool) {
	if request.LoanID != "" {
		key, ok := keyByLoanID(rows, request.ProjectCode, request.LoanID)
		return key, request.LoanID, ok
	}
	key := request.Identity.Key(request.ProjectCode)
	return key, key.String(), true
}

func (s *AdvanceService) today() time.Time {
	return utils.Today(s.Now(), locationOf(s.config))
}

func (s *AdvanceService) cached(ctx context.Context, projectCode string, today time.Time) ([]*domain.LoanSummary, bool) {
	summaries, ok, err := s.Cache.Get(ctx, projectCode, today)
	if err != nil {
		s.logger.Warn("summary cache read failed", "project_code", projectCode, "error", customError.WrapCacheError(err))
		return nil, false
	}
	return summaries, ok
}

func (s *AdvanceService) store(ctx context.Context, projectCode string, today time.Time, summaries []*domain.LoanSummary) {
	if err := s.Cache.Set(ctx, projectCode, today, summaries); err != nil {
		s.logger.Warn("summary cache write failed", "project_code", projectCode, "error", customError.WrapCacheError(err))
	}
}

func (s *AdvanceService) invalidate(ctx context.Context, projectCode string) {
	if err := s.Cache.Invalidate(ctx, projectCode); err != nil {
		s.logger.Warn("summary cache invalidation failed", "project_code", projectCode, "error", customError.WrapCacheError(err))
	}
}

func projectCodes(rows []*domain.AdvanceRow) []string {
	seen := make(map[string]bool)
	codes := make([]string, 0)
	for _, row := range rows {
		code := strings.TrimSpace(row.ProjectCode)
		if code == "" || !row.Amount.IsPositive() || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func locationOf(cfg *config.Config) *time.Location {
	if cfg == nil {
		return time.UTC
	}
	return cfg.GetLocation()
}

func termDaysOf(cfg *config.Config) int {
	if cfg == nil || cfg.Business.AdvanceTermDays <= 0 {
		return 90
	}
	return cfg.Business.AdvanceTermDays
}
