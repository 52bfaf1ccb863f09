package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
	"github.com/segyhp/fund-ledger/pkg/validation"
)

type ARCodeService struct {
	Repo repository.ARCodeRepository

	logger    *slog.Logger
	validator *validation.Validator
}

func NewARCodeService(repo repository.ARCodeRepository, logger *slog.Logger) *ARCodeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ARCodeService{Repo: repo, logger: logger, validator: validation.New()}
}

// RegisterARCodes binds expense codes to AR codes. Sets missing either part
// are skipped.
func (s *ARCodeService) RegisterARCodes(ctx context.Context, request *domain.RegisterARCodesRequest) ([]*domain.ARCodeAssignment, error) {
	if request == nil {
		return nil, customError.WrapValidation("AR code request is required", nil)
	}
	request.ProjectCode = normalizeProjectCode(request.ProjectCode)
	for i := range request.Sets {
		request.Sets[i].ARCode = strings.TrimSpace(request.Sets[i].ARCode)
	}

	if err := s.validator.Validate(request); err != nil {
		return nil, customError.WrapValidation("Invalid AR code request", err)
	}

	var rows []*domain.ARCodeAssignment
	for _, set := range request.Sets {
		if set.ARCode == "" {
			continue
		}
		for _, code := range set.ExpenseCodes {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			rows = append(rows, &domain.ARCodeAssignment{
				ProjectCode: request.ProjectCode,
				ARCode:      set.ARCode,
				ExpenseCode: code,
			})
		}
	}
	if len(rows) == 0 {
		return nil, customError.WrapValidation("Enter an AR code and at least one expense code", customError.ErrNothingToSave)
	}

	if err := s.Repo.Append(ctx, rows...); err != nil {
		return nil, customError.WrapSaveFailed("AR codes", err)
	}

	s.logger.Info("ar codes registered", "project_code", request.ProjectCode, "rows", len(rows))
	return rows, nil
}

// ListARCodes returns the assignments of one project in insertion order.
func (s *ARCodeService) ListARCodes(ctx context.Context, projectCode string) ([]*domain.ARCodeAssignment, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("AR codes", err)
	}
	return assignmentsFor(all, normalizeProjectCode(projectCode)), nil
}

func assignmentsFor(all []*domain.ARCodeAssignment, projectCode string) []*domain.ARCodeAssignment {
	out := make([]*domain.ARCodeAssignment, 0)
	for _, a := range all {
		if strings.EqualFold(strings.TrimSpace(a.ProjectCode), projectCode) {
			out = append(out, a)
		}
	}
	return out
}

func normalizeProjectCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
