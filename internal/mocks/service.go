package mocks

import (
	"context"
	"io"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAdvanceService struct {
	mock.Mock
}

func (m *MockAdvanceService) Summarize(ctx context.Context, projectCode string) ([]*domain.LoanSummary, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanSummary), args.Error(1)
}

func (m *MockAdvanceService) Outstanding(ctx context.Context, projectCode string) (*domain.OutstandingSelection, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingSelection), args.Error(1)
}

func (m *MockAdvanceService) RecordRepayment(ctx context.Context, request *domain.RepaymentRequest) (*domain.RepaymentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepaymentResponse), args.Error(1)
}

func (m *MockAdvanceService) Projects(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockARCodeService struct {
	mock.Mock
}

func (m *MockARCodeService) RegisterARCodes(ctx context.Context, request *domain.RegisterARCodesRequest) ([]*domain.ARCodeAssignment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ARCodeAssignment), args.Error(1)
}

func (m *MockARCodeService) ListARCodes(ctx context.Context, projectCode string) ([]*domain.ARCodeAssignment, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ARCodeAssignment), args.Error(1)
}

type MockIncomeService struct {
	mock.Mock
}

func (m *MockIncomeService) CreateIncome(ctx context.Context, request *domain.CreateIncomeRequest) ([]*domain.IncomeRecord, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IncomeRecord), args.Error(1)
}

type MockExpenditureService struct {
	mock.Mock
}

func (m *MockExpenditureService) CreateExpenditure(ctx context.Context, request *domain.CreateExpenditureRequest) (*domain.CreateExpenditureResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateExpenditureResponse), args.Error(1)
}

type MockSpendCatalog struct {
	mock.Mock
}

func (m *MockSpendCatalog) List(ctx context.Context) ([]*domain.SpendCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SpendCode), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ProjectSummary(ctx context.Context, projectCode string) (*domain.ProjectSummary, error) {
	args := m.Called(ctx, projectCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectSummary), args.Error(1)
}

func (m *MockReportService) InternalFundUsage(ctx context.Context) (*domain.InternalFundUsage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InternalFundUsage), args.Error(1)
}

func (m *MockReportService) ExpenseItemSummary(ctx context.Context) (*domain.ExpenseItemSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseItemSummary), args.Error(1)
}

func (m *MockReportService) ExportExpenseItems(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
