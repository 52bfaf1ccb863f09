package mocks

import (
	"context"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAdvanceRepository struct {
	mock.Mock
}

func (m *MockAdvanceRepository) List(ctx context.Context) ([]*domain.AdvanceRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AdvanceRow), args.Error(1)
}

func (m *MockAdvanceRepository) Append(ctx context.Context, rows ...*domain.AdvanceRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) List(ctx context.Context) ([]*domain.IncomeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IncomeRecord), args.Error(1)
}

func (m *MockIncomeRepository) Append(ctx context.Context, rows ...*domain.IncomeRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type MockExpenditureRepository struct {
	mock.Mock
}

func (m *MockExpenditureRepository) List(ctx context.Context) ([]*domain.ExpenditureRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExpenditureRecord), args.Error(1)
}

func (m *MockExpenditureRepository) Append(ctx context.Context, rows ...*domain.ExpenditureRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type MockARCodeRepository struct {
	mock.Mock
}

func (m *MockARCodeRepository) List(ctx context.Context) ([]*domain.ARCodeAssignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ARCodeAssignment), args.Error(1)
}

func (m *MockARCodeRepository) Append(ctx context.Context, rows ...*domain.ARCodeAssignment) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type MockSpendCodeRepository struct {
	mock.Mock
}

func (m *MockSpendCodeRepository) List(ctx context.Context) ([]*domain.SpendCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SpendCode), args.Error(1)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, projectCode string, asOf time.Time) ([]*domain.LoanSummary, bool, error) {
	args := m.Called(ctx, projectCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*domain.LoanSummary), args.Bool(1), args.Error(2)
}

func (m *MockSummaryCache) Set(ctx context.Context, projectCode string, asOf time.Time, summaries []*domain.LoanSummary) error {
	args := m.Called(ctx, projectCode, asOf, summaries)
	return args.Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, projectCode string) error {
	args := m.Called(ctx, projectCode)
	return args.Error(0)
}
