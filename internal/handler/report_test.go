package handler

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/mocks"
	customError "github.com/segyhp/fund-ledger/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReportHandler_JSONReports(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		setupMock func(*mocks.MockReportService)
	}{
		{
			name: "project summary",
			path: "/api/v1/projects/E2567_001/summary",
			setupMock: func(m *mocks.MockReportService) {
				m.On("ProjectSummary", mock.Anything, "E2567_001").
					Return(&domain.ProjectSummary{ProjectCode: "E2567_001", Periods: []*domain.PeriodSummary{}}, nil).Once()
			},
		},
		{
			name: "internal fund",
			path: "/api/v1/reports/internal-fund",
			setupMock: func(m *mocks.MockReportService) {
				m.On("InternalFundUsage", mock.Anything).
					Return(&domain.InternalFundUsage{Budget: decimal.NewFromInt(5_000_000)}, nil).Once()
			},
		},
		{
			name: "expense items",
			path: "/api/v1/reports/expense-items",
			setupMock: func(m *mocks.MockReportService) {
				m.On("ExpenseItemSummary", mock.Anything).Return(&domain.ExpenseItemSummary{}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockReportService)
			tt.setupMock(svc)

			w := serve(Handlers{Report: NewReportHandler(svc)}, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, decodeEnvelope(t, w).Success)
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_ExportExpenseItems(t *testing.T) {
	t.Run("workbook download", func(t *testing.T) {
		svc := new(mocks.MockReportService)
		svc.On("ExportExpenseItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			_, _ = io.WriteString(args.Get(1).(io.Writer), "PK")
		}).Return(nil).Once()

		w := serve(Handlers{Report: NewReportHandler(svc)}, http.MethodGet, "/api/v1/reports/expense-items.xlsx", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "expense_items.xlsx")
		assert.Equal(t, "PK", w.Body.String())
	})

	t.Run("failure stays json", func(t *testing.T) {
		svc := new(mocks.MockReportService)
		svc.On("ExportExpenseItems", mock.Anything, mock.Anything).
			Return(customError.WrapLoadFailed("income", errors.New("corrupt"))).Once()

		w := serve(Handlers{Report: NewReportHandler(svc)}, http.MethodGet, "/api/v1/reports/expense-items.xlsx", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, customError.ErrCodeLoadFailed, decodeEnvelope(t, w).Code)
	})
}
