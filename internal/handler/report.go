package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/response"

	"github.com/gorilla/mux"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportService interface {
	ProjectSummary(ctx context.Context, projectCode string) (*domain.ProjectSummary, error)
	InternalFundUsage(ctx context.Context) (*domain.InternalFundUsage, error)
	ExpenseItemSummary(ctx context.Context) (*domain.ExpenseItemSummary, error)
	ExportExpenseItems(ctx context.Context, w io.Writer) error
}

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) ProjectSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.ProjectSummary(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

func (h *ReportHandler) InternalFundUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.InternalFundUsage(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, usage)
}

func (h *ReportHandler) ExpenseItems(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.ExpenseItemSummary(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summary)
}

// ExportExpenseItems downloads the expense item summary as a workbook.
// The file is built in memory so a failure can still be reported as JSON.
func (h *ReportHandler) ExportExpenseItems(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportExpenseItems(r.Context(), &buf); err != nil {
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="expense_items.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
