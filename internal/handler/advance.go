package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/response"

	"github.com/gorilla/mux"
)

type AdvanceService interface {
	Summarize(ctx context.Context, projectCode string) ([]*domain.LoanSummary, error)
	Outstanding(ctx context.Context, projectCode string) (*domain.OutstandingSelection, error)
	RecordRepayment(ctx context.Context, request *domain.RepaymentRequest) (*domain.RepaymentResponse, error)
	Projects(ctx context.Context) ([]string, error)
}

type AdvanceHandler struct {
	service AdvanceService
}

func NewAdvanceHandler(service AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{service: service}
}

// Projects lists the project codes that have advances
func (h *AdvanceHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.Projects(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, projects)
}

// Summary returns one reconciled row per loan of the project
func (h *AdvanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summarize(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, summaries)
}

// Outstanding returns the loans still owing money, grouped for selection
func (h *AdvanceHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	selection, err := h.service.Outstanding(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, selection)
}

// RecordRepayment appends a repayment against one loan
func (h *AdvanceHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	request.ProjectCode = mux.Vars(r)["projectCode"]

	result, err := h.service.RecordRepayment(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}
