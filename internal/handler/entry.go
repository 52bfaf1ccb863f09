package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/response"

	"github.com/gorilla/mux"
)

type ARCodeService interface {
	RegisterARCodes(ctx context.Context, request *domain.RegisterARCodesRequest) ([]*domain.ARCodeAssignment, error)
	ListARCodes(ctx context.Context, projectCode string) ([]*domain.ARCodeAssignment, error)
}

type IncomeService interface {
	CreateIncome(ctx context.Context, request *domain.CreateIncomeRequest) ([]*domain.IncomeRecord, error)
}

type ExpenditureService interface {
	CreateExpenditure(ctx context.Context, request *domain.CreateExpenditureRequest) (*domain.CreateExpenditureResponse, error)
}

type SpendCatalog interface {
	List(ctx context.Context) ([]*domain.SpendCode, error)
}

// EntryHandler serves the data entry forms: AR codes, income and expenditure.
type EntryHandler struct {
	arCodes      ARCodeService
	incomes      IncomeService
	expenditures ExpenditureService
	catalog      SpendCatalog
}

func NewEntryHandler(arCodes ARCodeService, incomes IncomeService, expenditures ExpenditureService, catalog SpendCatalog) *EntryHandler {
	return &EntryHandler{
		arCodes:      arCodes,
		incomes:      incomes,
		expenditures: expenditures,
		catalog:      catalog,
	}
}

func (h *EntryHandler) RegisterARCodes(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterARCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	rows, err := h.arCodes.RegisterARCodes(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, rows)
}

func (h *EntryHandler) ListARCodes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.arCodes.ListARCodes(r.Context(), mux.Vars(r)["projectCode"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *EntryHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	rows, err := h.incomes.CreateIncome(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, rows)
}

func (h *EntryHandler) CreateExpenditure(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	result, err := h.expenditures.CreateExpenditure(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, result)
}

// SpendCodes returns the expense-code lookup table
func (h *EntryHandler) SpendCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.catalog.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, codes)
}
