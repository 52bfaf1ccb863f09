package handler

import (
	"log/slog"

	"github.com/segyhp/fund-ledger/pkg/response"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Advance *AdvanceHandler
	Entry   *EntryHandler
	Report  *ReportHandler
	Health  *HealthHandler
}

// NewRouter wires every route. Nil handlers leave their routes out.
func NewRouter(h Handlers, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	if logger != nil {
		router.Use(response.LoggingMiddleware(logger))
	}
	router.Use(response.CORSMiddleware)

	// Health check
	if h.Health != nil {
		router.HandleFunc("/health", h.Health.Health).Methods("GET")
		router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	}

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	if h.Advance != nil {
		api.HandleFunc("/advances/projects", h.Advance.Projects).Methods("GET")
		api.HandleFunc("/projects/{projectCode}/advances", h.Advance.Summary).Methods("GET")
		api.HandleFunc("/projects/{projectCode}/advances/outstanding", h.Advance.Outstanding).Methods("GET")
		api.HandleFunc("/projects/{projectCode}/advances/repayments", h.Advance.RecordRepayment).Methods("POST")
	}

	if h.Entry != nil {
		api.HandleFunc("/ar-codes", h.Entry.RegisterARCodes).Methods("POST")
		api.HandleFunc("/projects/{projectCode}/ar-codes", h.Entry.ListARCodes).Methods("GET")
		api.HandleFunc("/incomes", h.Entry.CreateIncome).Methods("POST")
		api.HandleFunc("/expenditures", h.Entry.CreateExpenditure).Methods("POST")
		api.HandleFunc("/spend-codes", h.Entry.SpendCodes).Methods("GET")
	}

	if h.Report != nil {
		api.HandleFunc("/projects/{projectCode}/summary", h.Report.ProjectSummary).Methods("GET")
		api.HandleFunc("/reports/internal-fund", h.Report.InternalFundUsage).Methods("GET")
		api.HandleFunc("/reports/expense-items", h.Report.ExpenseItems).Methods("GET")
		api.HandleFunc("/reports/expense-items.xlsx", h.Report.ExportExpenseItems).Methods("GET")
	}

	return router
}
