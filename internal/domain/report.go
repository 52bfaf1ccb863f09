package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetLine compares income and actual spending for one
// (fund type, ar_code, expense code, period).
type BudgetLine struct {
	FundType    string          `json:"fund_type"`
	ARCode      string          `json:"ar_code"`
	ExpenseCode string          `json:"expense_code"`
	Period      int             `json:"period"`
	Income      decimal.Decimal `json:"income"`
	Expenditure decimal.Decimal `json:"expenditure"`
	Balance     decimal.Decimal `json:"balance"`
}

type PeriodSummary struct {
	Period             int             `json:"period"`
	Lines              []*BudgetLine   `json:"lines"`
	Income             decimal.Decimal `json:"income"`
	Expenditure        decimal.Decimal `json:"expenditure"`
	Balance            decimal.Decimal `json:"balance"`
	IncomePercent      decimal.Decimal `json:"income_percent"`
	ExpenditurePercent decimal.Decimal `json:"expenditure_percent"`
	BalancePercent     decimal.Decimal `json:"balance_percent"`
}

// ProjectTimeline counts months as 30 days.
type ProjectTimeline struct {
	ContractCode    string     `json:"contract_code"`
	ContractDate    *time.Time `json:"contract_date,omitempty"`
	DurationMonths  int        `json:"duration_months"`
	ElapsedDays     int        `json:"elapsed_days"`
	ElapsedMonths   int        `json:"elapsed_months"`
	RemainingMonths int        `json:"remaining_months"`
	RemainingDays   int        `json:"remaining_days"`
}

type ProjectSummary struct {
	ProjectCode        string           `json:"project_code"`
	Timeline           *ProjectTimeline `json:"timeline,omitempty"`
	Periods            []*PeriodSummary `json:"periods"`
	Income             decimal.Decimal  `json:"income"`
	Expenditure        decimal.Decimal  `json:"expenditure"`
	Balance            decimal.Decimal  `json:"balance"`
	ExpenditurePercent decimal.Decimal  `json:"expenditure_percent"`
	BalancePercent     decimal.Decimal  `json:"balance_percent"`
}

type ProjectFundShare struct {
	ProjectCode string          `json:"project_code"`
	Amount      decimal.Decimal `json:"amount"`
	Percent     decimal.Decimal `json:"percent"`
}

type InternalFundUsage struct {
	Budget    decimal.Decimal     `json:"budget"`
	Projects  []*ProjectFundShare `json:"projects"`
	Used      decimal.Decimal     `json:"used"`
	Remaining decimal.Decimal     `json:"remaining"`
}

type ItemAllocation struct {
	Item      string          `json:"item"`
	Allocated decimal.Decimal `json:"allocated"`
	Disbursed decimal.Decimal `json:"disbursed"`
	Remaining decimal.Decimal `json:"remaining"`
}

type PeriodItems struct {
	Period int               `json:"period"`
	Items  []*ItemAllocation `json:"items"`
	Total  *ItemAllocation   `json:"total"`
}

type ExpenseItemSummary struct {
	Periods []*PeriodItems `json:"periods"`
}
