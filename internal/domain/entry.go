package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fund types
const (
	FundTypeInternal = "ทุนภายใน"
	FundTypeExternal = "ทุนภายนอก"
)

// Payment types of an expenditure
const (
	PaymentTypeActual  = "ค่าใช้จ่ายจริง"
	PaymentTypeAdvance = "เงินยืมทดรองจ่าย"
)

// SpendCode is one entry of the expense-code lookup table.
type SpendCode struct {
	Code     string `csv:"รหัสค่าใช้จ่าย" json:"code"`
	Category string `csv:"หมวดรายจ่าย" json:"category"`
	Item     string `csv:"รายการ" json:"item"`
	CostType string `csv:"ประเภทค่าใช้จ่าย" json:"cost_type"`
}

// ARCodeAssignment binds an expense code to an AR code within a project.
type ARCodeAssignment struct {
	ProjectCode string `json:"project_code"`
	ARCode      string `json:"ar_code"`
	ExpenseCode string `json:"expense_code"`
}

type ARCodeSet struct {
	ARCode       string   `json:"ar_code" validate:"omitempty,ar_code"`
	ExpenseCodes []string `json:"expense_codes"`
}

type RegisterARCodesRequest struct {
	ProjectCode string      `json:"project_code" validate:"required,project_code"`
	Sets        []ARCodeSet `json:"sets" validate:"required,min=1,dive"`
}

// IncomeRecord is one allocated amount for an expense code in a funding period.
type IncomeRecord struct {
	BatchID        uuid.UUID       `json:"batch_id"`
	EnteredAt      time.Time       `json:"entered_at"`
	FiscalYear     string          `json:"fiscal_year"`
	ProjectCode    string          `json:"project_code"`
	FundType       string          `json:"fund_type"`
	FundSource     string          `json:"fund_source"`
	ContractDate   *time.Time      `json:"contract_date,omitempty"`
	DurationMonths int             `json:"duration_months"`
	ContractCode   string          `json:"contract_code"`
	Period         int             `json:"period"`
	ARCode         string          `json:"ar_code"`
	ExpenseCode    string          `json:"expense_code"`
	Category       string          `json:"category"`
	Item           string          `json:"item"`
	CostType       string          `json:"cost_type"`
	Amount         decimal.Decimal `json:"amount"`
}

// LineItem is an amount entered against one expense code. Category, Item and
// CostType override the lookup table when set.
type LineItem struct {
	ExpenseCode string          `json:"expense_code"`
	Category    string          `json:"category,omitempty"`
	Item        string          `json:"item,omitempty"`
	CostType    string          `json:"cost_type,omitempty"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
}

// ARCodeAmounts allocates money to the expense codes bundled under an AR code.
type ARCodeAmounts struct {
	ARCode  string                     `json:"ar_code" validate:"required"`
	Amounts map[string]decimal.Decimal `json:"amounts"`
}

type IncomePeriod struct {
	ARCodes []ARCodeAmounts `json:"ar_codes" validate:"dive"`
	Items   []LineItem      `json:"items" validate:"dive"`
}

type CreateIncomeRequest struct {
	EntryDate      Date           `json:"entry_date"`
	FiscalYear     string         `json:"fiscal_year" validate:"required"`
	ProjectCode    string         `json:"project_code" validate:"required,project_code"`
	FundType       string         `json:"fund_type" validate:"required,oneof=ทุนภายใน ทุนภายนอก"`
	FundSource     string         `json:"fund_source" validate:"required"`
	ContractDate   Date           `json:"contract_date"`
	DurationMonths int            `json:"duration_months" validate:"gt=0"`
	ContractCode   string         `json:"contract_code" validate:"required,contract_code"`
	Periods        []IncomePeriod `json:"periods" validate:"required,min=1,dive"`
}

// ExpenditureRecord is one disbursed amount.
type ExpenditureRecord struct {
	BatchID      uuid.UUID       `json:"batch_id"`
	EnteredAt    time.Time       `json:"entered_at"`
	ProjectCode  string          `json:"project_code"`
	FundType     string          `json:"fund_type"`
	PaymentType  string          `json:"payment_type"`
	DisbursedAt  *time.Time      `json:"disbursed_at,omitempty"`
	ActivityCode string          `json:"activity_code"`
	Period       int             `json:"period"`
	ARCode       string          `json:"ar_code"`
	ExpenseCode  string          `json:"expense_code"`
	Category     string          `json:"category"`
	Item         string          `json:"item"`
	CostType     string          `json:"cost_type"`
	Amount       decimal.Decimal `json:"amount"`
}

type ExpenditureItem struct {
	ARCode      string          `json:"ar_code"`
	ExpenseCode string          `json:"expense_code" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
}

type CreateExpenditureRequest struct {
	EntryDate        Date              `json:"entry_date"`
	ProjectCode      string            `json:"project_code" validate:"required,project_code"`
	FundType         string            `json:"fund_type" validate:"required"`
	PaymentType      string            `json:"payment_type" validate:"required,oneof=ค่าใช้จ่ายจริง เงินยืมทดรองจ่าย"`
	DisbursementDate Date              `json:"disbursement_date"`
	ActivityCode     string            `json:"activity_code" validate:"omitempty,activity_code"`
	Period           int               `json:"period" validate:"gt=0"`
	Items            []ExpenditureItem `json:"items" validate:"required,min=1,dive"`
}

type CreateExpenditureResponse struct {
	Expenditures []*ExpenditureRecord `json:"expenditures"`
	Advances     []*AdvanceRow        `json:"advances,omitempty"`
}
