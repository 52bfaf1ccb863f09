package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Derived loan states
const (
	LoanStatusNotYetReturned = "not_yet_returned"
	LoanStatusOverdue        = "overdue"
	LoanStatusClosed         = "closed"
	LoanStatusUnknown        = "unknown"
)

var loanNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fund-ledger/advance-payment"))

// AdvanceRow is one stored row of the advance-payment ledger. A loan is born
// as a single row; every repayment appends a copy carrying the new cumulative
// AmountReturned and ReturnDate.
type AdvanceRow struct {
	EnteredAt      *time.Time      `json:"entered_at,omitempty" db:"entered_at"`
	ProjectCode    string          `json:"project_code" db:"project_code"`
	ARCode         string          `json:"ar_code" db:"ar_code"`
	ExpenseCode    string          `json:"expense_code" db:"expense_code"`
	BorrowDate     *time.Time      `json:"borrow_date" db:"borrow_date"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        *time.Time      `json:"due_date,omitempty" db:"due_date"`
	ReturnDate     *time.Time      `json:"return_date,omitempty" db:"return_date"`
	AmountReturned decimal.Decimal `json:"amount_returned" db:"amount_returned"`
	Remaining      decimal.Decimal `json:"remaining" db:"remaining"`
}

// Clone returns a deep copy of the row.
func (r *AdvanceRow) Clone() *AdvanceRow {
	c := *r
	c.EnteredAt = cloneTime(r.EnteredAt)
	c.BorrowDate = cloneTime(r.BorrowDate)
	c.DueDate = cloneTime(r.DueDate)
	c.ReturnDate = cloneTime(r.ReturnDate)
	return &c
}

// Key returns the identity of the loan the row belongs to.
func (r *AdvanceRow) Key() LoanKey {
	return LoanKey{
		ProjectCode: strings.TrimSpace(r.ProjectCode),
		ARCode:      strings.TrimSpace(r.ARCode),
		ExpenseCode: strings.TrimSpace(r.ExpenseCode),
		BorrowDate:  keyDate(r.BorrowDate),
		Amount:      r.Amount.StringFixed(2),
		DueDate:     keyDate(r.DueDate),
	}
}

// LoanKey identifies a logical loan: (project, ar_code, expense_code,
// borrow_date, amount, due_date). Dates are YYYY-MM-DD, empty when unknown.
type LoanKey struct {
	ProjectCode string
	ARCode      string
	ExpenseCode string
	BorrowDate  string
	Amount      string
	DueDate     string
}

func (k LoanKey) String() string {
	return strings.Join([]string{k.ProjectCode, k.ARCode, k.ExpenseCode, k.BorrowDate, k.Amount, k.DueDate}, "|")
}

// ID is stable for a given identity, so clients can refer to a loan without
// repeating every identity field.
func (k LoanKey) ID() uuid.UUID {
	return uuid.NewSHA1(loanNamespace, []byte(k.String()))
}

// LoanSummary is the reconciled state of one loan.
type LoanSummary struct {
	LoanID         uuid.UUID       `json:"loan_id"`
	ProjectCode    string          `json:"project_code"`
	ARCode         string          `json:"ar_code"`
	ExpenseCode    string          `json:"expense_code"`
	BorrowDate     *time.Time      `json:"borrow_date"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        *time.Time      `json:"due_date"`
	TotalReturned  decimal.Decimal `json:"total_returned"`
	LastReturnDate *time.Time      `json:"last_return_date,omitempty"`
	Remaining      decimal.Decimal `json:"remaining"`
	Status         string          `json:"status"`
}

// LoanIdentity names a loan by its identity fields.
type LoanIdentity struct {
	ARCode      string          `json:"ar_code"`
	ExpenseCode string          `json:"expense_code" validate:"required"`
	BorrowDate  Date            `json:"borrow_date"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	DueDate     Date            `json:"due_date"`
}

// Key builds the loan key for project.
func (i LoanIdentity) Key(projectCode string) LoanKey {
	row := AdvanceRow{
		ProjectCode: projectCode,
		ARCode:      i.ARCode,
		ExpenseCode: i.ExpenseCode,
		BorrowDate:  i.BorrowDate.Ptr(),
		Amount:      i.Amount,
		DueDate:     i.DueDate.Ptr(),
	}
	return row.Key()
}

// RepaymentRequest records money returned against one loan. The loan is
// named either by LoanID or by Identity.
type RepaymentRequest struct {
	ProjectCode  string          `json:"project_code" validate:"required"`
	LoanID       string          `json:"loan_id" validate:"omitempty,uuid"`
	Identity     *LoanIdentity   `json:"identity" validate:"required_without=LoanID"`
	ReturnDate   Date            `json:"return_date"`
	ReturnAmount decimal.Decimal `json:"return_amount"`
}

type RepaymentResponse struct {
	Row     *AdvanceRow  `json:"row"`
	Summary *LoanSummary `json:"summary"`
}

// OutstandingSelection lists loans with money still owed, grouped the way
// the repayment form offers them.
type OutstandingSelection struct {
	ProjectCode     string                `json:"project_code"`
	GroupedByARCode bool                  `json:"grouped_by_ar_code"`
	ARCodes         []*OutstandingARCode  `json:"ar_codes,omitempty"`
	ExpenseCodes    []*OutstandingExpense `json:"expense_codes,omitempty"`
}

type OutstandingARCode struct {
	ARCode       string                `json:"ar_code"`
	ExpenseCodes []*OutstandingExpense `json:"expense_codes"`
}

type OutstandingExpense struct {
	ExpenseCode string         `json:"expense_code"`
	Loans       []*LoanSummary `json:"loans"`
}

// OverdueReport is produced by the daily sweep.
type OverdueReport struct {
	AsOf     time.Time      `json:"as_of"`
	Projects int            `json:"projects"`
	Overdue  []*LoanSummary `json:"overdue"`
}

func keyDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
