package service

import (
	"sort"
	"strings"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

type loanGroup struct {
	first          *domain.AdvanceRow
	totalReturned  decimal.Decimal
	lastReturnDate *time.Time
}

// Summarize reconciles the ledger rows of one project into one summary per
// loan. Every row carries the running cumulative amount returned, so the
// total is the largest value seen for the loan, never a sum.
func Summarize(rows []*domain.AdvanceRow, projectCode string, today time.Time) []*domain.LoanSummary {
	projectCode = strings.TrimSpace(projectCode)
	today = utils.DateOnly(today)

	groups := make(map[domain.LoanKey]*loanGroup)
	order := make([]domain.LoanKey, 0)

	for _, row := range rows {
		if !belongsTo(row, projectCode) {
			continue
		}
		key := row.Key()
		g, ok := groups[key]
		if !ok {
			g = &loanGroup{first: row, totalReturned: row.AmountReturned}
			groups[key] = g
			order = append(order, key)
		}
		if row.AmountReturned.GreaterThan(g.totalReturned) {
			g.totalReturned = row.AmountReturned
		}
		if row.ReturnDate != nil && (g.lastReturnDate == nil || row.ReturnDate.After(*g.lastReturnDate)) {
			g.lastReturnDate = row.ReturnDate
		}
	}

	summaries := make([]*domain.LoanSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		remaining := utils.ClampZero(g.first.Amount.Sub(g.totalReturned))
		summaries = append(summaries, &domain.LoanSummary{
			LoanID:         key.ID(),
			ProjectCode:    key.ProjectCode,
			ARCode:         key.ARCode,
			ExpenseCode:    key.ExpenseCode,
			BorrowDate:     g.first.BorrowDate,
			Amount:         g.first.Amount,
			DueDate:        g.first.DueDate,
			TotalReturned:  g.totalReturned,
			LastReturnDate: g.lastReturnDate,
			Remaining:      remaining,
			Status:         DeriveStatus(remaining, g.first.DueDate, today),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return lessSummary(summaries[i], summaries[j])
	})
	return summaries
}

// DeriveStatus classifies a loan from its remaining balance and due date.
// A loan due exactly today is neither early nor late and reports unknown.
func DeriveStatus(remaining decimal.Decimal, dueDate *time.Time, today time.Time) string {
	if remaining.IsZero() {
		return domain.LoanStatusClosed
	}
	if dueDate == nil {
		return domain.LoanStatusUnknown
	}

	due := utils.DateOnly(*dueDate)
	today = utils.DateOnly(today)
	switch {
	case due.After(today):
		return domain.LoanStatusNotYetReturned
	case due.Before(today):
		return domain.LoanStatusOverdue
	default:
		return domain.LoanStatusUnknown
	}
}

// basisRow picks the row a repayment builds on: the latest return date wins
// and among rows returned on that day the later inserted one. Rows without a
// return date rank lowest; if no row has one, the earliest inserted is used.
func basisRow(rows []*domain.AdvanceRow, key domain.LoanKey) *domain.AdvanceRow {
	var basis *domain.AdvanceRow
	for _, row := range rows {
		if !belongsTo(row, key.ProjectCode) || row.Key() != key {
			continue
		}
		if basis == nil || laterReturn(row.ReturnDate, basis.ReturnDate) ||
			(row.ReturnDate != nil && utils.SameDate(row.ReturnDate, basis.ReturnDate)) {
			basis = row
		}
	}
	return basis
}

// returnedSoFar is the loan's largest cumulative amount returned, the same
// total Summarize reports.
func returnedSoFar(rows []*domain.AdvanceRow, key domain.LoanKey) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if !belongsTo(row, key.ProjectCode) || row.Key() != key {
			continue
		}
		if row.AmountReturned.GreaterThan(total) {
			total = row.AmountReturned
		}
	}
	return total
}

// keyByLoanID finds the identity whose derived ID matches id.
func keyByLoanID(rows []*domain.AdvanceRow, projectCode, id string) (domain.LoanKey, bool) {
	for _, row := range rows {
		if !belongsTo(row, projectCode) {
			continue
		}
		key := row.Key()
		if key.ID().String() == strings.ToLower(strings.TrimSpace(id)) {
			return key, true
		}
	}
	return domain.LoanKey{}, false
}

// groupOutstanding arranges loans that still owe money the way they are
// offered for repayment: under their AR code when the project uses AR codes
// at all, otherwise by expense code only. First-appearance order is kept.
func groupOutstanding(projectCode string, summaries []*domain.LoanSummary) *domain.OutstandingSelection {
	selection := &domain.OutstandingSelection{
		ProjectCode:  projectCode,
		ARCodes:      []*domain.OutstandingARCode{},
		ExpenseCodes: []*domain.OutstandingExpense{},
	}

	for _, s := range summaries {
		if s.ARCode != "" {
			selection.GroupedByARCode = true
			break
		}
	}

	arIndex := make(map[string]*domain.OutstandingARCode)
	expenseIndex := make(map[string]*domain.OutstandingExpense)

	for _, s := range summaries {
		if s.Remaining.IsZero() {
			continue
		}

		if !selection.GroupedByARCode {
			exp, ok := expenseIndex[s.ExpenseCode]
			if !ok {
				exp = &domain.OutstandingExpense{ExpenseCode: s.ExpenseCode}
				expenseIndex[s.ExpenseCode] = exp
				selection.ExpenseCodes = append(selection.ExpenseCodes, exp)
			}
			exp.Loans = append(exp.Loans, s)
			continue
		}

		ar, ok := arIndex[s.ARCode]
		if !ok {
			ar = &domain.OutstandingARCode{ARCode: s.ARCode}
			arIndex[s.ARCode] = ar
			selection.ARCodes = append(selection.ARCodes, ar)
		}
		expKey := s.ARCode + "|" + s.ExpenseCode
		exp, ok := expenseIndex[expKey]
		if !ok {
			exp = &domain.OutstandingExpense{ExpenseCode: s.ExpenseCode}
			expenseIndex[expKey] = exp
			ar.ExpenseCodes = append(ar.ExpenseCodes, exp)
		}
		exp.Loans = append(exp.Loans, s)
	}

	return selection
}

func belongsTo(row *domain.AdvanceRow, projectCode string) bool {
	return strings.TrimSpace(row.ProjectCode) == projectCode && row.Amount.IsPositive()
}

func laterReturn(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

func lessSummary(a, b *domain.LoanSummary) bool {
	if a.ARCode != b.ARCode {
		return a.ARCode < b.ARCode
	}
	if a.ExpenseCode != b.ExpenseCode {
		return a.ExpenseCode < b.ExpenseCode
	}
	if c := compareDates(a.BorrowDate, b.BorrowDate); c != 0 {
		return c < 0
	}
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return c < 0
	}
	return compareDates(a.DueDate, b.DueDate) < 0
}

// compareDates orders unknown dates first.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
