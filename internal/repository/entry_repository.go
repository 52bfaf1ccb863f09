package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/google/uuid"
)

// readOrEmpty treats a table that has never been written as empty.
func readOrEmpty(book *Workbook) (*Table, error) {
	table, err := book.Read()
	if errors.Is(err, ErrTableNotFound) {
		return &Table{}, nil
	}
	return table, err
}

func enteredAtOf(rec Record) time.Time {
	if t := lenientDate(rec.Get(colEnteredAt)); t != nil {
		return *t
	}
	return time.Time{}
}

func intOf(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// numbers written by spreadsheets come back as "3.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func batchOf(rec Record) uuid.UUID {
	id, err := uuid.Parse(rec.Get(colBatchID))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func batchString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

type incomeFileRepository struct {
	book *Workbook
}

func NewIncomeFileRepository(book *Workbook) IncomeRepository {
	return &incomeFileRepository{book: book}
}

func (r *incomeFileRepository) List(ctx context.Context) ([]*domain.IncomeRecord, error) {
	table, err := readOrEmpty(r.book)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.IncomeRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		records = append(records, &domain.IncomeRecord{
			BatchID:        batchOf(rec),
			EnteredAt:      enteredAtOf(rec),
			FiscalYear:     rec.Get(colFiscalYear),
			ProjectCode:    rec.Get(colProjectCode),
			FundType:       rec.Get(colFundType),
			FundSource:     rec.Get(colFundSource),
			ContractDate:   lenientDate(rec.Get(colContractDate)),
			DurationMonths: intOf(rec.Get(colDuration)),
			ContractCode:   rec.Get(colContractCode),
			Period:         intOf(rec.Get(colPeriod)),
			ARCode:         rec.Get(colARCode),
			ExpenseCode:    rec.Get(colExpenseCode),
			Category:       rec.Get(colCategory),
			Item:           rec.Get(colItem),
			CostType:       rec.Get(colCostType),
			Amount:         utils.AmountOrZero(rec.Get(colAmount)),
		})
	}
	return records, nil
}

func (r *incomeFileRepository) Append(ctx context.Context, rows ...*domain.IncomeRecord) error {
	if len(rows) == 0 {
		return nil
	}
	encoded := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		encoded = append(encoded, []interface{}{
			row.EnteredAt.Format(utils.TimestampLayout),
			batchString(row.BatchID),
			row.FiscalYear,
			row.ProjectCode,
			row.FundType,
			row.FundSource,
			utils.FormatDate(row.ContractDate),
			row.DurationMonths,
			row.ContractCode,
			row.Period,
			row.ARCode,
			row.ExpenseCode,
			row.Category,
			row.Item,
			row.CostType,
			row.Amount.InexactFloat64(),
		})
	}
	return r.book.Update(func(current *Table) (*Sheet, error) {
		return AppendSheet(current, incomeHeader, encoded), nil
	})
}

type expenditureFileRepository struct {
	book *Workbook
}

func NewExpenditureFileRepository(book *Workbook) ExpenditureRepository {
	return &expenditureFileRepository{book: book}
}

func (r *expenditureFileRepository) List(ctx context.Context) ([]*domain.ExpenditureRecord, error) {
	table, err := readOrEmpty(r.book)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.ExpenditureRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		records = append(records, &domain.ExpenditureRecord{
			BatchID:      batchOf(rec),
			EnteredAt:    enteredAtOf(rec),
			ProjectCode:  rec.Get(colProjectCode),
			FundType:     rec.Get(colFundType),
			PaymentType:  rec.Get(colPaymentType),
			DisbursedAt:  lenientDate(rec.Get(colDisbursedAt)),
			ActivityCode: rec.Get(colActivityCode),
			Period:       intOf(rec.Get(colPeriod)),
			ARCode:       rec.Get(colARCode),
			ExpenseCode:  rec.Get(colExpenseCode),
			Category:     rec.Get(colCategory),
			Item:         rec.Get(colItem),
			CostType:     rec.Get(colCostType),
			Amount:       utils.AmountOrZero(rec.Get(colAmount)),
		})
	}
	return records, nil
}

func (r *expenditureFileRepository) Append(ctx context.Context, rows ...*domain.ExpenditureRecord) error {
	if len(rows) == 0 {
		return nil
	}
	encoded := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		encoded = append(encoded, []interface{}{
			row.EnteredAt.Format(utils.TimestampLayout),
			batchString(row.BatchID),
			row.ProjectCode,
			row.FundType,
			row.PaymentType,
			utils.FormatDate(row.DisbursedAt),
			row.ActivityCode,
			row.Period,
			row.ARCode,
			row.ExpenseCode,
			row.Category,
			row.Item,
			row.CostType,
			row.Amount.InexactFloat64(),
		})
	}
	return r.book.Update(func(current *Table) (*Sheet, error) {
		return AppendSheet(current, expenditureHeader, encoded), nil
	})
}

type arCodeFileRepository struct {
	book *Workbook
}

func NewARCodeFileRepository(book *Workbook) ARCodeRepository {
	return &arCodeFileRepository{book: book}
}

func (r *arCodeFileRepository) List(ctx context.Context) ([]*domain.ARCodeAssignment, error) {
	table, err := readOrEmpty(r.book)
	if err != nil {
		return nil, err
	}

	assignments := make([]*domain.ARCodeAssignment, 0, len(table.Records))
	for _, rec := range table.Records {
		assignments = append(assignments, &domain.ARCodeAssignment{
			ProjectCode: rec.Get(colProjectCode),
			ARCode:      rec.Get(colARCode),
			ExpenseCode: rec.Get(colExpenseCode),
		})
	}
	return assignments, nil
}

func (r *arCodeFileRepository) Append(ctx context.Context, rows ...*domain.ARCodeAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	encoded := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		encoded = append(encoded, []interface{}{row.ProjectCode, row.ARCode, row.ExpenseCode})
	}
	return r.book.Update(func(current *Table) (*Sheet, error) {
		return AppendSheet(current, arCodeHeader, encoded), nil
	})
}
