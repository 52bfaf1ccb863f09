package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAdvancesCmd(opts *options) *cobra.Command {
	advances := &cobra.Command{
		Use:   "advances",
		Short: "Advance payment ledger",
	}
	advances.AddCommand(newSummaryCmd(opts))
	advances.AddCommand(newOutstandingCmd(opts))
	advances.AddCommand(newRepayCmd(opts))
	advances.AddCommand(newSweepCmd(opts))
	return advances
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <project-code>",
		Short: "Show the reconciled state of every loan in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := opts.app.Advances.Summarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(stdout(cmd), summaries)
			}
			return printSummaries(stdout(cmd), summaries)
		},
	}
}

func newOutstandingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding <project-code>",
		Short: "Show loans that still owe money",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := opts.app.Advances.Outstanding(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(stdout(cmd), selection)
			}

			var loans []*domain.LoanSummary
			for _, group := range selection.ARCodes {
				for _, expense := range group.ExpenseCodes {
					loans = append(loans, expense.Loans...)
				}
			}
			for _, expense := range selection.ExpenseCodes {
				loans = append(loans, expense.Loans...)
			}
			return printSummaries(stdout(cmd), loans)
		},
	}
}

func newRepayCmd(opts *options) *cobra.Command {
	var (
		loanID      string
		arCode      string
		expenseCode string
		borrowDate  string
		loanAmount  string
		dueDate     string
		returnDate  string
		amount      string
	)

	repay := &cobra.Command{
		Use:   "repay <project-code>",
		Short: "Record money returned against a loan",
		Long: `Record money returned against a loan, named either by --loan-id
or by its identity fields.

Example:
  fundctl advances repay E2567_001 --loan-id 5f0c... --amount 400
  fundctl advances repay E2567_001 --expense-code E01 --borrow-date 2024-01-01 \
    --loan-amount 1000 --due-date 2024-03-31 --amount 400 --return-date 2024-02-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &domain.RepaymentRequest{ProjectCode: args[0], LoanID: loanID}

			var err error
			if request.ReturnAmount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			if request.ReturnDate, err = parseDateFlag(returnDate); err != nil {
				return fmt.Errorf("--return-date: %w", err)
			}

			if loanID == "" {
				identity := &domain.LoanIdentity{ARCode: arCode, ExpenseCode: expenseCode}
				if identity.Amount, err = decimal.NewFromString(loanAmount); err != nil {
					return fmt.Errorf("--loan-amount: %w", err)
				}
				if identity.BorrowDate, err = parseDateFlag(borrowDate); err != nil {
					return fmt.Errorf("--borrow-date: %w", err)
				}
				if identity.DueDate, err = parseDateFlag(dueDate); err != nil {
					return fmt.Errorf("--due-date: %w", err)
				}
				request.Identity = identity
			}

			result, err := opts.app.Advances.RecordRepayment(cmd.Context(), request)
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(stdout(cmd), result)
			}
			return printSummaries(stdout(cmd), []*domain.LoanSummary{result.Summary})
		},
	}

	flags := repay.Flags()
	flags.StringVar(&loanID, "loan-id", "", "loan id from the summary")
	flags.StringVar(&arCode, "ar-code", "", "AR code of the loan")
	flags.StringVar(&expenseCode, "expense-code", "", "expense code of the loan")
	flags.StringVar(&borrowDate, "borrow-date", "", "borrow date, YYYY-MM-DD")
	flags.StringVar(&loanAmount, "loan-amount", "0", "amount borrowed")
	flags.StringVar(&dueDate, "due-date", "", "due date, YYYY-MM-DD")
	flags.StringVar(&returnDate, "return-date", "", "date returned, YYYY-MM-DD (default today)")
	flags.StringVar(&amount, "amount", "", "amount returned now")
	_ = repay.MarkFlagRequired("amount")
	repay.MarkFlagsMutuallyExclusive("loan-id", "expense-code")
	repay.MarkFlagsOneRequired("loan-id", "expense-code")

	return repay
}

func newSweepCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Recompute every project and list overdue loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := opts.app.Advances.SweepOverdue(cmd.Context())
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(stdout(cmd), report)
			}
			fmt.Fprintf(stdout(cmd), "as of %s: %d projects, %d overdue\n",
				report.AsOf.Format(utils.DateLayout), report.Projects, len(report.Overdue))
			return printSummaries(stdout(cmd), report.Overdue)
		},
	}
}

func parseDateFlag(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	t, err := time.Parse(utils.DateLayout, s)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.DateOf(t), nil
}

func printSummaries(w io.Writer, summaries []*domain.LoanSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOAN ID\tPROJECT\tAR CODE\tEXPENSE\tBORROWED\tAMOUNT\tDUE\tRETURNED\tREMAINING\tSTATUS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.LoanID, s.ProjectCode, s.ARCode, s.ExpenseCode,
			utils.FormatDate(s.BorrowDate), s.Amount.StringFixed(2), utils.FormatDate(s.DueDate),
			s.TotalReturned.StringFixed(2), s.Remaining.StringFixed(2), s.Status)
	}
	return tw.Flush()
}
