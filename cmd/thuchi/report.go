package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/report"
)

type reportFlags struct {
	start string
	end   string
	csv   string
}

func (f *reportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "first day, YYYY-MM-DD (default: January 1st of this year)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day, YYYY-MM-DD (default: December 31st of this year)")
	cmd.Flags().StringVar(&f.csv, "csv", "", "write the report as CSV into this directory")
}

func (f *reportFlags) rng(now time.Time) (filter.Range, error) {
	rng := filter.YearRange(now)

	if f.start != "" {
		rng.Start = f.start
	}

	if f.end != "" {
		rng.End = f.end
	}

	if err := filter.ValidateRange(rng); err != nil {
		return filter.Range{}, err
	}

	return filter.NormalizeRange(rng), nil
}

func (c *cli) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print and export reports",
	}

	cmd.AddCommand(c.monthlyReportCmd())
	cmd.AddCommand(c.categoryReportCmd())
	cmd.AddCommand(c.ledgerReportCmd())

	return cmd
}

func (c *cli) monthlyReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, expense and net per month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := c.session()

			rng, err := flags.rng(sess.Now())
			if err != nil {
				return err
			}

			points := sess.MonthlyReport(rng)

			if flags.csv != "" {
				return writeCSV(cmd.OutOrStdout(), flags.csv, report.MonthlyFilename(rng.Start, rng.End), func(w io.Writer) error {
					return report.WriteMonthlyCSV(w, points)
				})
			}

			if len(points) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no transactions between %s and %s\n", rng.Start, rng.End)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			defer w.Flush()

			fmt.Fprintln(w, "Tháng\tTổng Thu\tTổng Chi\tLợi Nhuận\t")

			for _, p := range points {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", p.Month, p.Income, p.Expense, p.Net)
			}

			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func (c *cli) categoryReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "category ID",
		Short: "Transactions and daily totals of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := c.session()

			rng, err := flags.rng(sess.Now())
			if err != nil {
				return err
			}

			rep, err := sess.CategoryReport(args[0], rng)
			if err != nil {
				return err
			}

			if flags.csv != "" {
				name := report.CategoryFilename(rep.Category.Name, rep.Range.Start, rep.Range.End)

				return writeCSV(cmd.OutOrStdout(), flags.csv, name, func(w io.Writer) error {
					return report.WriteTransactionsCSV(w, rep.Transactions)
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) %s → %s\n\n", rep.Category.Name, rep.Category.Type, rep.Range.Start, rep.Range.End)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "Ngày\tSố Tiền\t")

			for _, p := range rep.Series {
				fmt.Fprintf(w, "%s\t%s\t\n", p.Date, p.Amount)
			}

			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func (c *cli) ledgerReportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Export every transaction as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := c.session()
			name := report.LedgerFilename(sess.Now().Format(time.DateOnly))

			return writeCSV(cmd.OutOrStdout(), dir, name, func(w io.Writer) error {
				return report.WriteTransactionsCSV(w, sess.Transactions())
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the CSV into")

	return cmd
}

// writeCSV renders into memory first so an empty report leaves no file
// behind, then prints the written path.
func writeCSV(out io.Writer, dir, name string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Fprintln(out, path)

	return nil
}
