package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

// ErrNoData is returned when an export would contain no rows.
var ErrNoData = errors.New("no data to export")

type monthlyRow struct {
	Month   string `csv:"Tháng"`
	Income  string `csv:"Tổng Thu"`
	Expense string `csv:"Tổng Chi"`
	Net     string `csv:"Lợi Nhuận"`
}

type transactionRow struct {
	Date        string `csv:"Ngày"`
	Description string `csv:"Mô Tả"`
	Amount      string `csv:"Số Tiền"`
	Type        string `csv:"Loại"`
	Category    string `csv:"Danh Mục"`
}

// WriteMonthlyCSV writes the monthly table with CRLF line endings.
func WriteMonthlyCSV(w io.Writer, points []MonthlyPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	rows := make([]monthlyRow, len(points))
	for i, p := range points {
		rows[i] = monthlyRow{
			Month:   p.Month,
			Income:  p.Income.String(),
			Expense: p.Expense.String(),
			Net:     p.Net.String(),
		}
	}

	return writeCSV(w, rows)
}

// WriteTransactionsCSV writes one row per transaction. It backs both the
// category report export and the full ledger export.
func WriteTransactionsCSV(w io.Writer, txs []transaction.Transaction) error {
	if len(txs) == 0 {
		return ErrNoData
	}

	rows := make([]transactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = transactionRow{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Type:        string(tx.Type),
			Category:    tx.Category.Name,
		}
	}

	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows any) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// MonthlyFilename names a monthly report export for the given range.
func MonthlyFilename(start, end string) string {
	return fmt.Sprintf("bao-cao-thang_%s_den_%s.csv", start, end)
}

var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

// CategoryFilename names a category report export. Path separators in the
// category name are replaced so the result stays a single file name.
func CategoryFilename(name, start, end string) string {
	return fmt.Sprintf("bao-cao-danh-muc-%s_%s_den_%s.csv", pathSeparators.Replace(name), start, end)
}

// LedgerFilename names the full transaction export.
func LedgerFilename(date string) string {
	return fmt.Sprintf("so-thu-chi-%s.csv", date)
}
