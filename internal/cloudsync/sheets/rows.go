package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

var (
	transactionHeader = []any{"ID", "Ngày", "Loại", "Mã danh mục", "Danh mục", "Mô tả", "Số tiền"}
	categoryHeader    = []any{"ID", "Loại", "Tên"}
)

func transactionRows(txs []transaction.Transaction) [][]any {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, transactionHeader)

	for _, tx := range txs {
		rows = append(rows, []any{
			tx.ID,
			tx.Date,
			string(tx.Type),
			tx.Category.ID,
			tx.Category.Name,
			tx.Description,
			tx.Amount.String(),
		})
	}

	return rows
}

func categoryRows(income, expense []category.Category) [][]any {
	rows := make([][]any, 0, len(income)+len(expense)+1)
	rows = append(rows, categoryHeader)

	for _, c := range append(append([]category.Category{}, income...), expense...) {
		rows = append(rows, []any{c.ID, string(c.Type), c.Name})
	}

	return rows
}

// decodeRows rebuilds a document from sheet values without their header
// rows.
func decodeRows(txValues, catValues [][]any) (backup.Document, error) {
	txs := make([]transaction.Transaction, 0, len(txValues))

	for i, row := range txValues {
		if len(row) < len(transactionHeader) {
			return backup.Document{}, malformed(backup.FieldTransactions, i, "missing columns")
		}

		cells := cellStrings(row)

		amount, err := decimal.NewFromString(cells[6])
		if err != nil {
			return backup.Document{}, malformed(backup.FieldTransactions, i, "amount is not a number")
		}

		typ := category.Type(cells[2])

		txs = append(txs, transaction.Transaction{
			ID:          cells[0],
			Date:        cells[1],
			Type:        typ,
			Category:    category.Category{ID: cells[3], Name: cells[4], Type: typ},
			Description: cells[5],
			Amount:      amount,
		})
	}

	var income, expense []category.Category

	for i, row := range catValues {
		if len(row) < len(categoryHeader) {
			return backup.Document{}, malformed("categories", i, "missing columns")
		}

		cells := cellStrings(row)
		c := category.Category{ID: cells[0], Type: category.Type(cells[1]), Name: cells[2]}

		switch c.Type {
		case category.TypeIncome:
			income = append(income, c)
		case category.TypeExpense:
			expense = append(expense, c)
		default:
			return backup.Document{}, malformed("categories", i, "unknown category type")
		}
	}

	return backup.Serialize(txs, income, expense), nil
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}

	return out
}

func malformed(field string, row int, reason string) error {
	// Row numbers are 1-based and skip the header.
	return &apperr.MalformedBackupError{Field: field, Reason: fmt.Sprintf("row %d: %s", row+2, reason)}
}
