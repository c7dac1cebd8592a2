package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
)

const opTimeout = 5 * time.Second

var printer = message.NewPrinter(language.Vietnamese)

// FormatAmount renders an amount in dong with Vietnamese digit grouping.
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2))) + " ₫"
}

// FormatType returns the display label of a transaction type.
func FormatType(t category.Type) string {
	switch t {
	case category.TypeIncome:
		return "Thu"
	case category.TypeExpense:
		return "Chi"
	}

	return string(t)
}

// OpCtx returns a context with a standard timeout for ledger operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
