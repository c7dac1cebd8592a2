package view

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

// txDraft holds the form bindings for adding or editing a transaction. It
// lives behind a pointer so the bindings survive model copies.
type txDraft struct {
	ID          string
	Type        string
	CategoryID  string
	Description string
	Amount      string
	Date        string
}

func newTxDraft(today string) *txDraft {
	return &txDraft{Type: string(category.TypeExpense), Date: today}
}

func draftFrom(tx transaction.Transaction) *txDraft {
	return &txDraft{
		ID:          tx.ID,
		Type:        string(tx.Type),
		CategoryID:  tx.Category.ID,
		Description: tx.Description,
		Amount:      strings.ReplaceAll(tx.Amount.String(), ".", ","),
		Date:        tx.Date,
	}
}

func (d *txDraft) editing() bool {
	return d.ID != ""
}

func (d *txDraft) input() (session.TransactionInput, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return session.TransactionInput{}, err
	}

	return session.TransactionInput{
		Description: d.Description,
		Amount:      amount,
		Type:        category.Type(d.Type),
		CategoryID:  d.CategoryID,
		Date:        strings.TrimSpace(d.Date),
	}, nil
}

// parseAmount reads a Vietnamese-formatted amount: "." groups thousands
// and "," separates decimals, e.g. "1.250.000" or "99,5".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}

	if !amount.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}

	return amount, nil
}

// newTxForm builds the add/edit form. The type of an existing transaction
// cannot change, so the type selector only appears when adding.
func newTxForm(sess *session.Session, d *txDraft) *huh.Form {
	var fields []huh.Field

	if !d.editing() {
		fields = append(fields,
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Chi (expense)", string(category.TypeExpense)),
					huh.NewOption("Thu (income)", string(category.TypeIncome)),
				).
				Value(&d.Type),
		)
	}

	fields = append(fields,
		huh.NewSelect[string]().
			Key("category").
			Title("Category").
			OptionsFunc(func() []huh.Option[string] {
				cats := sess.Categories(category.Type(d.Type))

				opts := make([]huh.Option[string], len(cats))
				for i, c := range cats {
					opts[i] = huh.NewOption(c.Name, c.ID)
				}

				return opts
			}, &d.Type).
			Value(&d.CategoryID).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("create a category of this type first")
				}

				return nil
			}),

		huh.NewInput().
			Key("description").
			Title("Description").
			Value(&d.Description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("description cannot be empty")
				}

				return nil
			}),

		huh.NewInput().
			Key("amount").
			Title("Amount (₫)").
			Placeholder("500.000").
			Value(&d.Amount).
			Validate(func(s string) error {
				_, err := parseAmount(s)
				return err
			}),

		huh.NewInput().
			Key("date").
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&d.Date).
			Validate(func(s string) error {
				if !transaction.ValidDate(strings.TrimSpace(s)) {
					return errors.New("date must be YYYY-MM-DD")
				}

				return nil
			}),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
}
