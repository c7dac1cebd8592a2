// Package sheets mirrors the ledger into a Google Sheets spreadsheet, one
// tab for transactions and one for categories.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
)

var _ cloudsync.Remote = (*Remote)(nil)

type Config struct {
	SpreadsheetID     string
	CredentialsJSON   []byte
	TransactionsSheet string
	CategoriesSheet   string
}

type Remote struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	categoriesSheet   string
}

// New builds a client from service account credentials. Extra options are
// appended after the credentials, which lets tests point at a fake endpoint.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Remote, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}

	if cfg.CategoriesSheet == "" {
		cfg.CategoriesSheet = "Categories"
	}

	if len(cfg.CredentialsJSON) > 0 {
		opts = append([]goption.ClientOption{goption.WithCredentialsJSON(cfg.CredentialsJSON)}, opts...)
	}

	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Remote{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: cfg.TransactionsSheet,
		categoriesSheet:   cfg.CategoriesSheet,
	}, nil
}

func (r *Remote) Push(ctx context.Context, doc backup.Document) error {
	clearReq := &gsheet.BatchClearValuesRequest{
		Ranges: []string{r.transactionsSheet, r.categoriesSheet},
	}

	if _, err := r.svc.Spreadsheets.Values.BatchClear(r.spreadsheetID, clearReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	update := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data: []*gsheet.ValueRange{
			{Range: r.transactionsSheet + "!A1", Values: transactionRows(doc.Transactions)},
			{Range: r.categoriesSheet + "!A1", Values: categoryRows(doc.IncomeCategories, doc.ExpenseCategories)},
		},
	}

	if _, err := r.svc.Spreadsheets.Values.BatchUpdate(r.spreadsheetID, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	slog.InfoContext(ctx, "pushed ledger to sheets",
		"spreadsheet", r.spreadsheetID,
		"transactions", len(doc.Transactions))

	return nil
}

func (r *Remote) Pull(ctx context.Context) (backup.Document, error) {
	resp, err := r.svc.Spreadsheets.Values.BatchGet(r.spreadsheetID).
		Ranges(r.transactionsSheet+"!A2:G", r.categoriesSheet+"!A2:C").
		Context(ctx).
		Do()
	if err != nil {
		return backup.Document{}, fmt.Errorf("reading sheets: %w", err)
	}

	if len(resp.ValueRanges) != 2 {
		return backup.Document{}, fmt.Errorf("reading sheets: expected 2 ranges, got %d", len(resp.ValueRanges))
	}

	return decodeRows(resp.ValueRanges[0].Values, resp.ValueRanges[1].Values)
}
