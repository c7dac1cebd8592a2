package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

type transactionResponse struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Type         category.Type   `json:"type"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Date         string          `json:"date"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		Description:  tx.Description,
		Amount:       tx.Amount,
		Type:         tx.Type,
		CategoryID:   tx.Category.ID,
		CategoryName: tx.Category.Name,
		Date:         tx.Date,
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
