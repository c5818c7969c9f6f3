package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// Response is the wire shape of a transaction, shared with the dashboard and
// import handlers.
type Response struct {
	ID                uuid.UUID                 `json:"id"`
	AccountID         uuid.UUID                 `json:"accountId"`
	TransferAccountID *uuid.UUID                `json:"transferAccountId,omitempty"`
	Name              string                    `json:"name"`
	RawDescription    string                    `json:"rawDescription,omitempty"`
	Amount            decimal.Decimal           `json:"amount"`
	Type              transaction.Type          `json:"type"`
	Category          transaction.Category      `json:"category"`
	PaymentMethod     transaction.PaymentMethod `json:"paymentMethod"`
	Date              time.Time                 `json:"date"`
	Status            transaction.Status        `json:"status"`
	ExecutedAt        *time.Time                `json:"executedAt,omitempty"`

	FulfillmentType         transaction.FulfillmentType `json:"fulfillmentType"`
	InstallmentIndex        *int                        `json:"installmentIndex,omitempty"`
	InstallmentCount        *int                        `json:"installmentCount,omitempty"`
	InstallmentValueIsTotal bool                        `json:"installmentValueIsTotal"`
	InstallmentTotal        *decimal.Decimal            `json:"installmentTotal,omitempty"`

	RecurrenceType         transaction.RecurrenceType `json:"recurrenceType"`
	RecurrenceInterval     *int                       `json:"recurrenceInterval,omitempty"`
	RecurrenceEndsAt       *time.Time                 `json:"recurrenceEndsAt,omitempty"`
	RecurrenceSkipWeekdays []int                      `json:"recurrenceSkipWeekdays,omitempty"`

	ParentTransactionID *uuid.UUID `json:"parentTransactionId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:                      tx.ID,
		AccountID:               tx.AccountID,
		TransferAccountID:       tx.TransferAccountID,
		Name:                    tx.Name,
		RawDescription:          tx.RawDescription,
		Amount:                  tx.Amount,
		Type:                    tx.Type,
		Category:                tx.Category,
		PaymentMethod:           tx.PaymentMethod,
		Date:                    tx.Date,
		Status:                  tx.Status,
		ExecutedAt:              tx.ExecutedAt,
		FulfillmentType:         tx.FulfillmentType,
		InstallmentIndex:        tx.InstallmentIndex,
		InstallmentCount:        tx.InstallmentCount,
		InstallmentValueIsTotal: tx.InstallmentValueIsTotal,
		InstallmentTotal:        tx.InstallmentTotal,
		RecurrenceType:          tx.RecurrenceType,
		RecurrenceInterval:      tx.RecurrenceInterval,
		RecurrenceEndsAt:        tx.RecurrenceEndsAt,
		ParentTransactionID:     tx.ParentTransactionID,
		CreatedAt:               tx.CreatedAt,
		UpdatedAt:               tx.UpdatedAt,
	}

	for _, d := range tx.RecurrenceSkipWeekdays {
		resp.RecurrenceSkipWeekdays = append(resp.RecurrenceSkipWeekdays, int(d))
	}

	return resp
}

func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
