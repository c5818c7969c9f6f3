package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

// MaxInstallments bounds the number of installments in a single purchase.
const MaxInstallments = 120

// MaxAmount is the first value that no longer fits NUMERIC(14,2).
var MaxAmount = decimal.New(1, 12)

// CheckAmount reports whether d can be stored as a transaction amount:
// positive, whole cents, below MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return apperror.Invalid(field, "must be greater than zero")
	case !d.Equal(d.Round(2)):
		return apperror.Invalid(field, "must have at most two decimal places")
	case d.GreaterThanOrEqual(MaxAmount):
		return apperror.Invalid(field, "must be less than %s", MaxAmount.String())
	}

	return nil
}

// UpsertParams carries a create (ID nil) or update (ID set) request.
type UpsertParams struct {
	ID                *uuid.UUID
	Name              string
	Amount            decimal.Decimal
	Type              Type
	Category          Category
	PaymentMethod     PaymentMethod
	Date              time.Time
	AccountID         uuid.UUID
	TransferAccountID *uuid.UUID
	Status            Status

	FulfillmentType         FulfillmentType
	InstallmentIndex        *int
	InstallmentCount        *int
	InstallmentValueIsTotal bool

	RecurrenceType         RecurrenceType
	RecurrenceInterval     *int
	RecurrenceEndsAt       *time.Time
	RecurrenceSkipWeekdays []time.Weekday
}

func (p *UpsertParams) applyDefaults() {
	p.Name = strings.TrimSpace(p.Name)

	if p.FulfillmentType == "" {
		p.FulfillmentType = FulfillmentImmediate
	}

	if p.RecurrenceType == "" {
		p.RecurrenceType = RecurrenceNone
	}

	if p.FulfillmentType == FulfillmentInstallment && p.InstallmentIndex == nil {
		p.InstallmentIndex = new(1)
	}
}

func (p *UpsertParams) validate() error {
	switch {
	case p.Name == "":
		return apperror.Invalid("name", "is required")
	case !p.Type.Valid():
		return apperror.Invalid("type", "unknown type %q", p.Type)
	case !p.Category.Valid():
		return apperror.Invalid("category", "unknown category %q", p.Category)
	case !p.PaymentMethod.Valid():
		return apperror.Invalid("paymentMethod", "unknown payment method %q", p.PaymentMethod)
	case !p.Status.Valid():
		return apperror.Invalid("status", "unknown status %q", p.Status)
	case !p.FulfillmentType.Valid():
		return apperror.Invalid("fulfillmentType", "unknown fulfillment type %q", p.FulfillmentType)
	case !p.RecurrenceType.Valid():
		return apperror.Invalid("recurrenceType", "unknown recurrence type %q", p.RecurrenceType)
	case p.Date.IsZero():
		return apperror.Invalid("date", "is required")
	case p.AccountID == uuid.Nil:
		return apperror.Invalid("accountId", "is required")
	}

	if err := CheckAmount("amount", p.Amount); err != nil {
		return err
	}

	if p.Type == TypeTransfer {
		if p.TransferAccountID == nil || *p.TransferAccountID == uuid.Nil {
			return apperror.Invalid("transferAccountId", "is required for transfers")
		}

		if *p.TransferAccountID == p.AccountID {
			return apperror.Invalid("transferAccountId", "must differ from accountId")
		}
	}

	if p.FulfillmentType == FulfillmentInstallment {
		if err := p.validateInstallments(); err != nil {
			return err
		}
	}

	if p.FulfillmentType == FulfillmentForecast {
		return p.validateRecurrence()
	}

	return nil
}

// validateRecurrence checks the schedule of a forecast. Other fulfillment
// types drop these fields in build.
func (p *UpsertParams) validateRecurrence() error {
	if p.RecurrenceType == RecurrenceCustom && p.RecurrenceInterval == nil {
		return apperror.Invalid("recurrenceInterval", "is required for custom recurrence")
	}

	if p.RecurrenceInterval != nil && *p.RecurrenceInterval < 1 {
		return apperror.Invalid("recurrenceInterval", "must be at least 1")
	}

	if p.RecurrenceEndsAt != nil && !p.RecurrenceEndsAt.After(p.Date) {
		return apperror.Invalid("recurrenceEndsAt", "must be after date")
	}

	seen := make(map[time.Weekday]bool, len(p.RecurrenceSkipWeekdays))
	for _, d := range p.RecurrenceSkipWeekdays {
		if d < time.Sunday || d > time.Saturday {
			return apperror.Invalid("recurrenceSkipWeekdays", "weekday %d out of range", d)
		}

		if seen[d] {
			return apperror.Invalid("recurrenceSkipWeekdays", "duplicate weekday %d", d)
		}

		seen[d] = true
	}

	if len(seen) == 7 {
		return apperror.Invalid("recurrenceSkipWeekdays", "cannot skip every weekday")
	}

	return nil
}

func (p *UpsertParams) validateInstallments() error {
	if p.InstallmentCount == nil {
		return apperror.Invalid("installmentCount", "is required for installments")
	}

	count, index := *p.InstallmentCount, *p.InstallmentIndex

	if count < 1 || count > MaxInstallments {
		return apperror.Invalid("installmentCount", "must be between 1 and %d", MaxInstallments)
	}

	if index < 1 || index > count {
		return apperror.Invalid("installmentIndex", "must be between 1 and %d", count)
	}

	if p.InstallmentValueIsTotal {
		share, _ := SplitInstallment(p.Amount, count)
		if !share.IsPositive() {
			return apperror.Invalid("amount", "too small to split into %d installments", count)
		}
	}

	return nil
}

// build validates the params and turns them into the row that will be stored.
func (p UpsertParams) build(userID string) (*Transaction, error) {
	p.applyDefaults()

	if err := p.validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:                 userID,
		AccountID:              p.AccountID,
		Name:                   p.Name,
		Amount:                 p.Amount,
		Type:                   p.Type,
		Category:               p.Category,
		PaymentMethod:          p.PaymentMethod,
		Date:                   p.Date,
		Status:                 p.Status,
		FulfillmentType:        p.FulfillmentType,
		RecurrenceType:         RecurrenceNone,
		RecurrenceSkipWeekdays: []time.Weekday{},
	}

	if p.Type == TypeTransfer {
		tx.TransferAccountID = p.TransferAccountID
	}

	if p.Status == StatusExecuted {
		tx.ExecutedAt = new(p.Date)
	}

	switch p.FulfillmentType {
	case FulfillmentInstallment:
		tx.InstallmentIndex = p.InstallmentIndex
		tx.InstallmentCount = p.InstallmentCount
		tx.InstallmentValueIsTotal = p.InstallmentValueIsTotal

		if p.InstallmentValueIsTotal {
			share, last := SplitInstallment(p.Amount, *p.InstallmentCount)

			tx.InstallmentTotal = new(p.Amount)
			tx.Amount = share

			if *p.InstallmentIndex == *p.InstallmentCount {
				tx.Amount = last
			}
		}
	case FulfillmentForecast:
		tx.RecurrenceType = p.RecurrenceType
		if p.RecurrenceType == RecurrenceNone {
			break
		}

		tx.RecurrenceEndsAt = p.RecurrenceEndsAt

		if p.RecurrenceType == RecurrenceCustom {
			tx.RecurrenceInterval = p.RecurrenceInterval
		}

		if p.RecurrenceType == RecurrenceDaily && len(p.RecurrenceSkipWeekdays) > 0 {
			tx.RecurrenceSkipWeekdays = p.RecurrenceSkipWeekdays
		}
	}

	return tx, nil
}
