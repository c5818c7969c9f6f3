package transaction

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction. Amounts are always stored positive;
// the sign is derived from the type when aggregating.
type Type string

const (
	TypeDeposit  Type = "DEPOSIT"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

func (t Type) Valid() bool {
	return slices.Contains([]Type{TypeDeposit, TypeExpense, TypeTransfer}, t)
}

type Category string

const (
	CategoryEducation      Category = "EDUCATION"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryFood           Category = "FOOD"
	CategoryHealth         Category = "HEALTH"
	CategoryHousing        Category = "HOUSING"
	CategoryOther          Category = "OTHER"
	CategorySalary         Category = "SALARY"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryUtility        Category = "UTILITY"
	CategoryInvestment     Category = "INVESTMENT"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEducation,
	CategoryEntertainment,
	CategoryFood,
	CategoryHealth,
	CategoryHousing,
	CategorySalary,
	CategoryTransportation,
	CategoryUtility,
	CategoryOther,
	CategoryInvestment,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

type PaymentMethod string

const (
	PaymentPix          PaymentMethod = "PIX"
	PaymentCash         PaymentMethod = "CASH"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentBankSlip     PaymentMethod = "BANK_SLIP"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentOther        PaymentMethod = "OTHER"
)

var PaymentMethods = []PaymentMethod{
	PaymentPix,
	PaymentCash,
	PaymentBankSlip,
	PaymentDebitCard,
	PaymentCreditCard,
	PaymentBankTransfer,
	PaymentOther,
}

func (p PaymentMethod) Valid() bool {
	return slices.Contains(PaymentMethods, p)
}

// Status represents whether a transaction has been realized.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusExecuted Status = "EXECUTED"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusExecuted
}

type FulfillmentType string

const (
	FulfillmentImmediate   FulfillmentType = "IMMEDIATE"
	FulfillmentInstallment FulfillmentType = "INSTALLMENT"
	FulfillmentForecast    FulfillmentType = "FORECAST"
)

func (f FulfillmentType) Valid() bool {
	return slices.Contains([]FulfillmentType{FulfillmentImmediate, FulfillmentInstallment, FulfillmentForecast}, f)
}

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "NONE"
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
	RecurrenceYearly  RecurrenceType = "YEARLY"
	RecurrenceCustom  RecurrenceType = "CUSTOM"
)

// RecurrenceTypes lists every recurrence kind, NONE included.
var RecurrenceTypes = []RecurrenceType{
	RecurrenceNone,
	RecurrenceDaily,
	RecurrenceWeekly,
	RecurrenceMonthly,
	RecurrenceYearly,
	RecurrenceCustom,
}

func (r RecurrenceType) Valid() bool {
	return slices.Contains(RecurrenceTypes, r)
}

// DeleteScope selects how much of a generated series a delete removes.
type DeleteScope string

const (
	DeleteCurrent DeleteScope = "CURRENT"
	DeleteForward DeleteScope = "FORWARD"
	DeleteAll     DeleteScope = "ALL"
)

func (d DeleteScope) Valid() bool {
	return d == DeleteCurrent || d == DeleteForward || d == DeleteAll
}

// Transaction is a ledger row. Rows without a parent are roots; rows with one
// were generated from their root by Expand.
type Transaction struct {
	ID                uuid.UUID
	UserID            string
	AccountID         uuid.UUID
	TransferAccountID *uuid.UUID
	Name              string
	RawDescription    string // bank text for imported rows
	Amount            decimal.Decimal
	Type              Type
	Category          Category
	PaymentMethod     PaymentMethod
	Date              time.Time
	Status            Status
	ExecutedAt        *time.Time

	FulfillmentType         FulfillmentType
	InstallmentIndex        *int
	InstallmentCount        *int
	InstallmentValueIsTotal bool
	InstallmentTotal        *decimal.Decimal

	RecurrenceType         RecurrenceType
	RecurrenceInterval     *int
	RecurrenceEndsAt       *time.Time
	RecurrenceSkipWeekdays []time.Weekday

	ParentTransactionID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

func (t *Transaction) IsRoot() bool {
	return t.ParentTransactionID == nil
}

// SeriesID is the id of the root the transaction belongs to.
func (t *Transaction) SeriesID() uuid.UUID {
	if t.ParentTransactionID != nil {
		return *t.ParentTransactionID
	}

	return t.ID
}

// RealizedAt is the date used for period bucketing: the execution date, or
// the transaction date for legacy rows executed without one.
func (t *Transaction) RealizedAt() time.Time {
	if t.ExecutedAt != nil {
		return *t.ExecutedAt
	}

	return t.Date
}
