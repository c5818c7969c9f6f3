package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxOccurrences caps the children generated for one recurring root.
const MaxOccurrences = 120

type stepFunc func(t time.Time, interval int) time.Time

var recurrenceSteps = map[RecurrenceType]stepFunc{
	RecurrenceDaily: func(t time.Time, _ int) time.Time {
		return t.AddDate(0, 0, 1)
	},
	RecurrenceWeekly: func(t time.Time, _ int) time.Time {
		return t.AddDate(0, 0, 7)
	},
	RecurrenceMonthly: func(t time.Time, _ int) time.Time {
		return t.AddDate(0, 1, 0)
	},
	RecurrenceYearly: func(t time.Time, _ int) time.Time {
		return t.AddDate(1, 0, 0)
	},
	RecurrenceCustom: func(t time.Time, interval int) time.Time {
		return t.AddDate(0, 0, interval)
	},
}

// NextOccurrence returns the date following t for the given recurrence kind.
// Month and year steps use calendar arithmetic, so Jan 31 + 1 month is Mar 2/3.
func NextOccurrence(t time.Time, kind RecurrenceType, interval int) (time.Time, error) {
	step, ok := recurrenceSteps[kind]
	if !ok {
		return time.Time{}, fmt.Errorf("no step for recurrence %q", kind)
	}

	if interval < 1 {
		interval = 1
	}

	return step(t, interval), nil
}

// SplitInstallment divides total into count shares rounded down to cents.
// The rounding remainder goes to the last installment.
func SplitInstallment(total decimal.Decimal, count int) (share, last decimal.Decimal) {
	if count <= 1 {
		return total, total
	}

	n := decimal.NewFromInt(int64(count))
	share = total.Div(n).RoundDown(2)
	last = total.Sub(share.Mul(decimal.NewFromInt(int64(count - 1))))

	return share, last
}

// Expand generates the child rows owned by root. Children are returned in date
// order and carry root's id as their parent. Non-root rows expand to nothing.
func Expand(root *Transaction) []*Transaction {
	if !root.IsRoot() {
		return nil
	}

	switch {
	case root.FulfillmentType == FulfillmentInstallment:
		return expandInstallments(root)
	case root.FulfillmentType == FulfillmentForecast && root.RecurrenceType != RecurrenceNone:
		return expandRecurrence(root)
	}

	return nil
}

func expandInstallments(root *Transaction) []*Transaction {
	if root.InstallmentCount == nil {
		return nil
	}

	base := 1
	if root.InstallmentIndex != nil {
		base = *root.InstallmentIndex
	}

	count := *root.InstallmentCount

	var children []*Transaction

	for k := base + 1; k <= count; k++ {
		child := root.child(root.Date.AddDate(0, k-base, 0))
		child.InstallmentIndex = new(k)

		if root.InstallmentTotal != nil && k == count {
			child.Amount = root.InstallmentTotal.Sub(root.Amount.Mul(decimal.NewFromInt(int64(count - 1))))
		}

		children = append(children, child)
	}

	return children
}

func expandRecurrence(root *Transaction) []*Transaction {
	if root.RecurrenceEndsAt == nil {
		return nil
	}

	interval := 1
	if root.RecurrenceInterval != nil {
		interval = *root.RecurrenceInterval
	}

	var children []*Transaction

	cursor := root.Date

	for len(children) < MaxOccurrences {
		next, err := NextOccurrence(cursor, root.RecurrenceType, interval)
		if err != nil || next.After(*root.RecurrenceEndsAt) {
			break
		}

		cursor = next

		child := root.child(cursor)
		child.RecurrenceType = RecurrenceNone
		child.RecurrenceInterval = nil
		child.RecurrenceEndsAt = nil
		child.RecurrenceSkipWeekdays = []time.Weekday{}

		children = append(children, child)
	}

	return children
}

// child copies the series attributes of root onto a new pending row.
func (t *Transaction) child(date time.Time) *Transaction {
	c := *t

	c.ID = uuid.New()
	c.ParentTransactionID = new(t.ID)
	c.Date = date
	c.Status = StatusPending
	c.ExecutedAt = nil
	c.CreatedAt = time.Time{}
	c.UpdatedAt = nil

	if t.InstallmentIndex != nil {
		c.InstallmentIndex = new(*t.InstallmentIndex)
	}

	if t.InstallmentCount != nil {
		c.InstallmentCount = new(*t.InstallmentCount)
	}

	c.RecurrenceSkipWeekdays = append([]time.Weekday(nil), t.RecurrenceSkipWeekdays...)

	return &c
}
