package credit

import (
	"math"
	"time"
)

// PaymentCycleDays is the fixed payback window for a credit grant.
const PaymentCycleDays = 30

// Debit is a fueling charge as seen by the ledger. Amount is paise.
type Debit struct {
	Amount        int64
	PaymentType   string
	PaymentStatus string
}

// countsAsUsed reports whether the debit consumes credit balance:
// only succeeded charges made against credit do.
func (d Debit) countsAsUsed() bool {
	return d.PaymentType == "credit" && d.PaymentStatus == "succeeded"
}

// Summary is the derived financial state of a customer's credit.
// All amounts are paise. BalanceCredit can be negative: an overdraft
// is surfaced as-is, never clamped.
type Summary struct {
	TotalApprovedCredit int64
	UsedCredit          int64
	BalanceCredit       int64
	PaybackDaysLeft     int
	IsOverdue           bool
}

// PaybackInfo is the payback window state of a single grant.
type PaybackInfo struct {
	DaysLeft    int
	IsOverdue   bool
	OverdueDays int
}

// PaybackStatus computes the payback window state of a grant made at
// createdAt as of now. Elapsed time is truncated to whole days (floor):
// daysLeft = 30 - floor(elapsed/24h). A future createdAt (clock skew)
// yields daysLeft > 30 and is not an error.
func PaybackStatus(createdAt, now time.Time) PaybackInfo {
	daysPassed := int(math.Floor(now.Sub(createdAt).Hours() / 24))
	daysLeft := PaymentCycleDays - daysPassed

	info := PaybackInfo{DaysLeft: daysLeft}
	if daysLeft < 0 {
		info.IsOverdue = true
		info.OverdueDays = -daysLeft
	}
	return info
}

// Summarize derives the credit summary from the full transaction history.
// Summation is order-independent and idempotent. The payback window is
// taken from the oldest outstanding approved grant; with no outstanding
// grant PaybackDaysLeft reports a full cycle.
func Summarize(credits []CreditTransaction, debits []Debit, now time.Time) Summary {
	s := Summary{PaybackDaysLeft: PaymentCycleDays}

	var oldest *CreditTransaction
	for i := range credits {
		t := &credits[i]
		if t.Status != StatusApproved {
			continue
		}
		s.TotalApprovedCredit += t.Amount
		if t.Outstanding() && (oldest == nil || t.CreatedAt.Before(oldest.CreatedAt)) {
			oldest = t
		}
	}

	for _, d := range debits {
		if d.countsAsUsed() {
			s.UsedCredit += d.Amount
		}
	}

	s.BalanceCredit = s.TotalApprovedCredit - s.UsedCredit

	if oldest != nil {
		info := PaybackStatus(grantTime(oldest), now)
		s.PaybackDaysLeft = info.DaysLeft
		s.IsOverdue = info.IsOverdue
	}

	return s
}

// grantTime returns the moment the payback cycle starts for a grant:
// the approval time when recorded, otherwise the request time.
func grantTime(t *CreditTransaction) time.Time {
	if t.ApprovedAt.Valid {
		return t.ApprovedAt.Time
	}
	return t.CreatedAt
}
