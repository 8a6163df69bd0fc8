package credit

import (
	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// ValidateRequest decides whether a requested credit amount (rupees) is
// admissible for the account before it is persisted. It returns the
// normalized paise amount.
func ValidateRequest(amount float64, acc *customer.CreditAccount) (int64, error) {
	if !money.IsPositive(amount) {
		return 0, ErrInvalidAmount
	}

	paise := money.ToPaise(amount)
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}

	if paise > acc.AvailableHeadroom() {
		return 0, ErrLimitExceeded
	}

	return paise, nil
}
