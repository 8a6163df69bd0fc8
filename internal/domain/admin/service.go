package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/domain/credit"
	"github.com/renjith-irohub/petronix-api/internal/pkg/email"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// Reminded lets the reminder flow drop an in-app notification next to
// the email.
type Reminded interface {
	PaymentReminderSent(ctx context.Context, customerID uuid.UUID, amount int64, daysOverdue int)
}

// Service runs the back-office operations
type Service struct {
	repo     Repository
	sender   email.Sender
	reminded Reminded
}

// NewService creates admin service
func NewService(repo Repository, sender email.Sender, reminded Reminded) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		reminded: reminded,
	}
}

// ListCustomers pages through registered customers.
func (s *Service) ListCustomers(ctx context.Context, page, limit int) ([]CustomerResponse, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := s.repo.ListCustomers(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]CustomerResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, CustomerResponse{
			CustomerRow:    row,
			ApprovedCredit: money.Rupees(row.ApprovedCredit),
			CreditLimit:    money.Rupees(row.CreditLimit),
		})
	}
	return out, total, nil
}

// CustomerCount returns the registered customer total.
func (s *Service) CustomerCount(ctx context.Context) (int, error) {
	return s.repo.CustomerCount(ctx)
}

// DailyCreditTotals buckets approved credit volume by day over the
// trailing window.
func (s *Service) DailyCreditTotals(ctx context.Context, days int) ([]DailyCreditTotalResponse, error) {
	if days < 1 || days > 365 {
		days = 30
	}

	totals, err := s.repo.DailyCreditTotals(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	out := make([]DailyCreditTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, DailyCreditTotalResponse{
			Day:   t.Day.Format("2006-01-02"),
			Total: money.Rupees(t.Total),
			Count: t.Count,
		})
	}
	return out, nil
}

// SendPaymentReminder emails a customer about their outstanding debt
// and mirrors it as an in-app notification.
func (s *Service) SendPaymentReminder(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	debt, oldest, err := s.repo.OutstandingDebt(ctx, customerID)
	if err != nil {
		return err
	}

	overdueDays := credit.PaybackStatus(oldest, time.Now()).OverdueDays

	body, err := email.RenderPaymentReminder(email.PaymentReminderData{
		Name:        customer.FirstName + " " + customer.LastName,
		Amount:      money.Format(debt),
		DaysOverdue: overdueDays,
	})
	if err != nil {
		return err
	}

	msg := &email.Message{
		To:          customer.Email,
		ToName:      customer.FirstName,
		Subject:     "Fuel credit payment reminder",
		HTMLContent: body,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}

	if s.reminded != nil {
		s.reminded.PaymentReminderSent(ctx, customerID, debt, overdueDays)
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Int64("debt", debt).
		Int("overdue_days", overdueDays).
		Msg("payment reminder sent")

	return nil
}
