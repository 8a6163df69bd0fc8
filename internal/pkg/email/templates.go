package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// PaymentReminderData fills the payment reminder template
type PaymentReminderData struct {
	Name        string
	Amount      string
	DaysOverdue int
}

var paymentReminderTmpl = template.Must(template.New("payment_reminder").Parse(`
<p>Dear {{.Name}},</p>
<p>This is a reminder that your fuel credit repayment of <strong>&#8377;{{.Amount}}</strong> is due.
{{if gt .DaysOverdue 0}}Your repayment is <strong>{{.DaysOverdue}} day(s) overdue</strong>. Please pay as soon as possible to avoid account suspension.{{else}}Please pay within your payback cycle to keep your credit line active.{{end}}</p>
<p>Thank you,<br>Petronix</p>
`))

// RenderPaymentReminder renders the payment reminder email body
func RenderPaymentReminder(data PaymentReminderData) (string, error) {
	var buf bytes.Buffer
	if err := paymentReminderTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render payment reminder: %w", err)
	}
	return buf.String(), nil
}
