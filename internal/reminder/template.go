package reminder

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"

	"github.com/annamworks/caterbook/internal/domain"
)

const dateLayout = "02/01/2006"

var reminderTmpl = template.Must(template.New("reminder").Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h1>Catering Event Reminder</h1>
      <p style="font-weight: bold;">{{.Headline}}</p>

      <h2>Event Details</h2>
      <div style="background: #f0f4ff; padding: 20px; border-left: 4px solid #667eea;">
        <p><strong>Event Type:</strong> {{.Event.EventType}}</p>
        <p><strong>Date:</strong> {{.Date}}</p>
        <p><strong>Time:</strong> {{.Event.EventTime}}</p>
        <p><strong>Client:</strong> {{.Event.ClientName}}</p>
        <p><strong>Phone:</strong> {{.Event.PhoneNumber}}</p>
        <p><strong>Location:</strong> {{.Event.Location}}</p>
        {{if .Event.Notes}}<p><strong>Notes:</strong> {{.Event.Notes}}</p>{{end}}
      </div>

      <h2>Payment Summary</h2>
      <div style="background: #f0f4ff; padding: 20px; border-left: 4px solid #667eea;">
        <p><strong>Total Amount:</strong> Rs. {{printf "%.2f" .Event.TotalAmount}}</p>
        <p><strong>Advance Paid:</strong> Rs. {{printf "%.2f" .Event.AdvancePaid}}</p>
        <p><strong>Balance Due:</strong> Rs. {{printf "%.2f" .Event.BalanceAmount}}</p>
      </div>

      {{if gt .Event.BalanceAmount 0.0}}
      <div style="background: #fff3cd; padding: 15px; margin: 20px 0; color: #856404;">
        <strong>Payment Reminder:</strong> Balance amount of Rs. {{printf "%.2f" .Event.BalanceAmount}} is pending. Please collect before the event.
      </div>
      {{end}}

      <p style="color: #999; font-size: 12px;">This is an automated reminder from the catering management system.</p>
    </div>
  </body>
</html>`))

var advancePendingTmpl = template.Must(template.New("advance").Parse(`<html>
  <body style="font-family: Arial, sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2>Payment Reminder</h2>
      <div style="background: #fff3cd; padding: 20px; border-left: 4px solid #ff9800;">
        <p><strong>{{.Event.ClientName}}</strong> has an outstanding balance:</p>
        <p style="font-size: 24px; font-weight: bold;">Rs. {{printf "%.2f" .Event.BalanceAmount}}</p>
        <p>Event: {{.Event.EventType}} on {{.Date}}</p>
        <p>Contact: {{.Event.PhoneNumber}}</p>
      </div>
    </div>
  </body>
</html>`))

func headline(daysUntil int) string {
	switch daysUntil {
	case 0:
		return "Your event is TODAY!"
	case 1:
		return "Your event is TOMORROW!"
	default:
		return fmt.Sprintf("Your event is in %d days", daysUntil)
	}
}

// renderReminder builds the reminder subject and body for an event.
func renderReminder(event *domain.Event, daysUntil int) (subject, body string, err error) {
	subject = fmt.Sprintf("Catering Reminder: %s on %s - %dd left",
		event.EventType, event.EventDate.Format(dateLayout), daysUntil)

	var buf bytes.Buffer
	err = reminderTmpl.Execute(&buf, map[string]interface{}{
		"Event":    event,
		"Date":     event.EventDate.Format(dateLayout),
		"Headline": headline(daysUntil),
	})
	if err != nil {
		return "", "", errors.Wrap(err, "render reminder")
	}
	return subject, buf.String(), nil
}

// renderAdvancePending builds the outstanding-balance notice.
func renderAdvancePending(event *domain.Event) (subject, body string, err error) {
	subject = fmt.Sprintf("Payment Pending: %s - Rs. %.2f", event.ClientName, event.BalanceAmount)

	var buf bytes.Buffer
	err = advancePendingTmpl.Execute(&buf, map[string]interface{}{
		"Event": event,
		"Date":  event.EventDate.Format(dateLayout),
	})
	if err != nil {
		return "", "", errors.Wrap(err, "render advance pending")
	}
	return subject, buf.String(), nil
}
