/**
 * @description
 * The notifier consumes the internal event stream and performs the best-effort
 * side effects that were deliberately taken off the request path: appending
 * payment ledger rows and emailing the support inbox about new reports and
 * contact-form submissions. Every failure here is logged and the message is
 * acknowledged anyway, since these side effects must never block or retry into
 * the primary flow.
 */
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

// LedgerRepository defines the ledger write the notifier needs.
type LedgerRepository interface {
	InsertPaymentEvent(ctx context.Context, row domain.PaymentEvent) error
}

// Mailer sends notification emails to the support inbox.
type Mailer interface {
	SendSupportEmail(ctx context.Context, subject, body string) error
}

// Notifier processes internal events.
type Notifier struct {
	ledger LedgerRepository
	mailer Mailer
}

// NewNotifier creates a new notifier.
func NewNotifier(ledger LedgerRepository, mailer Mailer) *Notifier {
	return &Notifier{ledger: ledger, mailer: mailer}
}

// HandleEvent processes one event by routing key. It always returns true
// (acknowledge): these are best-effort side effects and redelivery loops help
// nobody.
func (n *Notifier) HandleEvent(routingKey string, body []byte) bool {
	ctx := context.Background()

	switch routingKey {
	case domain.RoutingKeyPaymentRecorded:
		var ev domain.PaymentRecordedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			log.Printf("level=warn component=notifier msg=\"bad payment event payload\" err=%v", err)
			return true
		}
		row := domain.PaymentEvent{
			DealID:          ev.DealID,
			FeeType:         ev.FeeType,
			StripeSessionID: ev.StripeSessionID,
			Amount:          ev.Amount,
			Currency:        ev.Currency,
			EventType:       ev.EventType,
		}
		if err := n.ledger.InsertPaymentEvent(ctx, row); err != nil {
			log.Printf("level=warn component=notifier msg=\"payment ledger write failed\" deal_id=%s fee_type=%s err=%v", row.DealID, row.FeeType, err)
		}

	case domain.RoutingKeyReportSubmitted:
		var ev domain.ReportSubmittedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			log.Printf("level=warn component=notifier msg=\"bad report event payload\" err=%v", err)
			return true
		}
		subject, body := formatReportEmail(ev)
		if err := n.mailer.SendSupportEmail(ctx, subject, body); err != nil {
			log.Printf("level=warn component=notifier msg=\"report email failed\" report_id=%s err=%v", ev.ReportID, err)
		}

	case domain.RoutingKeySupportRequest:
		var ev domain.SupportRequestedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			log.Printf("level=warn component=notifier msg=\"bad support event payload\" err=%v", err)
			return true
		}
		subject := fmt.Sprintf("New support request from %s (%s)", ev.Name, ev.Role)
		body := fmt.Sprintf("From: %s <%s>\nRole: %s\n\n%s", ev.Name, ev.Email, ev.Role, ev.Message)
		if err := n.mailer.SendSupportEmail(ctx, subject, body); err != nil {
			log.Printf("level=warn component=notifier msg=\"support email failed\" err=%v", err)
		}

	default:
		log.Printf("level=warn component=notifier msg=\"unhandled event\" routing_key=%s", routingKey)
	}

	return true
}

func formatReportEmail(ev domain.ReportSubmittedEvent) (subject, body string) {
	typeLabel := "Listing"
	if ev.ItemType == "profile" {
		typeLabel = "Profile"
	}
	subject = fmt.Sprintf("New %s Report - %s", typeLabel, ev.Reason)

	details := ev.Details
	if details == "" {
		details = "No additional details provided."
	}
	body = fmt.Sprintf(
		"Type: %s\n%s ID: %s\nReporter ID: %s\nReason: %s\nDetails: %s\n\nThis report requires review.",
		typeLabel, typeLabel, ev.ItemID, ev.ReporterID, ev.Reason, details,
	)
	return subject, body
}
