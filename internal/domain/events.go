/**
 * @description
 * Internal event payloads published to RabbitMQ. Best-effort side effects
 * (payment ledger writes, notification emails) are decoupled from the request
 * path by publishing these events and processing them in the notifier consumer.
 */
package domain

// Exchange and routing keys for internal events.
const (
	EventsExchange = "migrent_events"

	RoutingKeyPaymentRecorded = "payment.recorded"
	RoutingKeyReportSubmitted = "report.submitted"
	RoutingKeySupportRequest  = "support.requested"
)

// PaymentRecordedEvent is published when a checkout-completed webhook has been
// applied to a deal. The consumer appends the corresponding ledger row.
type PaymentRecordedEvent struct {
	DealID          string `json:"deal_id"`
	FeeType         string `json:"fee_type"`
	StripeSessionID string `json:"stripe_session_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	EventType       string `json:"event_type"`
}

// ReportSubmittedEvent is published when a report has been stored; the consumer
// emails the support inbox.
type ReportSubmittedEvent struct {
	ReportID   string `json:"report_id"`
	ReporterID string `json:"reporter_id"`
	ItemType   string `json:"item_type"`
	ItemID     string `json:"item_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

// SupportRequestedEvent is published when a contact-form submission has been
// stored.
type SupportRequestedEvent struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// CheckoutCompletedEvent is the provider-agnostic view of a verified
// "checkout completed" webhook event. Metadata is the application metadata the
// checkout session was tagged with at creation time.
type CheckoutCompletedEvent struct {
	SessionID   string
	AmountTotal int64
	Currency    string
	Metadata    map[string]string
}
