/**
 * @description
 * Provider-agnostic checkout session types. The payment collaborator hosts the
 * checkout page; this service only hands over the amount, redirect URLs, and
 * the correlation metadata it expects back on the webhook.
 */
package domain

// CheckoutSessionParams describes a hosted checkout session to be created.
type CheckoutSessionParams struct {
	ProductName         string
	AmountCents         int64
	Currency            string
	SuccessURL          string
	CancelURL           string
	StatementDescriptor string
	Metadata            map[string]string
}

// CheckoutSessionResult is the provider's handle for a created session.
type CheckoutSessionResult struct {
	ID  string
	URL string
}
