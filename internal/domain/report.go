/**
 * @description
 * Domain models for user reports, referral codes, and support requests.
 */
package domain

import "time"

// Report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
	ReportStatusActioned  = "actioned"
)

// Report represents a user report against a listing or profile. At most one
// pending report may exist per (reporter, item).
type Report struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporter_id"`
	ItemType   string    `json:"item_type"`
	ItemID     string    `json:"item_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details"`
	Status     string    `json:"status"`
	ReviewedBy *string   `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateReportRequest accepts both the legacy (listing_id + reason) and the
// current (item_type + item_id + category + message) field sets.
type CreateReportRequest struct {
	ListingID *string `json:"listing_id"`
	ItemType  *string `json:"item_type"`
	ItemID    *string `json:"item_id"`
	Reason    *string `json:"reason"`
	Category  *string `json:"category"`
	Details   *string `json:"details"`
	Message   *string `json:"message"`
}

// Referral statuses.
const (
	ReferralStatusPending  = "pending"
	ReferralStatusSignedUp = "signed_up"
)

// Referral represents a referral code generated by a user.
type Referral struct {
	ID             string     `json:"id"`
	ReferrerID     string     `json:"referrer_id"`
	ReferralCode   string     `json:"referral_code"`
	Status         string     `json:"status"`
	ReferredUserID *string    `json:"referred_user_id,omitempty"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SupportRequest is a contact-form submission destined for the support inbox.
type SupportRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}
