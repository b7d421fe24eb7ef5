/**
 * @description
 * Domain models for messaging between seekers and owners. Messages are
 * append-only except for the read-timestamp mutation.
 */
package domain

import "time"

// Message represents a single message row.
type Message struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	ReceiverID  string     `json:"receiver_id"`
	ListingID   string     `json:"listing_id"`
	DealID      *string    `json:"deal_id"`
	MessageText string     `json:"message_text"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SendMessageRequest is the payload for POST /messages/send.
type SendMessageRequest struct {
	SenderID    string  `json:"sender_id"`
	ReceiverID  string  `json:"receiver_id"`
	ListingID   string  `json:"listing_id"`
	DealID      *string `json:"deal_id"`
	MessageText string  `json:"message_text"`
}

// MessageThread summarises a conversation, keyed by listing plus the other
// participant.
type MessageThread struct {
	ListingID     string    `json:"listing_id"`
	OtherUserID   string    `json:"other_user_id"`
	OtherUserName *string   `json:"other_user_name,omitempty"`
	OtherUserPFP  *string   `json:"other_user_pfp,omitempty"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
