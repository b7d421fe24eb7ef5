/**
 * @description
 * Business logic for messaging. Communication is gated to the listing owner
 * and seekers with a deal on that listing; fetching a thread marks the
 * caller's unread incoming messages as read.
 */
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

var (
	ErrMessageSenderMismatch = errors.New("cannot send messages as another user")
	ErrNoThreadAccess        = errors.New("no access to this thread")
	ErrNotMessageReceiver    = errors.New("only receiver can mark as read")
	ErrReceiverNotFound      = errors.New("receiver not found")
)

// MessageRepository defines the database operations the message service needs.
type MessageRepository interface {
	CreateMessage(ctx context.Context, req domain.SendMessageRequest) (*domain.Message, error)
	GetMessageByID(ctx context.Context, messageID string) (*domain.Message, error)
	ListMessagesForUser(ctx context.Context, userID string) ([]domain.Message, error)
	ListThreadMessages(ctx context.Context, listingID, userA, userB string, limit, offset int) ([]domain.Message, error)
	MarkMessagesRead(ctx context.Context, messageIDs []string) error
	MarkMessageRead(ctx context.Context, messageID string) (*domain.Message, error)

	GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error)
	HasDealAsSeeker(ctx context.Context, listingID, seekerID string, ownerID *string) (bool, error)
	ProfileExists(ctx context.Context, userID string) (bool, error)
	GetThreadDisplayInfo(ctx context.Context, userID string) (name, pfp *string, err error)
}

// MessageService provides messaging between seekers and owners.
type MessageService struct {
	repo MessageRepository
}

// NewMessageService creates a new message service.
func NewMessageService(repo MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// SendMessage stores a message after checking the sender is the caller and is
// related to the listing: either as its owner, or as a seeker with a deal on
// it naming the receiver as owner.
func (s *MessageService) SendMessage(ctx context.Context, caller domain.AuthUser, req domain.SendMessageRequest) (*domain.Message, error) {
	if caller.ID != req.SenderID {
		return nil, ErrMessageSenderMismatch
	}
	if req.MessageText == "" {
		return nil, fmt.Errorf("%w: message_text is required", ErrValidation)
	}

	exists, err := s.repo.ProfileExists(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReceiverNotFound
	}

	listing, err := s.repo.GetListingByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	if caller.ID != listing.OwnerID {
		hasDeal, err := s.repo.HasDealAsSeeker(ctx, req.ListingID, caller.ID, &req.ReceiverID)
		if err != nil {
			return nil, err
		}
		if !hasDeal {
			return nil, ErrNoThreadAccess
		}
	}

	return s.repo.CreateMessage(ctx, req)
}

// GetThreads groups the caller's messages into conversations keyed by listing
// plus the other participant, with the most recent message and unread count.
func (s *MessageService) GetThreads(ctx context.Context, userID string) ([]domain.MessageThread, error) {
	messages, err := s.repo.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type threadKey struct {
		listingID   string
		otherUserID string
	}

	threads := map[threadKey]*domain.MessageThread{}
	order := []threadKey{}

	// Messages arrive newest first, so the first message seen per thread is
	// its latest.
	for _, msg := range messages {
		otherUserID := msg.SenderID
		if msg.SenderID == userID {
			otherUserID = msg.ReceiverID
		}
		key := threadKey{listingID: msg.ListingID, otherUserID: otherUserID}

		thread, ok := threads[key]
		if !ok {
			thread = &domain.MessageThread{
				ListingID:     msg.ListingID,
				OtherUserID:   otherUserID,
				LastMessage:   msg.MessageText,
				LastMessageAt: msg.CreatedAt,
			}
			threads[key] = thread
			order = append(order, key)
		}
		if msg.ReceiverID == userID && msg.ReadAt == nil {
			thread.UnreadCount++
		}
	}

	result := make([]domain.MessageThread, 0, len(order))
	for _, key := range order {
		thread := threads[key]
		name, pfp, err := s.repo.GetThreadDisplayInfo(ctx, thread.OtherUserID)
		if err == nil {
			thread.OtherUserName = name
			thread.OtherUserPFP = pfp
		}
		result = append(result, *thread)
	}
	return result, nil
}

// GetThreadMessages returns one page of a thread, oldest first, after checking
// thread access, and marks the caller's unread incoming messages read.
func (s *MessageService) GetThreadMessages(ctx context.Context, caller domain.AuthUser, listingID, otherUserID string, limit, offset int) ([]domain.Message, error) {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if caller.ID != listing.OwnerID {
		hasDeal, err := s.repo.HasDealAsSeeker(ctx, listingID, caller.ID, nil)
		if err != nil {
			return nil, err
		}
		if !hasDeal {
			return nil, ErrNoThreadAccess
		}
	}

	if limit <= 0 {
		limit = 50
	}
	messages, err := s.repo.ListThreadMessages(ctx, listingID, caller.ID, otherUserID, limit, offset)
	if err != nil {
		return nil, err
	}

	var unreadIDs []string
	for _, msg := range messages {
		if msg.ReceiverID == caller.ID && msg.ReadAt == nil {
			unreadIDs = append(unreadIDs, msg.ID)
		}
	}
	if err := s.repo.MarkMessagesRead(ctx, unreadIDs); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead stamps read_at on a single message; only its receiver may do so.
func (s *MessageService) MarkRead(ctx context.Context, caller domain.AuthUser, messageID string) (*domain.Message, error) {
	msg, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != caller.ID {
		return nil, ErrNotMessageReceiver
	}
	return s.repo.MarkMessageRead(ctx, messageID)
}
