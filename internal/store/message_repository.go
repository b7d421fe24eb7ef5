/**
 * @description
 * Data access for messages. Rows are append-only apart from the read_at
 * timestamp.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const messageColumns = `
    id, sender_id, receiver_id, listing_id, deal_id, message_text, read_at, created_at, updated_at
`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.ListingID, &m.DealID,
		&m.MessageText, &m.ReadAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CreateMessage appends a message row.
func (s *Store) CreateMessage(ctx context.Context, req domain.SendMessageRequest) (*domain.Message, error) {
	query := `
        INSERT INTO messages (sender_id, receiver_id, listing_id, deal_id, message_text)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + messageColumns
	return scanMessage(s.db.QueryRow(ctx, query,
		req.SenderID, req.ReceiverID, req.ListingID, req.DealID, req.MessageText))
}

// GetMessageByID fetches a single message.
func (s *Store) GetMessageByID(ctx context.Context, messageID string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	return scanMessage(s.db.QueryRow(ctx, query, messageID))
}

// ListMessagesForUser returns every message the user sent or received, newest
// first. Thread grouping happens in the service layer.
func (s *Store) ListMessagesForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY created_at DESC`
	return s.queryMessages(ctx, query, userID)
}

// ListThreadMessages returns one page of a thread between two users on a
// listing, oldest first.
func (s *Store) ListThreadMessages(ctx context.Context, listingID, userA, userB string, limit, offset int) ([]domain.Message, error) {
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE listing_id = $1
          AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
        ORDER BY created_at ASC
        LIMIT $4 OFFSET $5`
	return s.queryMessages(ctx, query, listingID, userA, userB, limit, offset)
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// MarkMessagesRead stamps read_at on the given messages.
func (s *Store) MarkMessagesRead(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`UPDATE messages SET read_at = NOW(), updated_at = NOW() WHERE id = ANY($1) AND read_at IS NULL`,
		messageIDs)
	return err
}

// MarkMessageRead stamps read_at on a single message.
func (s *Store) MarkMessageRead(ctx context.Context, messageID string) (*domain.Message, error) {
	query := `
        UPDATE messages SET read_at = NOW(), updated_at = NOW()
        WHERE id = $1
        RETURNING ` + messageColumns
	return scanMessage(s.db.QueryRow(ctx, query, messageID))
}
