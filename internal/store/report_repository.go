/**
 * @description
 * Data access for reports, referrals, support requests, and the best-effort
 * account-deletion cascade.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const reportColumns = `
    id, reporter_id, item_type, item_id, reason, details, status, reviewed_by, created_at
`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(
		&rep.ID, &rep.ReporterID, &rep.ItemType, &rep.ItemID,
		&rep.Reason, &rep.Details, &rep.Status, &rep.ReviewedBy, &rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// HasPendingReport reports whether the reporter already has a pending report
// against the item.
func (s *Store) HasPendingReport(ctx context.Context, reporterID, itemID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM reports
            WHERE reporter_id = $1 AND item_id = $2 AND status = $3
        )`, reporterID, itemID, domain.ReportStatusPending).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CreateReport inserts a pending report.
func (s *Store) CreateReport(ctx context.Context, reporterID, itemType, itemID, reason, details string) (*domain.Report, error) {
	query := `
        INSERT INTO reports (reporter_id, item_type, item_id, reason, details, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + reportColumns
	return scanReport(s.db.QueryRow(ctx, query,
		reporterID, itemType, itemID, reason, details, domain.ReportStatusPending))
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *Store) ListReports(ctx context.Context, status *string, limit int) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	args := []interface{}{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

// UpdateReportStatus sets the report status and records the reviewer.
func (s *Store) UpdateReportStatus(ctx context.Context, reportID, status, reviewedBy string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE reports SET status = $1, reviewed_by = $2 WHERE id = $3`,
		status, reviewedBy, reportID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

const referralColumns = `
    id, referrer_id, referral_code, status, referred_user_id, used_at, created_at
`

func scanReferral(row pgx.Row) (*domain.Referral, error) {
	var ref domain.Referral
	err := row.Scan(
		&ref.ID, &ref.ReferrerID, &ref.ReferralCode, &ref.Status,
		&ref.ReferredUserID, &ref.UsedAt, &ref.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// GetPendingReferralByReferrer returns the referrer's pending code, if any.
func (s *Store) GetPendingReferralByReferrer(ctx context.Context, referrerID string) (*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id = $1 AND status = $2 LIMIT 1`
	return scanReferral(s.db.QueryRow(ctx, query, referrerID, domain.ReferralStatusPending))
}

// CreateReferral inserts a new pending referral code.
func (s *Store) CreateReferral(ctx context.Context, referrerID, code string) (*domain.Referral, error) {
	query := `
        INSERT INTO referrals (referrer_id, referral_code, status)
        VALUES ($1, $2, $3)
        RETURNING ` + referralColumns
	return scanReferral(s.db.QueryRow(ctx, query, referrerID, code, domain.ReferralStatusPending))
}

// GetReferralByCode looks a referral up by its code.
func (s *Store) GetReferralByCode(ctx context.Context, code string) (*domain.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referral_code = $1`
	return scanReferral(s.db.QueryRow(ctx, query, code))
}

// MarkReferralUsed records the referred user and flips the status.
func (s *Store) MarkReferralUsed(ctx context.Context, referralID, referredUserID string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE referrals
        SET status = $1, referred_user_id = $2, used_at = NOW()
        WHERE id = $3`,
		domain.ReferralStatusSignedUp, referredUserID, referralID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReferralNotFound
	}
	return nil
}

// ListReferralsByReferrer returns every code the user has generated.
func (s *Store) ListReferralsByReferrer(ctx context.Context, referrerID string) ([]domain.Referral, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+referralColumns+` FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC`,
		referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []domain.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		referrals = append(referrals, *ref)
	}
	return referrals, rows.Err()
}

// CreateSupportRequest stores a contact-form submission.
func (s *Store) CreateSupportRequest(ctx context.Context, req domain.SupportRequest) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO support_requests (name, email, role, message)
        VALUES ($1, $2, $3, $4)`,
		req.Name, req.Email, req.Role, req.Message)
	return err
}

// DeleteUserData removes all rows associated with the user across every table.
// Each step is best-effort: a failing table does not stop the cascade, it is
// logged and skipped so the remaining data is still removed.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	steps := []struct {
		label string
		query string
	}{
		{"owner deals", `DELETE FROM deals WHERE owner_id = $1`},
		{"seeker deals", `DELETE FROM deals WHERE seeker_id = $1`},
		{"listings", `DELETE FROM listings WHERE owner_id = $1`},
		{"sent messages", `DELETE FROM messages WHERE sender_id = $1`},
		{"received messages", `DELETE FROM messages WHERE receiver_id = $1`},
		{"reports", `DELETE FROM reports WHERE reporter_id = $1`},
		{"referrals", `DELETE FROM referrals WHERE referrer_id = $1`},
	}

	for _, step := range steps {
		if _, err := s.db.Exec(ctx, step.query, userID); err != nil {
			log.Printf("level=warn component=store msg=\"account cascade step failed\" step=%q user_id=%s err=%v", step.label, userID, err)
		}
	}

	// The profile row is the critical one; its failure is surfaced.
	_, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, userID)
	return err
}
