/**
 * @description
 * Business logic for reports and support requests. Report submission is
 * deduplicated per (reporter, item) while pending; the notification email to
 * the support inbox is fire-and-forget via the event bus.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

var (
	ErrDuplicateReport     = errors.New("you have already reported this")
	ErrAdminOnly           = errors.New("admin access required")
	ErrInvalidReportStatus = errors.New("invalid report status")
)

// ReportRepository defines the database operations the report service needs.
type ReportRepository interface {
	HasPendingReport(ctx context.Context, reporterID, itemID string) (bool, error)
	CreateReport(ctx context.Context, reporterID, itemType, itemID, reason, details string) (*domain.Report, error)
	ListReports(ctx context.Context, status *string, limit int) ([]domain.Report, error)
	UpdateReportStatus(ctx context.Context, reportID, status, reviewedBy string) error
	GetProfileRole(ctx context.Context, userID string) (string, error)
	CreateSupportRequest(ctx context.Context, req domain.SupportRequest) error
}

// ReportService provides report submission and admin review, plus the support
// contact form.
type ReportService struct {
	repo      ReportRepository
	publisher EventPublisher
}

// NewReportService creates a new report service.
func NewReportService(repo ReportRepository, publisher EventPublisher) *ReportService {
	return &ReportService{repo: repo, publisher: publisher}
}

// normalizeReport resolves the legacy and current report field sets into one
// shape.
func normalizeReport(req domain.CreateReportRequest) (itemType, itemID, reason, details string, err error) {
	itemID = strDefault(req.ItemID, strDefault(req.ListingID, ""))
	if itemID == "" {
		return "", "", "", "", fmt.Errorf("%w: missing item_id or listing_id", ErrValidation)
	}
	itemType = strDefault(req.ItemType, "listing")
	reason = strDefault(req.Category, strDefault(req.Reason, "Other"))
	details = strDefault(req.Message, strDefault(req.Details, ""))
	if len(details) > 2000 {
		return "", "", "", "", fmt.Errorf("%w: details must be at most 2000 characters", ErrValidation)
	}
	return itemType, itemID, reason, details, nil
}

func strDefault(p *string, fallback string) string {
	if p != nil && *p != "" {
		return *p
	}
	return fallback
}

// SubmitReport stores a pending report unless the caller already has one open
// against the same item, then publishes the notification event.
func (s *ReportService) SubmitReport(ctx context.Context, reporterID string, req domain.CreateReportRequest) (*domain.Report, error) {
	itemType, itemID, reason, details, err := normalizeReport(req)
	if err != nil {
		return nil, err
	}

	duplicate, err := s.repo.HasPendingReport(ctx, reporterID, itemID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateReport
	}

	report, err := s.repo.CreateReport(ctx, reporterID, itemType, itemID, reason, details)
	if err != nil {
		return nil, err
	}

	// Support notification is best-effort; a publish failure never fails the
	// report itself.
	event := domain.ReportSubmittedEvent{
		ReportID:   report.ID,
		ReporterID: reporterID,
		ItemType:   itemType,
		ItemID:     itemID,
		Reason:     reason,
		Details:    details,
	}
	if err := s.publisher.Publish(ctx, domain.EventsExchange, domain.RoutingKeyReportSubmitted, event); err != nil {
		log.Printf("level=warn component=reports msg=\"report notification publish failed\" report_id=%s err=%v", report.ID, err)
	}

	return report, nil
}

// requireAdmin checks the caller's profile role.
func (s *ReportService) requireAdmin(ctx context.Context, userID string) error {
	role, err := s.repo.GetProfileRole(ctx, userID)
	if err != nil || role != "admin" {
		return ErrAdminOnly
	}
	return nil
}

// ListReports returns reports for admin review, optionally filtered by status.
func (s *ReportService) ListReports(ctx context.Context, caller domain.AuthUser, status *string) ([]domain.Report, error) {
	if err := s.requireAdmin(ctx, caller.ID); err != nil {
		return nil, err
	}
	reports, err := s.repo.ListReports(ctx, status, 100)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

var reviewableStatuses = map[string]bool{
	domain.ReportStatusReviewed:  true,
	domain.ReportStatusDismissed: true,
	domain.ReportStatusActioned:  true,
}

// ReviewReport sets a report's status.
func (s *ReportService) ReviewReport(ctx context.Context, caller domain.AuthUser, reportID, status string) error {
	if err := s.requireAdmin(ctx, caller.ID); err != nil {
		return err
	}
	if !reviewableStatuses[status] {
		return ErrInvalidReportStatus
	}
	return s.repo.UpdateReportStatus(ctx, reportID, status, caller.ID)
}

// SubmitSupportRequest validates and stores a contact-form submission, then
// publishes the notification event.
func (s *ReportService) SubmitSupportRequest(ctx context.Context, req domain.SupportRequest) error {
	if req.Name == "" || len(req.Name) > 200 {
		return fmt.Errorf("%w: name must be between 1 and 200 characters", ErrValidation)
	}
	if req.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if req.Role != domain.UserTypeSeeker && req.Role != domain.UserTypeOwner {
		return fmt.Errorf("%w: role must be seeker or owner", ErrValidation)
	}
	if len(req.Message) < 10 || len(req.Message) > 5000 {
		return fmt.Errorf("%w: message must be between 10 and 5000 characters", ErrValidation)
	}

	if err := s.repo.CreateSupportRequest(ctx, req); err != nil {
		return err
	}

	event := domain.SupportRequestedEvent{Name: req.Name, Email: req.Email, Role: req.Role, Message: req.Message}
	if err := s.publisher.Publish(ctx, domain.EventsExchange, domain.RoutingKeySupportRequest, event); err != nil {
		log.Printf("level=warn component=support msg=\"support notification publish failed\" err=%v", err)
	}
	return nil
}
