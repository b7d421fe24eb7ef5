package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

type stubReportRepo struct {
	pendingItems   map[string]bool
	roles          map[string]string
	lastCreated    *domain.Report
	lastReviewedBy string
	lastStatus     string
	supportSaved   *domain.SupportRequest
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{pendingItems: map[string]bool{}, roles: map[string]string{}}
}

func (r *stubReportRepo) HasPendingReport(_ context.Context, reporterID, itemID string) (bool, error) {
	return r.pendingItems[reporterID+"/"+itemID], nil
}

func (r *stubReportRepo) CreateReport(_ context.Context, reporterID, itemType, itemID, reason, details string) (*domain.Report, error) {
	r.lastCreated = &domain.Report{
		ID:         "report-1",
		ReporterID: reporterID,
		ItemType:   itemType,
		ItemID:     itemID,
		Reason:     reason,
		Details:    details,
		Status:     domain.ReportStatusPending,
	}
	return r.lastCreated, nil
}

func (r *stubReportRepo) ListReports(_ context.Context, _ *string, _ int) ([]domain.Report, error) {
	return nil, nil
}

func (r *stubReportRepo) UpdateReportStatus(_ context.Context, _, status, reviewedBy string) error {
	r.lastStatus = status
	r.lastReviewedBy = reviewedBy
	return nil
}

func (r *stubReportRepo) GetProfileRole(_ context.Context, userID string) (string, error) {
	role, ok := r.roles[userID]
	if !ok {
		return "user", nil
	}
	return role, nil
}

func (r *stubReportRepo) CreateSupportRequest(_ context.Context, req domain.SupportRequest) error {
	r.supportSaved = &req
	return nil
}

func TestSubmitReportNormalizesLegacyFields(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, &stubPublisher{})

	listingID := "listing-9"
	reason := "Scam"
	_, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{
		ListingID: &listingID,
		Reason:    &reason,
	})
	if err != nil {
		t.Fatalf("SubmitReport returned error: %v", err)
	}
	if repo.lastCreated.ItemID != "listing-9" || repo.lastCreated.ItemType != "listing" {
		t.Fatalf("legacy fields not normalized: %+v", repo.lastCreated)
	}
	if repo.lastCreated.Reason != "Scam" {
		t.Fatalf("expected reason Scam, got %q", repo.lastCreated.Reason)
	}
}

func TestSubmitReportNormalizesCurrentFields(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, &stubPublisher{})

	itemType := "profile"
	itemID := "user-9"
	category := "Harassment"
	message := "details here"
	_, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{
		ItemType: &itemType,
		ItemID:   &itemID,
		Category: &category,
		Message:  &message,
	})
	if err != nil {
		t.Fatalf("SubmitReport returned error: %v", err)
	}
	if repo.lastCreated.ItemType != "profile" || repo.lastCreated.Reason != "Harassment" || repo.lastCreated.Details != "details here" {
		t.Fatalf("current fields not normalized: %+v", repo.lastCreated)
	}
}

func TestSubmitReportValidation(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), &stubPublisher{})

	// No item reference at all.
	if _, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	itemID := "listing-9"
	long := strings.Repeat("x", 2001)
	_, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{ItemID: &itemID, Message: &long})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized details, got %v", err)
	}
}

func TestSubmitReportDeduplicatesPending(t *testing.T) {
	repo := newStubReportRepo()
	repo.pendingItems["user-1/listing-9"] = true
	svc := NewReportService(repo, &stubPublisher{})

	itemID := "listing-9"
	_, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{ItemID: &itemID})
	if !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}
}

func TestSubmitReportSurvivesPublishFailure(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, &stubPublisher{err: errors.New("broker down")})

	itemID := "listing-9"
	report, err := svc.SubmitReport(context.Background(), "user-1", domain.CreateReportRequest{ItemID: &itemID})
	if err != nil {
		t.Fatalf("publish failure must not fail the report: %v", err)
	}
	if report == nil || report.Status != domain.ReportStatusPending {
		t.Fatalf("expected pending report, got %+v", report)
	}
}

func TestListReportsAdminOnly(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, &stubPublisher{})

	if _, err := svc.ListReports(context.Background(), domain.AuthUser{ID: "user-1"}, nil); !errors.Is(err, ErrAdminOnly) {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}

	repo.roles["admin-1"] = "admin"
	reports, err := svc.ListReports(context.Background(), domain.AuthUser{ID: "admin-1"}, nil)
	if err != nil {
		t.Fatalf("admin list returned error: %v", err)
	}
	if reports == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestReviewReport(t *testing.T) {
	repo := newStubReportRepo()
	repo.roles["admin-1"] = "admin"
	svc := NewReportService(repo, &stubPublisher{})
	admin := domain.AuthUser{ID: "admin-1"}

	if err := svc.ReviewReport(context.Background(), domain.AuthUser{ID: "user-1"}, "report-1", domain.ReportStatusReviewed); !errors.Is(err, ErrAdminOnly) {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}
	if err := svc.ReviewReport(context.Background(), admin, "report-1", "pending"); !errors.Is(err, ErrInvalidReportStatus) {
		t.Fatalf("expected ErrInvalidReportStatus, got %v", err)
	}
	if err := svc.ReviewReport(context.Background(), admin, "report-1", domain.ReportStatusActioned); err != nil {
		t.Fatalf("ReviewReport returned error: %v", err)
	}
	if repo.lastStatus != domain.ReportStatusActioned || repo.lastReviewedBy != "admin-1" {
		t.Fatalf("review not recorded: status=%q reviewed_by=%q", repo.lastStatus, repo.lastReviewedBy)
	}
}

func TestSubmitSupportRequestValidation(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), &stubPublisher{})

	valid := domain.SupportRequest{Name: "Sam", Email: "sam@example.com", Role: "seeker", Message: "I need help with my listing."}

	tests := []struct {
		name   string
		mutate func(*domain.SupportRequest)
	}{
		{"empty name", func(r *domain.SupportRequest) { r.Name = "" }},
		{"name too long", func(r *domain.SupportRequest) { r.Name = strings.Repeat("n", 201) }},
		{"empty email", func(r *domain.SupportRequest) { r.Email = "" }},
		{"bad role", func(r *domain.SupportRequest) { r.Role = "admin" }},
		{"message too short", func(r *domain.SupportRequest) { r.Message = "short" }},
		{"message too long", func(r *domain.SupportRequest) { r.Message = strings.Repeat("m", 5001) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := svc.SubmitSupportRequest(context.Background(), req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSubmitSupportRequestStoresAndPublishes(t *testing.T) {
	repo := newStubReportRepo()
	publisher := &stubPublisher{}
	svc := NewReportService(repo, publisher)

	req := domain.SupportRequest{Name: "Sam", Email: "sam@example.com", Role: "owner", Message: "I need help with my listing."}
	if err := svc.SubmitSupportRequest(context.Background(), req); err != nil {
		t.Fatalf("SubmitSupportRequest returned error: %v", err)
	}
	if repo.supportSaved == nil || repo.supportSaved.Email != "sam@example.com" {
		t.Fatalf("support request not stored: %+v", repo.supportSaved)
	}
	if len(publisher.published) != 1 || publisher.published[0] != domain.RoutingKeySupportRequest {
		t.Fatalf("expected support notification event, got %v", publisher.published)
	}
}
