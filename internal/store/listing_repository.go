/**
 * @description
 * Data access for listings. Listing creation builds its column list
 * dynamically: the long tail of optional amenity and rule fields is only
 * written when the caller supplied a value, so partially-filled listings never
 * overwrite column defaults.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const listingColumns = `
    id, owner_id, address, postcode, city, weekly_price, description, images,
    title, property_type, place_type, max_guests, bedrooms, beds, bathrooms, bathroom_type,
    furnished, bills_included, parking, internet_included, internet_speed,
    pets_allowed, pet_details, air_conditioning, laundry, dishwasher,
    bond, weekly_discount, monthly_discount, no_smoking, quiet_hours, tenant_prefs,
    min_stay, available_from, available_to, instant_book, gender_preference, couples_ok,
    nearest_transport, neighbourhood_vibe, created_at
`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Address, &l.Postcode, &l.City, &l.WeeklyPrice, &l.Description, &l.Images,
		&l.Title, &l.PropertyType, &l.PlaceType, &l.MaxGuests, &l.Bedrooms, &l.Beds, &l.Bathrooms, &l.BathroomType,
		&l.Furnished, &l.BillsIncluded, &l.Parking, &l.InternetIncluded, &l.InternetSpeed,
		&l.PetsAllowed, &l.PetDetails, &l.AirConditioning, &l.Laundry, &l.Dishwasher,
		&l.Bond, &l.WeeklyDiscount, &l.MonthlyDiscount, &l.NoSmoking, &l.QuietHours, &l.TenantPrefs,
		&l.MinStay, &l.AvailableFrom, &l.AvailableTo, &l.InstantBook, &l.GenderPreference, &l.CouplesOK,
		&l.NearestTransport, &l.NeighbourhoodVibe, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

// optionalListingColumns maps each optional column name to an accessor that
// returns the supplied value, or nil when the field was not provided.
func optionalListingColumns(req domain.CreateListingRequest) []struct {
	name  string
	value interface{}
	set   bool
} {
	cols := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"title", deref(req.Title), req.Title != nil},
		{"property_type", deref(req.PropertyType), req.PropertyType != nil},
		{"place_type", deref(req.PlaceType), req.PlaceType != nil},
		{"max_guests", derefInt(req.MaxGuests), req.MaxGuests != nil},
		{"bedrooms", derefInt(req.Bedrooms), req.Bedrooms != nil},
		{"beds", derefInt(req.Beds), req.Beds != nil},
		{"bathrooms", derefInt(req.Bathrooms), req.Bathrooms != nil},
		{"bathroom_type", deref(req.BathroomType), req.BathroomType != nil},
		{"furnished", derefBool(req.Furnished), req.Furnished != nil},
		{"bills_included", derefBool(req.BillsIncluded), req.BillsIncluded != nil},
		{"parking", deref(req.Parking), req.Parking != nil},
		{"internet_included", derefBool(req.InternetIncluded), req.InternetIncluded != nil},
		{"internet_speed", deref(req.InternetSpeed), req.InternetSpeed != nil},
		{"pets_allowed", derefBool(req.PetsAllowed), req.PetsAllowed != nil},
		{"pet_details", deref(req.PetDetails), req.PetDetails != nil},
		{"air_conditioning", derefBool(req.AirConditioning), req.AirConditioning != nil},
		{"laundry", deref(req.Laundry), req.Laundry != nil},
		{"dishwasher", derefBool(req.Dishwasher), req.Dishwasher != nil},
		{"bond", derefFloat(req.Bond), req.Bond != nil},
		{"weekly_discount", derefFloat(req.WeeklyDiscount), req.WeeklyDiscount != nil},
		{"monthly_discount", derefFloat(req.MonthlyDiscount), req.MonthlyDiscount != nil},
		{"no_smoking", derefBool(req.NoSmoking), req.NoSmoking != nil},
		{"quiet_hours", deref(req.QuietHours), req.QuietHours != nil},
		{"tenant_prefs", deref(req.TenantPrefs), req.TenantPrefs != nil},
		{"min_stay", derefInt(req.MinStay), req.MinStay != nil},
		{"available_from", deref(req.AvailableFrom), req.AvailableFrom != nil},
		{"available_to", deref(req.AvailableTo), req.AvailableTo != nil},
		{"instant_book", derefBool(req.InstantBook), req.InstantBook != nil},
		{"gender_preference", deref(req.GenderPreference), req.GenderPreference != nil},
		{"couples_ok", derefBool(req.CouplesOK), req.CouplesOK != nil},
		{"nearest_transport", deref(req.NearestTransport), req.NearestTransport != nil},
		{"neighbourhood_vibe", deref(req.NeighbourhoodVibe), req.NeighbourhoodVibe != nil},
	}
	return cols
}

func deref(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func derefBool(p *bool) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func derefFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// CreateListing inserts a listing owned by ownerID, with the resolved city.
func (s *Store) CreateListing(ctx context.Context, ownerID string, city *string, req domain.CreateListingRequest) (*domain.Listing, error) {
	images := req.Images
	if images == nil {
		images = []string{}
	}

	columns := []string{"owner_id", "address", "postcode", "city", "weekly_price", "description", "images"}
	args := []interface{}{ownerID, req.Address, req.Postcode, city, req.WeeklyPrice, req.Description, images}

	for _, col := range optionalListingColumns(req) {
		if col.set {
			columns = append(columns, col.name)
			args = append(args, col.value)
		}
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO listings (%s) VALUES (%s) RETURNING %s",
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		listingColumns,
	)
	return scanListing(s.db.QueryRow(ctx, query, args...))
}

// GetListingByID fetches a single listing.
func (s *Store) GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanListing(s.db.QueryRow(ctx, query, listingID))
}

// ListListings returns listings matching the filter, newest first.
func (s *Store) ListListings(ctx context.Context, filter domain.ListingFilter, limit int) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := []interface{}{}

	if filter.City != nil {
		args = append(args, *filter.City)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND weekly_price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND weekly_price <= $%d", len(args))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// CountListingsByOwner returns the number of listings owned by the user.
// Used for badge calculation.
func (s *Store) CountListingsByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
