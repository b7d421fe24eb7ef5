/**
 * @description
 * Domain models for rental listings. A listing is owned by exactly one owner
 * user and carries a set of required fields plus a long tail of optional
 * amenity, rule, and safety fields that are only persisted when provided.
 */
package domain

import "time"

// Listing represents a listing row in the database.
type Listing struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Address     string   `json:"address"`
	Postcode    int      `json:"postcode"`
	City        *string  `json:"city"`
	WeeklyPrice float64  `json:"weekly_price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`

	Title             *string  `json:"title,omitempty"`
	PropertyType      *string  `json:"property_type,omitempty"`
	PlaceType         *string  `json:"place_type,omitempty"`
	MaxGuests         *int     `json:"max_guests,omitempty"`
	Bedrooms          *int     `json:"bedrooms,omitempty"`
	Beds              *int     `json:"beds,omitempty"`
	Bathrooms         *int     `json:"bathrooms,omitempty"`
	BathroomType      *string  `json:"bathroom_type,omitempty"`
	Furnished         *bool    `json:"furnished,omitempty"`
	BillsIncluded     *bool    `json:"bills_included,omitempty"`
	Parking           *string  `json:"parking,omitempty"`
	InternetIncluded  *bool    `json:"internet_included,omitempty"`
	InternetSpeed     *string  `json:"internet_speed,omitempty"`
	PetsAllowed       *bool    `json:"pets_allowed,omitempty"`
	PetDetails        *string  `json:"pet_details,omitempty"`
	AirConditioning   *bool    `json:"air_conditioning,omitempty"`
	Laundry           *string  `json:"laundry,omitempty"`
	Dishwasher        *bool    `json:"dishwasher,omitempty"`
	Bond              *float64 `json:"bond,omitempty"`
	WeeklyDiscount    *float64 `json:"weekly_discount,omitempty"`
	MonthlyDiscount   *float64 `json:"monthly_discount,omitempty"`
	NoSmoking         *bool    `json:"no_smoking,omitempty"`
	QuietHours        *string  `json:"quiet_hours,omitempty"`
	TenantPrefs       *string  `json:"tenant_prefs,omitempty"`
	MinStay           *int     `json:"min_stay,omitempty"`
	AvailableFrom     *string  `json:"available_from,omitempty"`
	AvailableTo       *string  `json:"available_to,omitempty"`
	InstantBook       *bool    `json:"instant_book,omitempty"`
	GenderPreference  *string  `json:"gender_preference,omitempty"`
	CouplesOK         *bool    `json:"couples_ok,omitempty"`
	NearestTransport  *string  `json:"nearest_transport,omitempty"`
	NeighbourhoodVibe *string  `json:"neighbourhood_vibe,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CreateListingRequest is the payload for POST /listings. City is optional and
// derived from the postcode when absent.
type CreateListingRequest struct {
	Address     string   `json:"address"`
	Postcode    int      `json:"postcode"`
	City        *string  `json:"city"`
	WeeklyPrice float64  `json:"weekly_price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`

	Title             *string  `json:"title"`
	PropertyType      *string  `json:"property_type"`
	PlaceType         *string  `json:"place_type"`
	MaxGuests         *int     `json:"max_guests"`
	Bedrooms          *int     `json:"bedrooms"`
	Beds              *int     `json:"beds"`
	Bathrooms         *int     `json:"bathrooms"`
	BathroomType      *string  `json:"bathroom_type"`
	Furnished         *bool    `json:"furnished"`
	BillsIncluded     *bool    `json:"bills_included"`
	Parking           *string  `json:"parking"`
	InternetIncluded  *bool    `json:"internet_included"`
	InternetSpeed     *string  `json:"internet_speed"`
	PetsAllowed       *bool    `json:"pets_allowed"`
	PetDetails        *string  `json:"pet_details"`
	AirConditioning   *bool    `json:"air_conditioning"`
	Laundry           *string  `json:"laundry"`
	Dishwasher        *bool    `json:"dishwasher"`
	Bond              *float64 `json:"bond"`
	WeeklyDiscount    *float64 `json:"weekly_discount"`
	MonthlyDiscount   *float64 `json:"monthly_discount"`
	NoSmoking         *bool    `json:"no_smoking"`
	QuietHours        *string  `json:"quiet_hours"`
	TenantPrefs       *string  `json:"tenant_prefs"`
	MinStay           *int     `json:"min_stay"`
	AvailableFrom     *string  `json:"available_from"`
	AvailableTo       *string  `json:"available_to"`
	InstantBook       *bool    `json:"instant_book"`
	GenderPreference  *string  `json:"gender_preference"`
	CouplesOK         *bool    `json:"couples_ok"`
	NearestTransport  *string  `json:"nearest_transport"`
	NeighbourhoodVibe *string  `json:"neighbourhood_vibe"`
}

// ListingFilter narrows GET /listings results.
type ListingFilter struct {
	City     *string
	MinPrice *float64
	MaxPrice *float64
	OwnerID  *string
}

// Match pairs a listing with a placeholder compatibility score.
type Match struct {
	Listing Listing `json:"listing"`
	Score   int     `json:"match_score"`
}
