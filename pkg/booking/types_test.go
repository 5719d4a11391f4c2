package booking

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIdentifierConstructorsTrimAndReject(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name      string
		construct func(string) (string, error)
		target    error
	}{
		{name: "user", construct: func(raw string) (string, error) { id, err := NewUserID(raw); return id.String(), err }, target: ErrInvalidUserID},
		{name: "listing", construct: func(raw string) (string, error) { id, err := NewListingID(raw); return id.String(), err }, target: ErrInvalidListingID},
		{name: "room", construct: func(raw string) (string, error) { id, err := NewRoomID(raw); return id.String(), err }, target: ErrInvalidRoomID},
		{name: "booking", construct: func(raw string) (string, error) { id, err := NewBookingID(raw); return id.String(), err }, target: ErrInvalidBookingID},
		{name: "review", construct: func(raw string) (string, error) { id, err := NewReviewID(raw); return id.String(), err }, target: ErrInvalidReviewID},
	}
	for _, testCase := range testCases {
		value, err := testCase.construct("  abc  ")
		if err != nil || value != "abc" {
			test.Fatalf("%s: expected trimmed value, got %q (%v)", testCase.name, value, err)
		}
		if _, err := testCase.construct("   "); !errors.Is(err, testCase.target) {
			test.Fatalf("%s: expected %v, got %v", testCase.name, testCase.target, err)
		}
	}
}

func TestGuestCountBounds(test *testing.T) {
	test.Parallel()
	for raw := MinGuests; raw <= MaxGuests; raw++ {
		if _, err := NewGuestCount(raw); err != nil {
			test.Fatalf("guest count %d: %v", raw, err)
		}
	}
	for _, raw := range []int{0, -1, MaxGuests + 1} {
		if _, err := NewGuestCount(raw); !errors.Is(err, ErrInvalidGuestCount) {
			test.Fatalf("guest count %d: expected invalid, got %v", raw, err)
		}
	}
}

func TestRatingDefaultsAndBounds(test *testing.T) {
	test.Parallel()
	rating, err := NewRating(0)
	if err != nil || rating != DefaultRating {
		test.Fatalf("expected default rating, got %d (%v)", rating, err)
	}
	if _, err := NewRating(MaxRating + 1); !errors.Is(err, ErrInvalidRating) {
		test.Fatalf("expected invalid rating, got %v", err)
	}
}

func TestBookingStatusTransitions(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{from: BookingStatusPending, to: BookingStatusConfirmed, allowed: true},
		{from: BookingStatusPending, to: BookingStatusCancelled, allowed: true},
		{from: BookingStatusPending, to: BookingStatusCompleted, allowed: false},
		{from: BookingStatusConfirmed, to: BookingStatusCancelled, allowed: true},
		{from: BookingStatusConfirmed, to: BookingStatusCompleted, allowed: true},
		{from: BookingStatusCancelled, to: BookingStatusPending, allowed: false},
		{from: BookingStatusCancelled, to: BookingStatusCancelled, allowed: false},
		{from: BookingStatusCompleted, to: BookingStatusCancelled, allowed: false},
	}
	for _, testCase := range testCases {
		if testCase.from.CanTransitionTo(testCase.to) != testCase.allowed {
			test.Fatalf("%s -> %s: expected allowed=%t", testCase.from, testCase.to, testCase.allowed)
		}
	}
}

func TestParseBookingStatusAndSort(test *testing.T) {
	test.Parallel()
	if status, err := ParseBookingStatus("confirmed"); err != nil || status != BookingStatusConfirmed {
		test.Fatalf("unexpected status %q (%v)", status, err)
	}
	if _, err := ParseBookingStatus("expired"); !errors.Is(err, ErrInvalidBookingStatus) {
		test.Fatalf("expected invalid status, got %v", err)
	}
	if sort, err := ParseListingSort(""); err != nil || sort != ListingSortName {
		test.Fatalf("expected default sort, got %q (%v)", sort, err)
	}
	if !(ListingQuery{Sort: ListingSortName}).IsDefault() || (ListingQuery{Search: "x"}).IsDefault() {
		test.Fatalf("unexpected default query detection")
	}
}

func TestSessionRoles(test *testing.T) {
	test.Parallel()
	if AnonymousSession().Authenticated() || AnonymousSession().IsAdmin() {
		test.Fatalf("anonymous session must not be authenticated")
	}
	if _, err := NewSession(" "); !errors.Is(err, ErrInvalidUserID) {
		test.Fatalf("expected invalid user id, got %v", err)
	}
	admin := mustSession(test, "host", "viewer", RoleAdmin)
	if !admin.IsAdmin() || !admin.Authenticated() {
		test.Fatalf("expected admin session")
	}
	if mustSession(test, "guest", "viewer").IsAdmin() {
		test.Fatalf("viewer must not be admin")
	}
}

func TestBookingJSONKeepsIdentifiers(test *testing.T) {
	test.Parallel()
	original := Booking{
		ID:        mustBookingID(test, "booking-1"),
		UserID:    mustUserID(test, "user-1"),
		ListingID: mustListingID(test, "listing-1"),
		RoomID:    mustRoomID(test, "room-1"),
		Guests:    2,
		Status:    BookingStatusConfirmed,
	}
	raw, err := json.Marshal(original)
	if err != nil {
		test.Fatalf("marshal: %v", err)
	}
	var decoded Booking
	if err := json.Unmarshal(raw, &decoded); err != nil {
		test.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != original.ID || decoded.UserID != original.UserID || decoded.ListingID != original.ListingID || decoded.RoomID != original.RoomID {
		test.Fatalf("identifiers lost: %+v", decoded)
	}

	var review Review
	if err := json.Unmarshal([]byte(`{"ID":"   "}`), &review); !errors.Is(err, ErrInvalidReviewID) {
		test.Fatalf("expected blank review id rejection, got %v", err)
	}

	var anonymous Booking
	if err := json.Unmarshal([]byte(`{"UserID":"","ListingID":" listing-2 "}`), &anonymous); err != nil {
		test.Fatalf("unmarshal: %v", err)
	}
	if !anonymous.UserID.IsZero() || anonymous.ListingID.String() != "listing-2" {
		test.Fatalf("expected empty id to decode as zero and padded id to be trimmed, got %+v", anonymous)
	}
}
