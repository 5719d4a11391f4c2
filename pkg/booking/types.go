package booking

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	MinGuests     = 1
	MaxGuests     = 6
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Amount is an integer currency amount in minor units.
type Amount int64

// Int64 returns the raw value.
func (amount Amount) Int64() int64 {
	return int64(amount)
}

// NewAmount validates a strictly positive amount.
func NewAmount(raw int64) (Amount, error) {
	if raw <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return Amount(raw), nil
}

// UserID identifies an authenticated guest.
type UserID struct {
	value string
}

// ListingID identifies a bookable hotel property.
type ListingID struct {
	value string
}

// RoomID identifies a room type within a listing.
type RoomID struct {
	value string
}

// BookingID identifies a booking.
type BookingID struct {
	value string
}

// ReviewID identifies a review.
type ReviewID struct {
	value string
}

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// IsZero reports whether the id was never set.
func (id UserID) IsZero() bool {
	return id.value == ""
}

// NewListingID validates and normalizes a listing id.
func NewListingID(raw string) (ListingID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ListingID{}, fmt.Errorf("%w: empty value", ErrInvalidListingID)
	}
	return ListingID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ListingID) String() string {
	return id.value
}

// NewRoomID validates and normalizes a room id.
func NewRoomID(raw string) (RoomID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RoomID{}, fmt.Errorf("%w: empty value", ErrInvalidRoomID)
	}
	return RoomID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id RoomID) String() string {
	return id.value
}

// IsZero reports whether the id was never set.
func (id RoomID) IsZero() bool {
	return id.value == ""
}

// NewBookingID validates and normalizes a booking id.
func NewBookingID(raw string) (BookingID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BookingID{}, fmt.Errorf("%w: empty value", ErrInvalidBookingID)
	}
	return BookingID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id BookingID) String() string {
	return id.value
}

// NewReviewID validates and normalizes a review id.
func NewReviewID(raw string) (ReviewID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ReviewID{}, fmt.Errorf("%w: empty value", ErrInvalidReviewID)
	}
	return ReviewID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ReviewID) String() string {
	return id.value
}

// GuestCount is bounded by the fixed choice set offered on the detail page.
type GuestCount int

// NewGuestCount validates a guest count in [MinGuests, MaxGuests].
func NewGuestCount(raw int) (GuestCount, error) {
	if raw < MinGuests || raw > MaxGuests {
		return 0, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidGuestCount, raw, MinGuests, MaxGuests)
	}
	return GuestCount(raw), nil
}

// Int returns the raw value.
func (count GuestCount) Int() int {
	return int(count)
}

// Rating is a review score.
type Rating int

// NewRating validates a rating; zero selects DefaultRating.
func NewRating(raw int) (Rating, error) {
	if raw == 0 {
		return DefaultRating, nil
	}
	if raw < MinRating || raw > MaxRating {
		return 0, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRating, raw, MinRating, MaxRating)
	}
	return Rating(raw), nil
}

// Int returns the raw value.
func (rating Rating) Int() int {
	return int(rating)
}

// NewComment trims a review comment and rejects empty text.
func NewComment(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyComment
	}
	return trimmed, nil
}

// BookingStatus defines the booking lifecycle.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

// ParseBookingStatus validates a stored status value.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(strings.TrimSpace(raw))
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBookingStatus, raw)
	}
}

// String returns the stored representation.
func (status BookingStatus) String() string {
	return string(status)
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (status BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is the method recorded on a booking.
type PaymentMethod string

const (
	PaymentMethodWallet   PaymentMethod = "metamask"
	PaymentMethodDeferred PaymentMethod = "pending"
	PaymentMethodAtVenue  PaymentMethod = ""
)

// String returns the stored representation.
func (method PaymentMethod) String() string {
	return string(method)
}

// AmenityLists groups the amenity categories shown on a listing.
type AmenityLists struct {
	General       []string `json:"general"`
	Safety        []string `json:"safety"`
	Accessibility []string `json:"accessibility"`
	Kitchen       []string `json:"kitchen"`
	Entertainment []string `json:"entertainment"`
	Outdoor       []string `json:"outdoor"`
	Family        []string `json:"family"`
}

// Listing is a bookable hotel property.
type Listing struct {
	ID            ListingID
	Name          string
	Location      string
	City          string
	Country       string
	Description   string
	PricePerNight Amount
	Rating        float64
	ImageURL      string
	Amenities     AmenityLists
	CreatedAt     time.Time
}

// Room is a room type offered by a listing. AvailableRooms is advisory and never decremented.
type Room struct {
	ID             RoomID
	ListingID      ListingID
	RoomType       string
	Capacity       int
	PricePerNight  Amount
	AvailableRooms int
	Amenities      []string
}

// Booking is a persisted stay.
type Booking struct {
	ID                   BookingID
	UserID               UserID
	ListingID            ListingID
	RoomID               RoomID
	CheckIn              time.Time
	CheckOut             time.Time
	Guests               GuestCount
	TotalAmount          Amount
	PaymentMethod        PaymentMethod
	PaymentTransactionID string
	PaymentAmount        *Amount
	Status               BookingStatus
	CreatedAt            time.Time
}

// BookingSummary is a booking joined with the listing and room it refers to.
type BookingSummary struct {
	Booking
	ListingName     string
	ListingLocation string
	ListingCity     string
	ListingCountry  string
	ListingImageURL string
	RoomType        string
}

// Review is a guest's rating of a listing.
type Review struct {
	ID         ReviewID
	UserID     UserID
	ListingID  ListingID
	Rating     Rating
	Comment    string
	AuthorName string
	CreatedAt  time.Time
}

// Profile holds display data for a user.
type Profile struct {
	UserID    UserID
	FullName  string
	Email     string
	AvatarURL string
	UpdatedAt time.Time
}

// ListingSort orders listing queries.
type ListingSort string

const (
	ListingSortName      ListingSort = "name"
	ListingSortPriceLow  ListingSort = "price_low"
	ListingSortPriceHigh ListingSort = "price_high"
	ListingSortRating    ListingSort = "rating"
)

// ParseListingSort validates a sort key; empty selects ListingSortName.
func ParseListingSort(raw string) (ListingSort, error) {
	sort := ListingSort(strings.TrimSpace(raw))
	switch sort {
	case "":
		return ListingSortName, nil
	case ListingSortName, ListingSortPriceLow, ListingSortPriceHigh, ListingSortRating:
		return sort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidListingSort, raw)
	}
}

// ListingQuery filters and orders the listing catalogue.
type ListingQuery struct {
	Search string
	Sort   ListingSort
}

// IsDefault reports whether the query is the unfiltered catalogue in default order.
func (query ListingQuery) IsDefault() bool {
	return strings.TrimSpace(query.Search) == "" && (query.Sort == "" || query.Sort == ListingSortName)
}

// Store is the record store contract used by Service.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	ListListings(ctx context.Context, query ListingQuery) ([]Listing, error)
	GetListing(ctx context.Context, listingID ListingID) (Listing, error)
	CreateListing(ctx context.Context, listing Listing) (Listing, error)
	UpdateListing(ctx context.Context, listing Listing) error
	DeleteListing(ctx context.Context, listingID ListingID) error

	ListRooms(ctx context.Context, listingID ListingID) ([]Room, error)
	GetRoom(ctx context.Context, roomID RoomID) (Room, error)
	CreateRoom(ctx context.Context, room Room) (Room, error)
	UpdateRoom(ctx context.Context, room Room) error

	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, bookingID BookingID) (Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID BookingID, from, to BookingStatus) error
	ListUserBookings(ctx context.Context, userID UserID) ([]BookingSummary, error)
	HasConfirmedBooking(ctx context.Context, userID UserID, listingID ListingID) (bool, error)

	ListReviews(ctx context.Context, listingID ListingID) ([]Review, error)
	CreateReview(ctx context.Context, review Review) (Review, error)

	GetProfile(ctx context.Context, userID UserID) (Profile, error)
	UpsertProfile(ctx context.Context, profile Profile) (Profile, error)

	CreateHostApplication(ctx context.Context, application HostApplication) (HostApplication, error)
	ListHostApplications(ctx context.Context) ([]HostApplication, error)
}
