package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
)

type stayRequest struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type checkoutRequest struct {
	stayRequest
	Guests  int    `json:"guests" binding:"omitempty,min=1,max=6"`
	Payment string `json:"payment" binding:"required,oneof=wallet pay_later pay_at_venue"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"min=0,max=5"`
	Comment string `json:"comment"`
}

type profileRequest struct {
	FullName  string `json:"full_name" binding:"max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

type hostApplicationRequest struct {
	Type        string `json:"type" binding:"omitempty,oneof=home experience service"`
	FullName    string `json:"full_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"required,email"`
	City        string `json:"city" binding:"required,max=200"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
}

func (request hostApplicationRequest) application() booking.HostApplication {
	return booking.HostApplication{
		Type:        booking.HostingType(request.Type),
		FullName:    request.FullName,
		Email:       request.Email,
		City:        request.City,
		Title:       request.Title,
		Description: request.Description,
	}
}

type listingRequest struct {
	Name          string               `json:"name" binding:"required"`
	Location      string               `json:"location" binding:"required"`
	City          string               `json:"city"`
	Country       string               `json:"country"`
	Description   string               `json:"description"`
	PricePerNight int64                `json:"price_per_night" binding:"required,gt=0"`
	Rating        float64              `json:"rating" binding:"min=0,max=5"`
	ImageURL      string               `json:"image_url" binding:"omitempty,url"`
	Amenities     booking.AmenityLists `json:"amenities"`
}

type roomRequest struct {
	RoomType       string   `json:"room_type" binding:"required"`
	Capacity       int      `json:"capacity" binding:"required,min=1"`
	PricePerNight  int64    `json:"price_per_night" binding:"required,gt=0"`
	AvailableRooms int      `json:"available_rooms" binding:"min=0"`
	Amenities      []string `json:"amenities"`
}

type listingPayload struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Location      string               `json:"location"`
	City          string               `json:"city"`
	Country       string               `json:"country"`
	Description   string               `json:"description"`
	PricePerNight int64                `json:"price_per_night"`
	Rating        float64              `json:"rating"`
	ImageURL      string               `json:"image_url"`
	Amenities     booking.AmenityLists `json:"amenities"`
	CreatedAt     time.Time            `json:"created_at"`
}

type roomPayload struct {
	ID             string   `json:"id"`
	ListingID      string   `json:"listing_id"`
	RoomType       string   `json:"room_type"`
	Capacity       int      `json:"capacity"`
	PricePerNight  int64    `json:"price_per_night"`
	AvailableRooms int      `json:"available_rooms"`
	Amenities      []string `json:"amenities"`
}

type reviewPayload struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ListingID  string    `json:"listing_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type bookingPayload struct {
	ID                   string    `json:"id"`
	ListingID            string    `json:"listing_id"`
	RoomID               string    `json:"room_id"`
	CheckIn              time.Time `json:"check_in"`
	CheckOut             time.Time `json:"check_out"`
	Guests               int       `json:"guests"`
	TotalAmount          int64     `json:"total_amount"`
	PaymentMethod        string    `json:"payment_method"`
	PaymentTransactionID string    `json:"payment_transaction_id,omitempty"`
	PaymentAmount        *int64    `json:"payment_amount"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

type bookingSummaryPayload struct {
	bookingPayload
	ListingName     string `json:"listing_name"`
	ListingLocation string `json:"listing_location"`
	ListingCity     string `json:"listing_city"`
	ListingCountry  string `json:"listing_country"`
	ListingImageURL string `json:"listing_image_url"`
	RoomType        string `json:"room_type"`
}

type quotePayload struct {
	Nights      int   `json:"nights"`
	NightlyRate int64 `json:"nightly_rate"`
	TotalAmount int64 `json:"total_amount"`
}

type profilePayload struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

type hostApplicationPayload struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	City        string    `json:"city"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type listingDetailPayload struct {
	Listing   listingPayload  `json:"listing"`
	Rooms     []roomPayload   `json:"rooms"`
	Reviews   []reviewPayload `json:"reviews"`
	CanReview bool            `json:"can_review"`
}

// stayDateLayouts accepts full timestamps from date pickers and bare calendar dates.
var stayDateLayouts = []string{time.RFC3339Nano, time.DateOnly}

func parseStayDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range stayDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", booking.ErrInvalidStayRange, raw)
}

// stay converts the request into a stay; a blank room id leaves the room unselected.
func (request stayRequest) stay() (booking.RoomID, booking.StayDates, error) {
	var roomID booking.RoomID
	if strings.TrimSpace(request.RoomID) != "" {
		parsed, err := booking.NewRoomID(request.RoomID)
		if err != nil {
			return booking.RoomID{}, booking.StayDates{}, err
		}
		roomID = parsed
	}
	checkIn, err := parseStayDate(request.CheckIn)
	if err != nil {
		return booking.RoomID{}, booking.StayDates{}, err
	}
	checkOut, err := parseStayDate(request.CheckOut)
	if err != nil {
		return booking.RoomID{}, booking.StayDates{}, err
	}
	return roomID, booking.StayDates{CheckIn: checkIn, CheckOut: checkOut}, nil
}

func (request listingRequest) listing(listingID booking.ListingID) booking.Listing {
	return booking.Listing{
		ID:            listingID,
		Name:          strings.TrimSpace(request.Name),
		Location:      strings.TrimSpace(request.Location),
		City:          strings.TrimSpace(request.City),
		Country:       strings.TrimSpace(request.Country),
		Description:   request.Description,
		PricePerNight: booking.Amount(request.PricePerNight),
		Rating:        request.Rating,
		ImageURL:      strings.TrimSpace(request.ImageURL),
		Amenities:     request.Amenities,
	}
}

func (request roomRequest) room() booking.Room {
	return booking.Room{
		RoomType:       strings.TrimSpace(request.RoomType),
		Capacity:       request.Capacity,
		PricePerNight:  booking.Amount(request.PricePerNight),
		AvailableRooms: request.AvailableRooms,
		Amenities:      request.Amenities,
	}
}

func newListingPayload(listing booking.Listing) listingPayload {
	return listingPayload{
		ID:            listing.ID.String(),
		Name:          listing.Name,
		Location:      listing.Location,
		City:          listing.City,
		Country:       listing.Country,
		Description:   listing.Description,
		PricePerNight: listing.PricePerNight.Int64(),
		Rating:        listing.Rating,
		ImageURL:      listing.ImageURL,
		Amenities:     listing.Amenities,
		CreatedAt:     listing.CreatedAt,
	}
}

func newListingPayloads(listings []booking.Listing) []listingPayload {
	payloads := make([]listingPayload, 0, len(listings))
	for _, listing := range listings {
		payloads = append(payloads, newListingPayload(listing))
	}
	return payloads
}

func newRoomPayload(room booking.Room) roomPayload {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return roomPayload{
		ID:             room.ID.String(),
		ListingID:      room.ListingID.String(),
		RoomType:       room.RoomType,
		Capacity:       room.Capacity,
		PricePerNight:  room.PricePerNight.Int64(),
		AvailableRooms: room.AvailableRooms,
		Amenities:      amenities,
	}
}

func newReviewPayload(review booking.Review) reviewPayload {
	return reviewPayload{
		ID:         review.ID.String(),
		UserID:     review.UserID.String(),
		ListingID:  review.ListingID.String(),
		Rating:     review.Rating.Int(),
		Comment:    review.Comment,
		AuthorName: review.AuthorName,
		CreatedAt:  review.CreatedAt,
	}
}

func newBookingPayload(record booking.Booking) bookingPayload {
	payload := bookingPayload{
		ID:                   record.ID.String(),
		ListingID:            record.ListingID.String(),
		RoomID:               record.RoomID.String(),
		CheckIn:              record.CheckIn,
		CheckOut:             record.CheckOut,
		Guests:               record.Guests.Int(),
		TotalAmount:          record.TotalAmount.Int64(),
		PaymentMethod:        record.PaymentMethod.String(),
		PaymentTransactionID: record.PaymentTransactionID,
		Status:               record.Status.String(),
		CreatedAt:            record.CreatedAt,
	}
	if record.PaymentAmount != nil {
		paymentAmount := record.PaymentAmount.Int64()
		payload.PaymentAmount = &paymentAmount
	}
	return payload
}

func newBookingSummaryPayloads(summaries []booking.BookingSummary) []bookingSummaryPayload {
	payloads := make([]bookingSummaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		payloads = append(payloads, bookingSummaryPayload{
			bookingPayload:  newBookingPayload(summary.Booking),
			ListingName:     summary.ListingName,
			ListingLocation: summary.ListingLocation,
			ListingCity:     summary.ListingCity,
			ListingCountry:  summary.ListingCountry,
			ListingImageURL: summary.ListingImageURL,
			RoomType:        summary.RoomType,
		})
	}
	return payloads
}

func newQuotePayload(quote booking.StayQuote) quotePayload {
	return quotePayload{
		Nights:      quote.Nights,
		NightlyRate: quote.NightlyRate.Int64(),
		TotalAmount: quote.TotalAmount.Int64(),
	}
}

func newProfilePayload(profile booking.Profile) profilePayload {
	return profilePayload{
		UserID:    profile.UserID.String(),
		FullName:  profile.FullName,
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
		UpdatedAt: profile.UpdatedAt,
	}
}

func newListingDetailPayload(detail booking.ListingDetail) listingDetailPayload {
	rooms := make([]roomPayload, 0, len(detail.Rooms))
	for _, room := range detail.Rooms {
		rooms = append(rooms, newRoomPayload(room))
	}
	reviews := make([]reviewPayload, 0, len(detail.Reviews))
	for _, review := range detail.Reviews {
		reviews = append(reviews, newReviewPayload(review))
	}
	return listingDetailPayload{
		Listing:   newListingPayload(detail.Listing),
		Rooms:     rooms,
		Reviews:   reviews,
		CanReview: detail.CanReview,
	}
}

func newHostApplicationPayload(application booking.HostApplication) hostApplicationPayload {
	return hostApplicationPayload{
		ID:          application.ID,
		Type:        application.Type.String(),
		FullName:    application.FullName,
		Email:       application.Email,
		City:        application.City,
		Title:       application.Title,
		Description: application.Description,
		Status:      application.Status,
		CreatedAt:   application.CreatedAt,
	}
}

func newHostApplicationPayloads(applications []booking.HostApplication) []hostApplicationPayload {
	payloads := make([]hostApplicationPayload, 0, len(applications))
	for _, application := range applications {
		payloads = append(payloads, newHostApplicationPayload(application))
	}
	return payloads
}
