package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing represents the listings table.
type Listing struct {
	ListingID     string         `gorm:"primaryKey"`
	Name          string         `gorm:"not null;index:idx_listings_name"`
	Location      string         `gorm:"not null"`
	City          string         `gorm:"not null;default:''"`
	Country       string         `gorm:"not null;default:''"`
	Description   string         `gorm:"not null;default:''"`
	PricePerNight int64          `gorm:"not null"`
	Rating        float64        `gorm:"not null;default:0"`
	ImageURL      string         `gorm:"not null;default:''"`
	Amenities     datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null"`
}

func (Listing) TableName() string { return "listings" }

func (listing *Listing) BeforeCreate(tx *gorm.DB) error {
	if listing.ListingID == "" {
		listing.ListingID = uuid.NewString()
	}
	return nil
}

// Room mirrors the rooms table.
type Room struct {
	RoomID         string         `gorm:"primaryKey"`
	ListingID      string         `gorm:"not null;index:idx_rooms_listing_price,priority:1"`
	RoomType       string         `gorm:"not null"`
	Capacity       int            `gorm:"not null"`
	PricePerNight  int64          `gorm:"not null;index:idx_rooms_listing_price,priority:2"`
	AvailableRooms int            `gorm:"not null;default:0"`
	Amenities      datatypes.JSON `gorm:"not null"`
}

func (Room) TableName() string { return "rooms" }

func (room *Room) BeforeCreate(tx *gorm.DB) error {
	if room.RoomID == "" {
		room.RoomID = uuid.NewString()
	}
	return nil
}

// Booking mirrors the bookings table.
type Booking struct {
	BookingID            string    `gorm:"primaryKey"`
	UserID               string    `gorm:"not null;index:idx_bookings_user_created,priority:1;index:idx_bookings_user_listing_status,priority:1"`
	ListingID            string    `gorm:"not null;index:idx_bookings_user_listing_status,priority:2"`
	RoomID               string    `gorm:"not null"`
	CheckIn              time.Time `gorm:"not null"`
	CheckOut             time.Time `gorm:"not null"`
	Guests               int       `gorm:"not null"`
	TotalAmount          int64     `gorm:"not null"`
	PaymentMethod        string    `gorm:"not null;default:''"`
	PaymentTransactionID *string
	PaymentAmount        *int64
	Status               string    `gorm:"not null;index:idx_bookings_user_listing_status,priority:3"`
	CreatedAt            time.Time `gorm:"not null;index:idx_bookings_user_created,priority:2"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

func (booking *Booking) BeforeCreate(tx *gorm.DB) error {
	if booking.BookingID == "" {
		booking.BookingID = uuid.NewString()
	}
	return nil
}

// Review mirrors the reviews table.
type Review struct {
	ReviewID  string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null"`
	ListingID string    `gorm:"not null;index:idx_reviews_listing_created,priority:1"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_reviews_listing_created,priority:2"`
}

func (Review) TableName() string { return "reviews" }

func (review *Review) BeforeCreate(tx *gorm.DB) error {
	if review.ReviewID == "" {
		review.ReviewID = uuid.NewString()
	}
	return nil
}

// Profile mirrors the profiles table.
type Profile struct {
	UserID    string    `gorm:"primaryKey"`
	FullName  string    `gorm:"not null;default:''"`
	Email     string    `gorm:"not null;default:''"`
	AvatarURL string    `gorm:"not null;default:''"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Profile) TableName() string { return "profiles" }

// HostApplication mirrors the host_applications table.
type HostApplication struct {
	ApplicationID string    `gorm:"primaryKey"`
	Type          string    `gorm:"not null"`
	FullName      string    `gorm:"not null"`
	Email         string    `gorm:"not null"`
	City          string    `gorm:"not null"`
	Title         string    `gorm:"not null"`
	Description   string    `gorm:"not null"`
	Status        string    `gorm:"not null;default:'pending'"`
	CreatedAt     time.Time `gorm:"not null;index:idx_host_applications_created"`
}

func (HostApplication) TableName() string { return "host_applications" }

func (application *HostApplication) BeforeCreate(tx *gorm.DB) error {
	if application.ApplicationID == "" {
		application.ApplicationID = uuid.NewString()
	}
	return nil
}

// Models lists every table the store needs, in migration order.
func Models() []any {
	return []any{&Listing{}, &Room{}, &Booking{}, &Review{}, &Profile{}, &HostApplication{}}
}

type reviewRow struct {
	Review
	AuthorName *string
}

type bookingSummaryRow struct {
	Booking
	ListingName     string
	ListingLocation string
	ListingCity     string
	ListingCountry  string
	ListingImageURL string
	RoomType        string
}
