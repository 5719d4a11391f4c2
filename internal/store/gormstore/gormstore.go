package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultAmenitiesJSON   = "{}"
	defaultRoomAmenities   = "[]"
	pgUniqueViolationCode  = "23505"
	sqliteConstraintCode   = 19
	errorOperationStore    = "store"
	errorSubjectListing    = "listing"
	errorSubjectRoom       = "room"
	errorSubjectBooking    = "booking"
	errorSubjectReview     = "review"
	errorSubjectProfile    = "profile"
	errorSubjectHost       = "host_application"
	errorCodeCreate        = "create"
	errorCodeDelete        = "delete"
	errorCodeDuplicate     = "duplicate"
	errorCodeEligibility   = "eligibility"
	errorCodeGet           = "get"
	errorCodeInvalid       = "invalid"
	errorCodeList          = "list"
	errorCodeUpdate        = "update"
	errorCodeUpdateStatus  = "update_status"
	errorCodeUpsert        = "upsert"
	reviewSelectColumns    = "reviews.*, profiles.full_name AS author_name"
	reviewProfileJoin      = "LEFT JOIN profiles ON profiles.user_id = reviews.user_id"
	bookingSummaryColumns  = "bookings.*, listings.name AS listing_name, listings.location AS listing_location, listings.city AS listing_city, listings.country AS listing_country, listings.image_url AS listing_image_url, rooms.room_type AS room_type"
	bookingListingJoin     = "JOIN listings ON listings.listing_id = bookings.listing_id"
	bookingRoomJoin        = "JOIN rooms ON rooms.room_id = bookings.room_id"
	listingSearchCondition = "LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(country) LIKE ?"
)

// Store implements booking.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

func (store *Store) ListListings(ctx context.Context, query booking.ListingQuery) ([]booking.Listing, error) {
	statement := store.db.WithContext(ctx).Model(&Listing{})
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		pattern := "%" + search + "%"
		statement = statement.Where(listingSearchCondition, pattern, pattern, pattern)
	}
	statement = statement.Order(listingOrder(query.Sort))

	var rows []Listing
	if err := statement.Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectListing, errorCodeList, err)
	}
	listings := make([]booking.Listing, 0, len(rows))
	for _, row := range rows {
		listing, err := mapListing(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func (store *Store) GetListing(ctx context.Context, listingID booking.ListingID) (booking.Listing, error) {
	var row Listing
	err := store.db.WithContext(ctx).Where("listing_id = ?", listingID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeGet, booking.ErrListingNotFound)
		}
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeGet, err)
	}
	listing, err := mapListing(row)
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	return listing, nil
}

func (store *Store) CreateListing(ctx context.Context, listing booking.Listing) (booking.Listing, error) {
	amenities, err := json.Marshal(listing.Amenities)
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	row := Listing{
		ListingID:     listing.ID.String(),
		Name:          listing.Name,
		Location:      listing.Location,
		City:          listing.City,
		Country:       listing.Country,
		Description:   listing.Description,
		PricePerNight: listing.PricePerNight.Int64(),
		Rating:        listing.Rating,
		ImageURL:      listing.ImageURL,
		Amenities:     datatypesJSON(amenities, defaultAmenitiesJSON),
		CreatedAt:     listing.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	err = store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeDuplicate, booking.ErrDuplicateRecord)
	}
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeCreate, err)
	}
	created, err := mapListing(row)
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	return created, nil
}

func (store *Store) UpdateListing(ctx context.Context, listing booking.Listing) error {
	amenities, err := json.Marshal(listing.Amenities)
	if err != nil {
		return wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	result := store.db.WithContext(ctx).
		Model(&Listing{}).
		Where("listing_id = ?", listing.ID.String()).
		Updates(map[string]any{
			"name":            listing.Name,
			"location":        listing.Location,
			"city":            listing.City,
			"country":         listing.Country,
			"description":     listing.Description,
			"price_per_night": listing.PricePerNight.Int64(),
			"rating":          listing.Rating,
			"image_url":       listing.ImageURL,
			"amenities":       datatypesJSON(amenities, defaultAmenitiesJSON),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectListing, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectListing, errorCodeUpdate, booking.ErrListingNotFound)
	}
	return nil
}

func (store *Store) DeleteListing(ctx context.Context, listingID booking.ListingID) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		var bookingCount int64
		if err := transaction.Model(&Booking{}).Where("listing_id = ?", listingID.String()).Count(&bookingCount).Error; err != nil {
			return wrapStoreError(errorSubjectBooking, errorCodeList, err)
		}
		if bookingCount > 0 {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, booking.ErrListingHasBookings)
		}
		if err := transaction.Where("listing_id = ?", listingID.String()).Delete(&Room{}).Error; err != nil {
			return wrapStoreError(errorSubjectRoom, errorCodeDelete, err)
		}
		result := transaction.Where("listing_id = ?", listingID.String()).Delete(&Listing{})
		if result.Error != nil {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, result.Error)
		}
		if result.RowsAffected == 0 {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, booking.ErrListingNotFound)
		}
		return nil
	})
}

func (store *Store) ListRooms(ctx context.Context, listingID booking.ListingID) ([]booking.Room, error) {
	var rows []Room
	err := store.db.WithContext(ctx).
		Where("listing_id = ?", listingID.String()).
		Order("price_per_night ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	rooms := make([]booking.Room, 0, len(rows))
	for _, row := range rows {
		room, err := mapRoom(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (store *Store) GetRoom(ctx context.Context, roomID booking.RoomID) (booking.Room, error) {
	var row Room
	err := store.db.WithContext(ctx).Where("room_id = ?", roomID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, booking.ErrRoomNotFound)
		}
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, err)
	}
	room, err := mapRoom(row)
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	return room, nil
}

func (store *Store) CreateRoom(ctx context.Context, room booking.Room) (booking.Room, error) {
	amenities, err := json.Marshal(nonNilStrings(room.Amenities))
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	row := Room{
		RoomID:         room.ID.String(),
		ListingID:      room.ListingID.String(),
		RoomType:       room.RoomType,
		Capacity:       room.Capacity,
		PricePerNight:  room.PricePerNight.Int64(),
		AvailableRooms: room.AvailableRooms,
		Amenities:      datatypesJSON(amenities, defaultRoomAmenities),
	}
	err = store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeDuplicate, booking.ErrDuplicateRecord)
	}
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeCreate, err)
	}
	created, err := mapRoom(row)
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	return created, nil
}

func (store *Store) UpdateRoom(ctx context.Context, room booking.Room) error {
	amenities, err := json.Marshal(nonNilStrings(room.Amenities))
	if err != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	result := store.db.WithContext(ctx).
		Model(&Room{}).
		Where("room_id = ?", room.ID.String()).
		Updates(map[string]any{
			"room_type":       room.RoomType,
			"capacity":        room.Capacity,
			"price_per_night": room.PricePerNight.Int64(),
			"available_rooms": room.AvailableRooms,
			"amenities":       datatypesJSON(amenities, defaultRoomAmenities),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, booking.ErrRoomNotFound)
	}
	return nil
}

func (store *Store) CreateBooking(ctx context.Context, record booking.Booking) (booking.Booking, error) {
	row := Booking{
		UserID:        record.UserID.String(),
		ListingID:     record.ListingID.String(),
		RoomID:        record.RoomID.String(),
		CheckIn:       record.CheckIn.UTC(),
		CheckOut:      record.CheckOut.UTC(),
		Guests:        record.Guests.Int(),
		TotalAmount:   record.TotalAmount.Int64(),
		PaymentMethod: record.PaymentMethod.String(),
		Status:        record.Status.String(),
		CreatedAt:     record.CreatedAt,
	}
	if record.PaymentTransactionID != "" {
		transactionID := record.PaymentTransactionID
		row.PaymentTransactionID = &transactionID
	}
	if record.PaymentAmount != nil {
		paymentAmount := record.PaymentAmount.Int64()
		row.PaymentAmount = &paymentAmount
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeCreate, err)
	}
	created, err := mapBooking(row)
	if err != nil {
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return created, nil
}

func (store *Store) GetBooking(ctx context.Context, bookingID booking.BookingID) (booking.Booking, error) {
	var row Booking
	err := store.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("booking_id = ?", bookingID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, booking.ErrBookingNotFound)
		}
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	found, err := mapBooking(row)
	if err != nil {
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return found, nil
}

func (store *Store) UpdateBookingStatus(ctx context.Context, bookingID booking.BookingID, from, to booking.BookingStatus) error {
	result := store.db.WithContext(ctx).
		Model(&Booking{}).
		Where("booking_id = ? AND status = ?", bookingID.String(), from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdateStatus, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdateStatus, booking.ErrInvalidStatusTransition)
	}
	return nil
}

func (store *Store) ListUserBookings(ctx context.Context, userID booking.UserID) ([]booking.BookingSummary, error) {
	var rows []bookingSummaryRow
	err := store.db.WithContext(ctx).
		Table("bookings").
		Select(bookingSummaryColumns).
		Joins(bookingListingJoin).
		Joins(bookingRoomJoin).
		Where("bookings.user_id = ?", userID.String()).
		Order("bookings.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	summaries := make([]booking.BookingSummary, 0, len(rows))
	for _, row := range rows {
		mapped, err := mapBooking(row.Booking)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
		}
		summaries = append(summaries, booking.BookingSummary{
			Booking:         mapped,
			ListingName:     row.ListingName,
			ListingLocation: row.ListingLocation,
			ListingCity:     row.ListingCity,
			ListingCountry:  row.ListingCountry,
			ListingImageURL: row.ListingImageURL,
			RoomType:        row.RoomType,
		})
	}
	return summaries, nil
}

func (store *Store) HasConfirmedBooking(ctx context.Context, userID booking.UserID, listingID booking.ListingID) (bool, error) {
	var count int64
	err := store.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ? AND listing_id = ? AND status = ?", userID.String(), listingID.String(), booking.BookingStatusConfirmed.String()).
		Count(&count).Error
	if err != nil {
		return false, wrapStoreError(errorSubjectBooking, errorCodeEligibility, err)
	}
	return count > 0, nil
}

func (store *Store) ListReviews(ctx context.Context, listingID booking.ListingID) ([]booking.Review, error) {
	var rows []reviewRow
	err := store.db.WithContext(ctx).
		Table("reviews").
		Select(reviewSelectColumns).
		Joins(reviewProfileJoin).
		Where("reviews.listing_id = ?", listingID.String()).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReview, errorCodeList, err)
	}
	reviews := make([]booking.Review, 0, len(rows))
	for _, row := range rows {
		review, err := mapReview(row.Review)
		if err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
		}
		if row.AuthorName != nil {
			review.AuthorName = *row.AuthorName
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (store *Store) CreateReview(ctx context.Context, review booking.Review) (booking.Review, error) {
	row := Review{
		UserID:    review.UserID.String(),
		ListingID: review.ListingID.String(),
		Rating:    review.Rating.Int(),
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return booking.Review{}, wrapStoreError(errorSubjectReview, errorCodeCreate, err)
	}
	created, err := mapReview(row)
	if err != nil {
		return booking.Review{}, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
	}
	return created, nil
}

func (store *Store) CreateHostApplication(ctx context.Context, application booking.HostApplication) (booking.HostApplication, error) {
	row := HostApplication{
		Type:        application.Type.String(),
		FullName:    application.FullName,
		Email:       application.Email,
		City:        application.City,
		Title:       application.Title,
		Description: application.Description,
		Status:      application.Status,
		CreatedAt:   application.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return booking.HostApplication{}, wrapStoreError(errorSubjectHost, errorCodeCreate, err)
	}
	return mapHostApplication(row), nil
}

func (store *Store) ListHostApplications(ctx context.Context) ([]booking.HostApplication, error) {
	var rows []HostApplication
	if err := store.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectHost, errorCodeList, err)
	}
	applications := make([]booking.HostApplication, 0, len(rows))
	for _, row := range rows {
		applications = append(applications, mapHostApplication(row))
	}
	return applications, nil
}

func (store *Store) GetProfile(ctx context.Context, userID booking.UserID) (booking.Profile, error) {
	var row Profile
	err := store.db.WithContext(ctx).Where("user_id = ?", userID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, booking.ErrProfileNotFound)
		}
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, err)
	}
	return mapProfile(row)
}

func (store *Store) UpsertProfile(ctx context.Context, profile booking.Profile) (booking.Profile, error) {
	row := Profile{
		UserID:    profile.UserID.String(),
		FullName:  profile.FullName,
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
		UpdatedAt: profile.UpdatedAt,
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	err := store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "avatar_url", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeUpsert, err)
	}
	return mapProfile(row)
}

func wrapStoreError(subject string, code string, err error) error {
	return booking.WrapError(errorOperationStore, subject, code, err)
}

func listingOrder(sort booking.ListingSort) string {
	switch sort {
	case booking.ListingSortPriceLow:
		return "price_per_night ASC"
	case booking.ListingSortPriceHigh:
		return "price_per_night DESC"
	case booking.ListingSortRating:
		return "rating DESC"
	default:
		return "name ASC"
	}
}

func mapListing(row Listing) (booking.Listing, error) {
	listingID, err := booking.NewListingID(row.ListingID)
	if err != nil {
		return booking.Listing{}, err
	}
	var amenities booking.AmenityLists
	if len(row.Amenities) > 0 {
		if err := json.Unmarshal(row.Amenities, &amenities); err != nil {
			return booking.Listing{}, err
		}
	}
	return booking.Listing{
		ID:            listingID,
		Name:          row.Name,
		Location:      row.Location,
		City:          row.City,
		Country:       row.Country,
		Description:   row.Description,
		PricePerNight: booking.Amount(row.PricePerNight),
		Rating:        row.Rating,
		ImageURL:      row.ImageURL,
		Amenities:     amenities,
		CreatedAt:     row.CreatedAt.UTC(),
	}, nil
}

func mapRoom(row Room) (booking.Room, error) {
	roomID, err := booking.NewRoomID(row.RoomID)
	if err != nil {
		return booking.Room{}, err
	}
	listingID, err := booking.NewListingID(row.ListingID)
	if err != nil {
		return booking.Room{}, err
	}
	amenities := []string{}
	if len(row.Amenities) > 0 {
		if err := json.Unmarshal(row.Amenities, &amenities); err != nil {
			return booking.Room{}, err
		}
	}
	return booking.Room{
		ID:             roomID,
		ListingID:      listingID,
		RoomType:       row.RoomType,
		Capacity:       row.Capacity,
		PricePerNight:  booking.Amount(row.PricePerNight),
		AvailableRooms: row.AvailableRooms,
		Amenities:      amenities,
	}, nil
}

func mapBooking(row Booking) (booking.Booking, error) {
	bookingID, err := booking.NewBookingID(row.BookingID)
	if err != nil {
		return booking.Booking{}, err
	}
	userID, err := booking.NewUserID(row.UserID)
	if err != nil {
		return booking.Booking{}, err
	}
	listingID, err := booking.NewListingID(row.ListingID)
	if err != nil {
		return booking.Booking{}, err
	}
	roomID, err := booking.NewRoomID(row.RoomID)
	if err != nil {
		return booking.Booking{}, err
	}
	guests, err := booking.NewGuestCount(row.Guests)
	if err != nil {
		return booking.Booking{}, err
	}
	status, err := booking.ParseBookingStatus(row.Status)
	if err != nil {
		return booking.Booking{}, err
	}
	mapped := booking.Booking{
		ID:            bookingID,
		UserID:        userID,
		ListingID:     listingID,
		RoomID:        roomID,
		CheckIn:       row.CheckIn.UTC(),
		CheckOut:      row.CheckOut.UTC(),
		Guests:        guests,
		TotalAmount:   booking.Amount(row.TotalAmount),
		PaymentMethod: booking.PaymentMethod(row.PaymentMethod),
		Status:        status,
		CreatedAt:     row.CreatedAt.UTC(),
	}
	if row.PaymentTransactionID != nil {
		mapped.PaymentTransactionID = *row.PaymentTransactionID
	}
	if row.PaymentAmount != nil {
		paymentAmount := booking.Amount(*row.PaymentAmount)
		mapped.PaymentAmount = &paymentAmount
	}
	return mapped, nil
}

func mapReview(row Review) (booking.Review, error) {
	reviewID, err := booking.NewReviewID(row.ReviewID)
	if err != nil {
		return booking.Review{}, err
	}
	userID, err := booking.NewUserID(row.UserID)
	if err != nil {
		return booking.Review{}, err
	}
	listingID, err := booking.NewListingID(row.ListingID)
	if err != nil {
		return booking.Review{}, err
	}
	rating, err := booking.NewRating(row.Rating)
	if err != nil {
		return booking.Review{}, err
	}
	return booking.Review{
		ID:        reviewID,
		UserID:    userID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}

func mapProfile(row Profile) (booking.Profile, error) {
	userID, err := booking.NewUserID(row.UserID)
	if err != nil {
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	return booking.Profile{
		UserID:    userID,
		FullName:  row.FullName,
		Email:     row.Email,
		AvatarURL: row.AvatarURL,
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func datatypesJSON(raw []byte, fallback string) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON([]byte(fallback))
	}
	return datatypes.JSON(raw)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}

func mapHostApplication(row HostApplication) booking.HostApplication {
	return booking.HostApplication{
		ID:          row.ApplicationID,
		Type:        booking.HostingType(row.Type),
		FullName:    row.FullName,
		Email:       row.Email,
		City:        row.City,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
