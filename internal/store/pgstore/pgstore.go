package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolationCode = "23505"
	errorOperationStore   = "store"
	errorSubjectListing   = "listing"
	errorSubjectRoom      = "room"
	errorSubjectBooking   = "booking"
	errorSubjectReview    = "review"
	errorSubjectProfile   = "profile"
	errorSubjectHost      = "host_application"
	errorSubjectTx        = "transaction"
	errorCodeBegin        = "begin"
	errorCodeCommit       = "commit"
	errorCodeCreate       = "create"
	errorCodeDelete       = "delete"
	errorCodeDuplicate    = "duplicate"
	errorCodeEligibility  = "eligibility"
	errorCodeGet          = "get"
	errorCodeInvalid      = "invalid"
	errorCodeList         = "list"
	errorCodeUpdate       = "update"
	errorCodeUpdateStatus = "update_status"
	errorCodeUpsert       = "upsert"

	listingColumns = `listing_id, name, location, city, country, description, price_per_night, rating, image_url, coalesce(amenities::text,'{}'), created_at`

	sqlListListings = `
		select ` + listingColumns + `
		from listings
		where $1 = '' or lower(name) like $1 or lower(city) like $1 or lower(country) like $1
	`

	sqlSelectListing = `
		select ` + listingColumns + `
		from listings
		where listing_id = $1
	`

	sqlInsertListing = `
		insert into listings(listing_id, name, location, city, country, description, price_per_night, rating, image_url, amenities, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
	`

	sqlUpdateListing = `
		update listings
		set name = $2, location = $3, city = $4, country = $5, description = $6,
			price_per_night = $7, rating = $8, image_url = $9, amenities = $10::jsonb
		where listing_id = $1
	`

	sqlListingHasBookings = `select exists(select 1 from bookings where listing_id = $1)`
	sqlDeleteListingRooms = `delete from rooms where listing_id = $1`
	sqlDeleteListing      = `delete from listings where listing_id = $1`

	roomColumns = `room_id, listing_id, room_type, capacity, price_per_night, available_rooms, coalesce(amenities::text,'[]')`

	sqlListRooms = `
		select ` + roomColumns + `
		from rooms
		where listing_id = $1
		order by price_per_night asc
	`

	sqlSelectRoom = `
		select ` + roomColumns + `
		from rooms
		where room_id = $1
	`

	sqlInsertRoom = `
		insert into rooms(room_id, listing_id, room_type, capacity, price_per_night, available_rooms, amenities)
		values ($1, $2, $3, $4, $5, $6, $7::jsonb)
	`

	sqlUpdateRoom = `
		update rooms
		set room_type = $2, capacity = $3, price_per_night = $4, available_rooms = $5, amenities = $6::jsonb
		where room_id = $1
	`

	bookingColumns = `b.booking_id, b.user_id, b.listing_id, b.room_id, b.check_in, b.check_out, b.guests, b.total_amount,
		b.payment_method, coalesce(b.payment_transaction_id,''), b.payment_amount, b.status, b.created_at`

	sqlInsertBooking = `
		insert into bookings(
			booking_id, user_id, listing_id, room_id, check_in, check_out, guests, total_amount,
			payment_method, payment_transaction_id, payment_amount, status, created_at, updated_at
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, nullif($10,''), $11, $12, $13, $13)
	`

	sqlSelectBooking = `
		select ` + bookingColumns + `
		from bookings b
		where b.booking_id = $1
		for update
	`

	sqlUpdateBookingStatus = `
		update bookings
		set status = $3, updated_at = now()
		where booking_id = $1 and status = $2
	`

	sqlListUserBookings = `
		select ` + bookingColumns + `,
			l.name, l.location, l.city, l.country, l.image_url, r.room_type
		from bookings b
		join listings l on l.listing_id = b.listing_id
		join rooms r on r.room_id = b.room_id
		where b.user_id = $1
		order by b.created_at desc
	`

	sqlHasConfirmedBooking = `
		select exists(
			select 1 from bookings
			where user_id = $1 and listing_id = $2 and status = $3
		)
	`

	sqlListReviews = `
		select rv.review_id, rv.user_id, rv.listing_id, rv.rating, rv.comment, rv.created_at, coalesce(p.full_name,'')
		from reviews rv
		left join profiles p on p.user_id = rv.user_id
		where rv.listing_id = $1
		order by rv.created_at desc
	`

	sqlInsertReview = `
		insert into reviews(review_id, user_id, listing_id, rating, comment, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`

	sqlSelectProfile = `
		select user_id, full_name, email, avatar_url, updated_at
		from profiles
		where user_id = $1
	`

	sqlUpsertProfile = `
		insert into profiles(user_id, full_name, email, avatar_url, updated_at)
		values ($1, $2, $3, $4, $5)
		on conflict (user_id) do update
		set full_name = excluded.full_name, email = excluded.email, avatar_url = excluded.avatar_url, updated_at = excluded.updated_at
	`

	sqlInsertHostApplication = `
		insert into host_applications(application_id, type, full_name, email, city, title, description, status, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	sqlListHostApplications = `
		select application_id, type, full_name, email, city, title, description, status, created_at
		from host_applications
		order by created_at desc
	`
)

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements booking.Store using a pgx connection pool (autocommit).
// Stores handed to WithTx callbacks run every statement on the open transaction.
type Store struct {
	pool *pgxpool.Pool
	conn querier
}

// New returns a Store backed by a pgx pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, conn: pool}
}

func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	if store.pool == nil {
		return fn(ctx, store)
	}
	tx, err := store.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapStoreError(errorSubjectTx, errorCodeBegin, err)
	}
	if err := fn(ctx, &Store{conn: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapStoreError(errorSubjectTx, errorCodeCommit, err)
	}
	return nil
}

func (store *Store) ListListings(ctx context.Context, query booking.ListingQuery) ([]booking.Listing, error) {
	pattern := ""
	if search := strings.ToLower(strings.TrimSpace(query.Search)); search != "" {
		pattern = "%" + search + "%"
	}
	rows, err := store.conn.Query(ctx, sqlListListings+listingOrder(query.Sort), pattern)
	if err != nil {
		return nil, wrapStoreError(errorSubjectListing, errorCodeList, err)
	}
	defer rows.Close()
	listings := make([]booking.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectListing, errorCodeList, err)
	}
	return listings, nil
}

func (store *Store) GetListing(ctx context.Context, listingID booking.ListingID) (booking.Listing, error) {
	listing, err := scanListing(store.conn.QueryRow(ctx, sqlSelectListing, listingID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeGet, booking.ErrListingNotFound)
		}
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeGet, err)
	}
	return listing, nil
}

func (store *Store) CreateListing(ctx context.Context, listing booking.Listing) (booking.Listing, error) {
	amenities, err := json.Marshal(listing.Amenities)
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	if listing.ID.String() == "" {
		listing.ID, err = booking.NewListingID(uuid.NewString())
		if err != nil {
			return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
		}
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}
	_, err = store.conn.Exec(ctx, sqlInsertListing,
		listing.ID.String(),
		listing.Name,
		listing.Location,
		listing.City,
		listing.Country,
		listing.Description,
		listing.PricePerNight.Int64(),
		listing.Rating,
		listing.ImageURL,
		string(amenities),
		listing.CreatedAt,
	)
	if isUniqueViolation(err) {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeDuplicate, booking.ErrDuplicateRecord)
	}
	if err != nil {
		return booking.Listing{}, wrapStoreError(errorSubjectListing, errorCodeCreate, err)
	}
	return listing, nil
}

func (store *Store) UpdateListing(ctx context.Context, listing booking.Listing) error {
	amenities, err := json.Marshal(listing.Amenities)
	if err != nil {
		return wrapStoreError(errorSubjectListing, errorCodeInvalid, err)
	}
	tag, err := store.conn.Exec(ctx, sqlUpdateListing,
		listing.ID.String(),
		listing.Name,
		listing.Location,
		listing.City,
		listing.Country,
		listing.Description,
		listing.PricePerNight.Int64(),
		listing.Rating,
		listing.ImageURL,
		string(amenities),
	)
	if err != nil {
		return wrapStoreError(errorSubjectListing, errorCodeUpdate, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapStoreError(errorSubjectListing, errorCodeUpdate, booking.ErrListingNotFound)
	}
	return nil
}

func (store *Store) DeleteListing(ctx context.Context, listingID booking.ListingID) error {
	return store.WithTx(ctx, func(ctx context.Context, txStore booking.Store) error {
		conn := txStore.(*Store).conn
		var hasBookings bool
		if err := conn.QueryRow(ctx, sqlListingHasBookings, listingID.String()).Scan(&hasBookings); err != nil {
			return wrapStoreError(errorSubjectBooking, errorCodeList, err)
		}
		if hasBookings {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, booking.ErrListingHasBookings)
		}
		if _, err := conn.Exec(ctx, sqlDeleteListingRooms, listingID.String()); err != nil {
			return wrapStoreError(errorSubjectRoom, errorCodeDelete, err)
		}
		tag, err := conn.Exec(ctx, sqlDeleteListing, listingID.String())
		if err != nil {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, err)
		}
		if tag.RowsAffected() == 0 {
			return wrapStoreError(errorSubjectListing, errorCodeDelete, booking.ErrListingNotFound)
		}
		return nil
	})
}

func (store *Store) ListRooms(ctx context.Context, listingID booking.ListingID) ([]booking.Room, error) {
	rows, err := store.conn.Query(ctx, sqlListRooms, listingID.String())
	if err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	defer rows.Close()
	rooms := make([]booking.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	return rooms, nil
}

func (store *Store) GetRoom(ctx context.Context, roomID booking.RoomID) (booking.Room, error) {
	room, err := scanRoom(store.conn.QueryRow(ctx, sqlSelectRoom, roomID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, booking.ErrRoomNotFound)
		}
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, err)
	}
	return room, nil
}

func (store *Store) CreateRoom(ctx context.Context, room booking.Room) (booking.Room, error) {
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	if room.ID.IsZero() {
		room.ID, err = booking.NewRoomID(uuid.NewString())
		if err != nil {
			return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
		}
	}
	_, err = store.conn.Exec(ctx, sqlInsertRoom,
		room.ID.String(),
		room.ListingID.String(),
		room.RoomType,
		room.Capacity,
		room.PricePerNight.Int64(),
		room.AvailableRooms,
		string(amenities),
	)
	if isUniqueViolation(err) {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeDuplicate, booking.ErrDuplicateRecord)
	}
	if err != nil {
		return booking.Room{}, wrapStoreError(errorSubjectRoom, errorCodeCreate, err)
	}
	return room, nil
}

func (store *Store) UpdateRoom(ctx context.Context, room booking.Room) error {
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	tag, err := store.conn.Exec(ctx, sqlUpdateRoom,
		room.ID.String(),
		room.RoomType,
		room.Capacity,
		room.PricePerNight.Int64(),
		room.AvailableRooms,
		string(amenities),
	)
	if err != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, booking.ErrRoomNotFound)
	}
	return nil
}

func (store *Store) CreateBooking(ctx context.Context, record booking.Booking) (booking.Booking, error) {
	bookingID, err := booking.NewBookingID(uuid.NewString())
	if err != nil {
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	record.ID = bookingID
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	var paymentAmount *int64
	if record.PaymentAmount != nil {
		value := record.PaymentAmount.Int64()
		paymentAmount = &value
	}
	_, err = store.conn.Exec(ctx, sqlInsertBooking,
		record.ID.String(),
		record.UserID.String(),
		record.ListingID.String(),
		record.RoomID.String(),
		record.CheckIn.UTC(),
		record.CheckOut.UTC(),
		record.Guests.Int(),
		record.TotalAmount.Int64(),
		record.PaymentMethod.String(),
		record.PaymentTransactionID,
		paymentAmount,
		record.Status.String(),
		record.CreatedAt,
	)
	if err != nil {
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeCreate, err)
	}
	return record, nil
}

func (store *Store) GetBooking(ctx context.Context, bookingID booking.BookingID) (booking.Booking, error) {
	found, err := scanBooking(store.conn.QueryRow(ctx, sqlSelectBooking, bookingID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, booking.ErrBookingNotFound)
		}
		return booking.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	return found, nil
}

func (store *Store) UpdateBookingStatus(ctx context.Context, bookingID booking.BookingID, from, to booking.BookingStatus) error {
	tag, err := store.conn.Exec(ctx, sqlUpdateBookingStatus, bookingID.String(), from.String(), to.String())
	if err != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdateStatus, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdateStatus, booking.ErrInvalidStatusTransition)
	}
	return nil
}

func (store *Store) ListUserBookings(ctx context.Context, userID booking.UserID) ([]booking.BookingSummary, error) {
	rows, err := store.conn.Query(ctx, sqlListUserBookings, userID.String())
	if err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	defer rows.Close()
	summaries := make([]booking.BookingSummary, 0)
	for rows.Next() {
		summary, err := scanBookingSummary(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	return summaries, nil
}

func (store *Store) HasConfirmedBooking(ctx context.Context, userID booking.UserID, listingID booking.ListingID) (bool, error) {
	var exists bool
	err := store.conn.QueryRow(ctx, sqlHasConfirmedBooking, userID.String(), listingID.String(), booking.BookingStatusConfirmed.String()).Scan(&exists)
	if err != nil {
		return false, wrapStoreError(errorSubjectBooking, errorCodeEligibility, err)
	}
	return exists, nil
}

func (store *Store) ListReviews(ctx context.Context, listingID booking.ListingID) ([]booking.Review, error) {
	rows, err := store.conn.Query(ctx, sqlListReviews, listingID.String())
	if err != nil {
		return nil, wrapStoreError(errorSubjectReview, errorCodeList, err)
	}
	defer rows.Close()
	reviews := make([]booking.Review, 0)
	for rows.Next() {
		var (
			reviewValue  string
			userValue    string
			listingValue string
			ratingValue  int
			review       booking.Review
		)
		if err := rows.Scan(&reviewValue, &userValue, &listingValue, &ratingValue, &review.Comment, &review.CreatedAt, &review.AuthorName); err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeList, err)
		}
		if review.ID, err = booking.NewReviewID(reviewValue); err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
		}
		if review.UserID, err = booking.NewUserID(userValue); err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
		}
		if review.ListingID, err = booking.NewListingID(listingValue); err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
		}
		if review.Rating, err = booking.NewRating(ratingValue); err != nil {
			return nil, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
		}
		review.CreatedAt = review.CreatedAt.UTC()
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectReview, errorCodeList, err)
	}
	return reviews, nil
}

func (store *Store) CreateReview(ctx context.Context, review booking.Review) (booking.Review, error) {
	reviewID, err := booking.NewReviewID(uuid.NewString())
	if err != nil {
		return booking.Review{}, wrapStoreError(errorSubjectReview, errorCodeInvalid, err)
	}
	review.ID = reviewID
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	_, err = store.conn.Exec(ctx, sqlInsertReview,
		review.ID.String(),
		review.UserID.String(),
		review.ListingID.String(),
		review.Rating.Int(),
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return booking.Review{}, wrapStoreError(errorSubjectReview, errorCodeCreate, err)
	}
	return review, nil
}

func (store *Store) CreateHostApplication(ctx context.Context, application booking.HostApplication) (booking.HostApplication, error) {
	application.ID = uuid.NewString()
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}
	_, err := store.conn.Exec(ctx, sqlInsertHostApplication,
		application.ID,
		application.Type.String(),
		application.FullName,
		application.Email,
		application.City,
		application.Title,
		application.Description,
		application.Status,
		application.CreatedAt,
	)
	if err != nil {
		return booking.HostApplication{}, wrapStoreError(errorSubjectHost, errorCodeCreate, err)
	}
	return application, nil
}

func (store *Store) ListHostApplications(ctx context.Context) ([]booking.HostApplication, error) {
	rows, err := store.conn.Query(ctx, sqlListHostApplications)
	if err != nil {
		return nil, wrapStoreError(errorSubjectHost, errorCodeList, err)
	}
	defer rows.Close()
	applications := make([]booking.HostApplication, 0)
	for rows.Next() {
		var (
			application booking.HostApplication
			typeValue   string
		)
		if err := rows.Scan(&application.ID, &typeValue, &application.FullName, &application.Email, &application.City,
			&application.Title, &application.Description, &application.Status, &application.CreatedAt); err != nil {
			return nil, wrapStoreError(errorSubjectHost, errorCodeList, err)
		}
		application.Type = booking.HostingType(typeValue)
		application.CreatedAt = application.CreatedAt.UTC()
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectHost, errorCodeList, err)
	}
	return applications, nil
}

func (store *Store) GetProfile(ctx context.Context, userID booking.UserID) (booking.Profile, error) {
	var (
		userValue string
		profile   booking.Profile
	)
	err := store.conn.QueryRow(ctx, sqlSelectProfile, userID.String()).Scan(
		&userValue,
		&profile.FullName,
		&profile.Email,
		&profile.AvatarURL,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, booking.ErrProfileNotFound)
		}
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, err)
	}
	if profile.UserID, err = booking.NewUserID(userValue); err != nil {
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return profile, nil
}

func (store *Store) UpsertProfile(ctx context.Context, profile booking.Profile) (booking.Profile, error) {
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	_, err := store.conn.Exec(ctx, sqlUpsertProfile,
		profile.UserID.String(),
		profile.FullName,
		profile.Email,
		profile.AvatarURL,
		profile.UpdatedAt,
	)
	if err != nil {
		return booking.Profile{}, wrapStoreError(errorSubjectProfile, errorCodeUpsert, err)
	}
	return profile, nil
}

func wrapStoreError(subject string, code string, err error) error {
	return booking.WrapError(errorOperationStore, subject, code, err)
}

func listingOrder(sort booking.ListingSort) string {
	switch sort {
	case booking.ListingSortPriceLow:
		return " order by price_per_night asc"
	case booking.ListingSortPriceHigh:
		return " order by price_per_night desc"
	case booking.ListingSortRating:
		return " order by rating desc"
	default:
		return " order by name asc"
	}
}

func scanListing(row pgx.Row) (booking.Listing, error) {
	var (
		listingValue  string
		amenitiesJSON string
		priceValue    int64
		listing       booking.Listing
	)
	err := row.Scan(
		&listingValue,
		&listing.Name,
		&listing.Location,
		&listing.City,
		&listing.Country,
		&listing.Description,
		&priceValue,
		&listing.Rating,
		&listing.ImageURL,
		&amenitiesJSON,
		&listing.CreatedAt,
	)
	if err != nil {
		return booking.Listing{}, err
	}
	if listing.ID, err = booking.NewListingID(listingValue); err != nil {
		return booking.Listing{}, err
	}
	if err := json.Unmarshal([]byte(amenitiesJSON), &listing.Amenities); err != nil {
		return booking.Listing{}, err
	}
	listing.PricePerNight = booking.Amount(priceValue)
	listing.CreatedAt = listing.CreatedAt.UTC()
	return listing, nil
}

func scanRoom(row pgx.Row) (booking.Room, error) {
	var (
		roomValue     string
		listingValue  string
		amenitiesJSON string
		priceValue    int64
		room          booking.Room
	)
	err := row.Scan(
		&roomValue,
		&listingValue,
		&room.RoomType,
		&room.Capacity,
		&priceValue,
		&room.AvailableRooms,
		&amenitiesJSON,
	)
	if err != nil {
		return booking.Room{}, err
	}
	if room.ID, err = booking.NewRoomID(roomValue); err != nil {
		return booking.Room{}, err
	}
	if room.ListingID, err = booking.NewListingID(listingValue); err != nil {
		return booking.Room{}, err
	}
	room.Amenities = []string{}
	if err := json.Unmarshal([]byte(amenitiesJSON), &room.Amenities); err != nil {
		return booking.Room{}, err
	}
	room.PricePerNight = booking.Amount(priceValue)
	return room, nil
}

type bookingFields struct {
	bookingValue  string
	userValue     string
	listingValue  string
	roomValue     string
	guestsValue   int
	totalValue    int64
	methodValue   string
	paymentAmount *int64
	statusValue   string
	record        booking.Booking
}

func (fields *bookingFields) targets() []any {
	return []any{
		&fields.bookingValue,
		&fields.userValue,
		&fields.listingValue,
		&fields.roomValue,
		&fields.record.CheckIn,
		&fields.record.CheckOut,
		&fields.guestsValue,
		&fields.totalValue,
		&fields.methodValue,
		&fields.record.PaymentTransactionID,
		&fields.paymentAmount,
		&fields.statusValue,
		&fields.record.CreatedAt,
	}
}

func (fields *bookingFields) build() (booking.Booking, error) {
	record := fields.record
	var err error
	if record.ID, err = booking.NewBookingID(fields.bookingValue); err != nil {
		return booking.Booking{}, err
	}
	if record.UserID, err = booking.NewUserID(fields.userValue); err != nil {
		return booking.Booking{}, err
	}
	if record.ListingID, err = booking.NewListingID(fields.listingValue); err != nil {
		return booking.Booking{}, err
	}
	if record.RoomID, err = booking.NewRoomID(fields.roomValue); err != nil {
		return booking.Booking{}, err
	}
	if record.Guests, err = booking.NewGuestCount(fields.guestsValue); err != nil {
		return booking.Booking{}, err
	}
	if record.Status, err = booking.ParseBookingStatus(fields.statusValue); err != nil {
		return booking.Booking{}, err
	}
	record.TotalAmount = booking.Amount(fields.totalValue)
	record.PaymentMethod = booking.PaymentMethod(fields.methodValue)
	if fields.paymentAmount != nil {
		paymentAmount := booking.Amount(*fields.paymentAmount)
		record.PaymentAmount = &paymentAmount
	}
	record.CheckIn = record.CheckIn.UTC()
	record.CheckOut = record.CheckOut.UTC()
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

func scanBooking(row pgx.Row) (booking.Booking, error) {
	var fields bookingFields
	if err := row.Scan(fields.targets()...); err != nil {
		return booking.Booking{}, err
	}
	return fields.build()
}

func scanBookingSummary(row pgx.Row) (booking.BookingSummary, error) {
	var (
		fields  bookingFields
		summary booking.BookingSummary
	)
	targets := append(fields.targets(),
		&summary.ListingName,
		&summary.ListingLocation,
		&summary.ListingCity,
		&summary.ListingCountry,
		&summary.ListingImageURL,
		&summary.RoomType,
	)
	if err := row.Scan(targets...); err != nil {
		return booking.BookingSummary{}, err
	}
	record, err := fields.build()
	if err != nil {
		return booking.BookingSummary{}, err
	}
	summary.Booking = record
	return summary, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolationCode
}
