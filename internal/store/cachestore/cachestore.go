package cachestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"go.uber.org/zap"
)

const (
	keyListingsAll = "listings:all"

	defaultTTL = 5 * time.Minute
)

func listingKey(listingID booking.ListingID) string {
	return "listing:" + listingID.String()
}

func listingRoomsKey(listingID booking.ListingID) string {
	return "listing:" + listingID.String() + ":rooms"
}

func listingReviewsKey(listingID booking.ListingID) string {
	return "listing:" + listingID.String() + ":reviews"
}

func eligibilityKey(listingID booking.ListingID, userID booking.UserID) string {
	return "listing:" + listingID.String() + ":eligibility:" + userID.String()
}

func roomKey(roomID booking.RoomID) string {
	return "room:" + roomID.String()
}

func userBookingsKey(userID booking.UserID) string {
	return "user:" + userID.String() + ":bookings"
}

func profileKey(userID booking.UserID) string {
	return "profile:" + userID.String()
}

// Store decorates a booking.Store with a read-through cache.
// Writes evict the keys they make stale. Inside WithTx reads go straight to the
// wrapped store and evictions are deferred until the transaction commits.
type Store struct {
	inner   booking.Store
	cache   Cache
	ttl     time.Duration
	logger  *zap.Logger
	pending *[]string
}

// Option customizes the caching store.
type Option func(*Store)

// WithTTL sets the expiry applied to cached entries.
func WithTTL(ttl time.Duration) Option {
	return func(store *Store) {
		if ttl > 0 {
			store.ttl = ttl
		}
	}
}

// WithLogger routes cache failures to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// New wraps inner with cache.
func New(inner booking.Store, cache Cache, options ...Option) *Store {
	store := &Store{
		inner:  inner,
		cache:  cache,
		ttl:    defaultTTL,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(store)
	}
	return store
}

func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	if store.inTx() {
		return fn(ctx, store)
	}
	var pending []string
	err := store.inner.WithTx(ctx, func(ctx context.Context, txStore booking.Store) error {
		return fn(ctx, &Store{
			inner:   txStore,
			cache:   store.cache,
			ttl:     store.ttl,
			logger:  store.logger,
			pending: &pending,
		})
	})
	if err != nil {
		return err
	}
	store.evict(ctx, pending...)
	return nil
}

func (store *Store) ListListings(ctx context.Context, query booking.ListingQuery) ([]booking.Listing, error) {
	if !query.IsDefault() {
		return store.inner.ListListings(ctx, query)
	}
	return readThrough(ctx, store, keyListingsAll, func() ([]booking.Listing, error) {
		return store.inner.ListListings(ctx, query)
	})
}

func (store *Store) GetListing(ctx context.Context, listingID booking.ListingID) (booking.Listing, error) {
	return readThrough(ctx, store, listingKey(listingID), func() (booking.Listing, error) {
		return store.inner.GetListing(ctx, listingID)
	})
}

func (store *Store) CreateListing(ctx context.Context, listing booking.Listing) (booking.Listing, error) {
	created, err := store.inner.CreateListing(ctx, listing)
	if err != nil {
		return booking.Listing{}, err
	}
	store.evict(ctx, keyListingsAll, listingKey(created.ID), listingRoomsKey(created.ID))
	return created, nil
}

func (store *Store) UpdateListing(ctx context.Context, listing booking.Listing) error {
	if err := store.inner.UpdateListing(ctx, listing); err != nil {
		return err
	}
	store.evict(ctx, keyListingsAll, listingKey(listing.ID), listingRoomsKey(listing.ID))
	return nil
}

func (store *Store) DeleteListing(ctx context.Context, listingID booking.ListingID) error {
	keys := []string{keyListingsAll, listingKey(listingID), listingRoomsKey(listingID)}
	if rooms, err := store.inner.ListRooms(ctx, listingID); err == nil {
		for _, room := range rooms {
			keys = append(keys, roomKey(room.ID))
		}
	}
	if err := store.inner.DeleteListing(ctx, listingID); err != nil {
		return err
	}
	store.evict(ctx, keys...)
	return nil
}

func (store *Store) ListRooms(ctx context.Context, listingID booking.ListingID) ([]booking.Room, error) {
	return readThrough(ctx, store, listingRoomsKey(listingID), func() ([]booking.Room, error) {
		return store.inner.ListRooms(ctx, listingID)
	})
}

func (store *Store) GetRoom(ctx context.Context, roomID booking.RoomID) (booking.Room, error) {
	return readThrough(ctx, store, roomKey(roomID), func() (booking.Room, error) {
		return store.inner.GetRoom(ctx, roomID)
	})
}

func (store *Store) CreateRoom(ctx context.Context, room booking.Room) (booking.Room, error) {
	created, err := store.inner.CreateRoom(ctx, room)
	if err != nil {
		return booking.Room{}, err
	}
	store.evict(ctx, listingRoomsKey(created.ListingID), roomKey(created.ID))
	return created, nil
}

func (store *Store) UpdateRoom(ctx context.Context, room booking.Room) error {
	if err := store.inner.UpdateRoom(ctx, room); err != nil {
		return err
	}
	store.evict(ctx, listingRoomsKey(room.ListingID), roomKey(room.ID))
	return nil
}

func (store *Store) CreateBooking(ctx context.Context, record booking.Booking) (booking.Booking, error) {
	created, err := store.inner.CreateBooking(ctx, record)
	if err != nil {
		return booking.Booking{}, err
	}
	store.evict(ctx, userBookingsKey(created.UserID), eligibilityKey(created.ListingID, created.UserID))
	return created, nil
}

// GetBooking is never cached; callers use it to lock the row before a status change.
func (store *Store) GetBooking(ctx context.Context, bookingID booking.BookingID) (booking.Booking, error) {
	return store.inner.GetBooking(ctx, bookingID)
}

func (store *Store) UpdateBookingStatus(ctx context.Context, bookingID booking.BookingID, from, to booking.BookingStatus) error {
	if err := store.inner.UpdateBookingStatus(ctx, bookingID, from, to); err != nil {
		return err
	}
	record, err := store.inner.GetBooking(ctx, bookingID)
	if err != nil {
		store.logger.Warn("cache eviction lookup failed", zap.String("booking_id", bookingID.String()), zap.Error(err))
		return nil
	}
	store.evict(ctx, userBookingsKey(record.UserID), eligibilityKey(record.ListingID, record.UserID))
	return nil
}

func (store *Store) ListUserBookings(ctx context.Context, userID booking.UserID) ([]booking.BookingSummary, error) {
	return readThrough(ctx, store, userBookingsKey(userID), func() ([]booking.BookingSummary, error) {
		return store.inner.ListUserBookings(ctx, userID)
	})
}

func (store *Store) HasConfirmedBooking(ctx context.Context, userID booking.UserID, listingID booking.ListingID) (bool, error) {
	return readThrough(ctx, store, eligibilityKey(listingID, userID), func() (bool, error) {
		return store.inner.HasConfirmedBooking(ctx, userID, listingID)
	})
}

func (store *Store) ListReviews(ctx context.Context, listingID booking.ListingID) ([]booking.Review, error) {
	return readThrough(ctx, store, listingReviewsKey(listingID), func() ([]booking.Review, error) {
		return store.inner.ListReviews(ctx, listingID)
	})
}

func (store *Store) CreateReview(ctx context.Context, review booking.Review) (booking.Review, error) {
	created, err := store.inner.CreateReview(ctx, review)
	if err != nil {
		return booking.Review{}, err
	}
	store.evict(ctx, listingReviewsKey(created.ListingID))
	return created, nil
}

func (store *Store) GetProfile(ctx context.Context, userID booking.UserID) (booking.Profile, error) {
	return readThrough(ctx, store, profileKey(userID), func() (booking.Profile, error) {
		return store.inner.GetProfile(ctx, userID)
	})
}

func (store *Store) UpsertProfile(ctx context.Context, profile booking.Profile) (booking.Profile, error) {
	saved, err := store.inner.UpsertProfile(ctx, profile)
	if err != nil {
		return booking.Profile{}, err
	}
	store.evict(ctx, profileKey(saved.UserID))
	return saved, nil
}

func (store *Store) CreateHostApplication(ctx context.Context, application booking.HostApplication) (booking.HostApplication, error) {
	return store.inner.CreateHostApplication(ctx, application)
}

// ListHostApplications is never cached; the admin review queue must reflect new submissions immediately.
func (store *Store) ListHostApplications(ctx context.Context) ([]booking.HostApplication, error) {
	return store.inner.ListHostApplications(ctx)
}

func (store *Store) inTx() bool {
	return store.pending != nil
}

func (store *Store) evict(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if store.inTx() {
		*store.pending = append(*store.pending, keys...)
		return
	}
	if err := store.cache.Delete(ctx, keys...); err != nil {
		store.logger.Warn("cache eviction failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func readThrough[T any](ctx context.Context, store *Store, key string, load func() (T, error)) (T, error) {
	if store.inTx() {
		return load()
	}
	raw, found, err := store.cache.Get(ctx, key)
	if err != nil {
		store.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		store.logger.Warn("cache entry undecodable", zap.String("key", key))
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		store.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := store.cache.Set(ctx, key, encoded, store.ttl); err != nil {
		store.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
