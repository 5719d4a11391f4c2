package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	errBoom  = errors.New("boom")
)

type stubStore struct {
	mu         sync.Mutex
	listings   map[ListingID]Listing
	rooms      map[RoomID]Room
	bookings   map[BookingID]Booking
	reviews    []Review
	profiles   map[UserID]Profile
	hosts      []HostApplication
	sequence   int
	reads      int
	writes     int
	txCount    int
	createErr  error
	confirmErr error
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{
		listings: map[ListingID]Listing{},
		rooms:    map[RoomID]Room{},
		bookings: map[BookingID]Booking{},
		profiles: map[UserID]Profile{},
	}
}

func (store *stubStore) nextID(prefix string) string {
	store.sequence++
	return fmt.Sprintf("%s-%d", prefix, store.sequence)
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	store.mu.Lock()
	store.txCount++
	store.mu.Unlock()
	return fn(ctx, store)
}

func (store *stubStore) ListListings(_ context.Context, query ListingQuery) ([]Listing, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	search := strings.ToLower(strings.TrimSpace(query.Search))
	listings := make([]Listing, 0, len(store.listings))
	for _, listing := range store.listings {
		if search != "" &&
			!strings.Contains(strings.ToLower(listing.Name), search) &&
			!strings.Contains(strings.ToLower(listing.City), search) &&
			!strings.Contains(strings.ToLower(listing.Country), search) {
			continue
		}
		listings = append(listings, listing)
	}
	sort.Slice(listings, func(left, right int) bool {
		switch query.Sort {
		case ListingSortPriceLow:
			return listings[left].PricePerNight < listings[right].PricePerNight
		case ListingSortPriceHigh:
			return listings[left].PricePerNight > listings[right].PricePerNight
		case ListingSortRating:
			return listings[left].Rating > listings[right].Rating
		default:
			return listings[left].Name < listings[right].Name
		}
	})
	return listings, nil
}

func (store *stubStore) GetListing(_ context.Context, listingID ListingID) (Listing, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	listing, ok := store.listings[listingID]
	if !ok {
		return Listing{}, ErrListingNotFound
	}
	return listing, nil
}

func (store *stubStore) CreateListing(_ context.Context, listing Listing) (Listing, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	if listing.ID.String() == "" {
		listing.ID = ListingID{value: store.nextID("listing")}
	}
	store.listings[listing.ID] = listing
	return listing, nil
}

func (store *stubStore) UpdateListing(_ context.Context, listing Listing) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	existing, ok := store.listings[listing.ID]
	if !ok {
		return ErrListingNotFound
	}
	listing.CreatedAt = existing.CreatedAt
	store.listings[listing.ID] = listing
	return nil
}

func (store *stubStore) DeleteListing(_ context.Context, listingID ListingID) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	if _, ok := store.listings[listingID]; !ok {
		return ErrListingNotFound
	}
	for _, existing := range store.bookings {
		if existing.ListingID == listingID {
			return ErrListingHasBookings
		}
	}
	delete(store.listings, listingID)
	for roomID, room := range store.rooms {
		if room.ListingID == listingID {
			delete(store.rooms, roomID)
		}
	}
	return nil
}

func (store *stubStore) ListRooms(_ context.Context, listingID ListingID) ([]Room, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	rooms := []Room{}
	for _, room := range store.rooms {
		if room.ListingID == listingID {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(left, right int) bool { return rooms[left].PricePerNight < rooms[right].PricePerNight })
	return rooms, nil
}

func (store *stubStore) GetRoom(_ context.Context, roomID RoomID) (Room, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	room, ok := store.rooms[roomID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return room, nil
}

func (store *stubStore) CreateRoom(_ context.Context, room Room) (Room, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	if room.ID.IsZero() {
		room.ID = RoomID{value: store.nextID("room")}
	}
	store.rooms[room.ID] = room
	return room, nil
}

func (store *stubStore) UpdateRoom(_ context.Context, room Room) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	if _, ok := store.rooms[room.ID]; !ok {
		return ErrRoomNotFound
	}
	store.rooms[room.ID] = room
	return nil
}

func (store *stubStore) CreateBooking(_ context.Context, booking Booking) (Booking, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	if store.createErr != nil {
		return Booking{}, store.createErr
	}
	booking.ID = BookingID{value: store.nextID("booking")}
	store.bookings[booking.ID] = booking
	return booking, nil
}

func (store *stubStore) GetBooking(_ context.Context, bookingID BookingID) (Booking, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	booking, ok := store.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return booking, nil
}

func (store *stubStore) UpdateBookingStatus(_ context.Context, bookingID BookingID, from, to BookingStatus) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	booking, ok := store.bookings[bookingID]
	if !ok || booking.Status != from {
		return ErrBookingNotFound
	}
	booking.Status = to
	store.bookings[bookingID] = booking
	return nil
}

func (store *stubStore) ListUserBookings(_ context.Context, userID UserID) ([]BookingSummary, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	summaries := []BookingSummary{}
	for _, booking := range store.bookings {
		if booking.UserID != userID {
			continue
		}
		summaries = append(summaries, BookingSummary{
			Booking:     booking,
			ListingName: store.listings[booking.ListingID].Name,
			RoomType:    store.rooms[booking.RoomID].RoomType,
		})
	}
	return summaries, nil
}

func (store *stubStore) HasConfirmedBooking(_ context.Context, userID UserID, listingID ListingID) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	if store.confirmErr != nil {
		return false, store.confirmErr
	}
	for _, booking := range store.bookings {
		if booking.UserID == userID && booking.ListingID == listingID && booking.Status == BookingStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (store *stubStore) ListReviews(_ context.Context, listingID ListingID) ([]Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	reviews := []Review{}
	for index := len(store.reviews) - 1; index >= 0; index-- {
		if store.reviews[index].ListingID == listingID {
			reviews = append(reviews, store.reviews[index])
		}
	}
	return reviews, nil
}

func (store *stubStore) CreateReview(_ context.Context, review Review) (Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	review.ID = ReviewID{value: store.nextID("review")}
	store.reviews = append(store.reviews, review)
	return review, nil
}

func (store *stubStore) GetProfile(_ context.Context, userID UserID) (Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	profile, ok := store.profiles[userID]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (store *stubStore) UpsertProfile(_ context.Context, profile Profile) (Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	store.profiles[profile.UserID] = profile
	return profile, nil
}

func (store *stubStore) CreateHostApplication(_ context.Context, application HostApplication) (HostApplication, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.writes++
	application.ID = store.nextID("host")
	store.hosts = append(store.hosts, application)
	return application, nil
}

func (store *stubStore) ListHostApplications(context.Context) ([]HostApplication, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.reads++
	applications := make([]HostApplication, 0, len(store.hosts))
	for index := len(store.hosts) - 1; index >= 0; index-- {
		applications = append(applications, store.hosts[index])
	}
	return applications, nil
}

func (store *stubStore) writeCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.writes
}

func (store *stubStore) readCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.reads
}

func (store *stubStore) seedListing(test *testing.T, rawID string, name string, price int64) Listing {
	test.Helper()
	listing := Listing{
		ID:            mustListingID(test, rawID),
		Name:          name,
		Location:      "Old Town",
		City:          "Lisbon",
		Country:       "Portugal",
		PricePerNight: mustAmount(test, price),
		Rating:        4.5,
	}
	store.listings[listing.ID] = listing
	return listing
}

func (store *stubStore) seedRoom(test *testing.T, rawID string, listingID ListingID, price int64) Room {
	test.Helper()
	room := Room{
		ID:             mustRoomID(test, rawID),
		ListingID:      listingID,
		RoomType:       "Deluxe",
		Capacity:       2,
		PricePerNight:  mustAmount(test, price),
		AvailableRooms: 3,
	}
	store.rooms[room.ID] = room
	return room
}

func (store *stubStore) seedBooking(test *testing.T, rawID string, userID UserID, listingID ListingID, status BookingStatus) Booking {
	test.Helper()
	booking := Booking{
		ID:          mustBookingID(test, rawID),
		UserID:      userID,
		ListingID:   listingID,
		Status:      status,
		TotalAmount: 1000,
	}
	store.bookings[booking.ID] = booking
	return booking
}

type failingStore struct {
	*stubStore
	err error
}

func newFailingStore(test *testing.T, err error) *failingStore {
	test.Helper()
	return &failingStore{stubStore: newStubStore(test), err: err}
}

func (store *failingStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return fn(ctx, store)
}

func (store *failingStore) GetListing(context.Context, ListingID) (Listing, error) {
	return Listing{}, store.err
}

func (store *failingStore) GetRoom(context.Context, RoomID) (Room, error) {
	return Room{}, store.err
}

func (store *failingStore) GetBooking(context.Context, BookingID) (Booking, error) {
	return Booking{}, store.err
}

func (store *failingStore) HasConfirmedBooking(context.Context, UserID, ListingID) (bool, error) {
	return false, store.err
}

func (store *failingStore) UpsertProfile(context.Context, Profile) (Profile, error) {
	return Profile{}, store.err
}

func (store *failingStore) CreateHostApplication(context.Context, HostApplication) (HostApplication, error) {
	return HostApplication{}, store.err
}

type stubWallet struct {
	mu       sync.Mutex
	accounts []string
	err      error
	calls    int
	release  chan struct{}
	entered  chan struct{}
}

func (wallet *stubWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	wallet.mu.Lock()
	wallet.calls++
	wallet.mu.Unlock()
	if wallet.entered != nil {
		wallet.entered <- struct{}{}
	}
	if wallet.release != nil {
		select {
		case <-wallet.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return wallet.accounts, wallet.err
}

func (wallet *stubWallet) callCount() int {
	wallet.mu.Lock()
	defer wallet.mu.Unlock()
	return wallet.calls
}

type recorderLogger struct {
	mu      sync.Mutex
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.entries = append(logger.entries, entry)
}

func fixedTransactionID() (string, error) {
	return "0x" + strings.Repeat("ab", transactionIDBytes), nil
}

func mustNewService(test *testing.T, store Store, options ...ServiceOption) *Service {
	test.Helper()
	options = append([]ServiceOption{WithTransactionIDGenerator(fixedTransactionID)}, options...)
	service, err := NewService(store, func() time.Time { return fixedNow }, options...)
	if err != nil {
		test.Fatalf("service init failed: %v", err)
	}
	return service
}

func mustSession(test *testing.T, rawUserID string, roles ...string) Session {
	test.Helper()
	session, err := NewSession(rawUserID, roles...)
	if err != nil {
		test.Fatalf("session: %v", err)
	}
	return session
}

func mustUserID(test *testing.T, raw string) UserID {
	test.Helper()
	id, err := NewUserID(raw)
	if err != nil {
		test.Fatalf("user id: %v", err)
	}
	return id
}

func mustListingID(test *testing.T, raw string) ListingID {
	test.Helper()
	id, err := NewListingID(raw)
	if err != nil {
		test.Fatalf("listing id: %v", err)
	}
	return id
}

func mustRoomID(test *testing.T, raw string) RoomID {
	test.Helper()
	id, err := NewRoomID(raw)
	if err != nil {
		test.Fatalf("room id: %v", err)
	}
	return id
}

func mustBookingID(test *testing.T, raw string) BookingID {
	test.Helper()
	id, err := NewBookingID(raw)
	if err != nil {
		test.Fatalf("booking id: %v", err)
	}
	return id
}

func mustAmount(test *testing.T, raw int64) Amount {
	test.Helper()
	amount, err := NewAmount(raw)
	if err != nil {
		test.Fatalf("amount: %v", err)
	}
	return amount
}

func mustDate(test *testing.T, raw string) time.Time {
	test.Helper()
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		test.Fatalf("date %q: %v", raw, err)
	}
	return parsed
}

func requireErrorIs(test *testing.T, err error, target error) {
	test.Helper()
	if !errors.Is(err, target) {
		test.Fatalf("expected %v, got %v", target, err)
	}
}
