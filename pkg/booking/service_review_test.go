package booking

import (
	"context"
	"errors"
	"testing"
)

func TestListingDetailGatesReviewComposer(test *testing.T) {
	test.Parallel()
	store, listing, room := newBookingFixture(test)
	store.seedRoom(test, "room-cheap", listing.ID, 900)
	guest := mustSession(test, "guest")
	reviewer := mustSession(test, "reviewer")
	store.seedBooking(test, "pending-one", guest.UserID(), listing.ID, BookingStatusPending)
	store.seedBooking(test, "confirmed-one", reviewer.UserID(), listing.ID, BookingStatusConfirmed)
	service := mustNewService(test, store)

	testCases := []struct {
		name      string
		session   Session
		canReview bool
	}{
		{name: "anonymous", session: AnonymousSession(), canReview: false},
		{name: "no confirmed booking", session: guest, canReview: false},
		{name: "confirmed booking", session: reviewer, canReview: true},
	}
	for _, testCase := range testCases {
		detail, err := service.ListingDetail(context.Background(), testCase.session, listing.ID)
		if err != nil {
			test.Fatalf("%s: detail: %v", testCase.name, err)
		}
		if detail.CanReview != testCase.canReview {
			test.Fatalf("%s: expected can review %t, got %t", testCase.name, testCase.canReview, detail.CanReview)
		}
		if detail.Listing.ID != listing.ID || len(detail.Rooms) != 2 {
			test.Fatalf("%s: unexpected detail %+v", testCase.name, detail)
		}
		if detail.Rooms[0].ID.String() != "room-cheap" || detail.Rooms[1].ID != room.ID {
			test.Fatalf("%s: expected rooms ordered by price, got %+v", testCase.name, detail.Rooms)
		}
	}
}

func TestListingDetailUnknownListing(test *testing.T) {
	test.Parallel()
	service := mustNewService(test, newStubStore(test))
	_, err := service.ListingDetail(context.Background(), AnonymousSession(), mustListingID(test, "missing"))
	requireErrorIs(test, err, ErrListingNotFound)
}

func TestSubmitReviewEmptyCommentWritesNothing(test *testing.T) {
	test.Parallel()
	store, listing, _ := newBookingFixture(test)
	session := mustSession(test, "reviewer")
	store.seedBooking(test, "confirmed-one", session.UserID(), listing.ID, BookingStatusConfirmed)
	service := mustNewService(test, store)
	readsBefore := store.readCount()

	for _, comment := range []string{"", "   ", "\n\t"} {
		_, err := service.SubmitReview(context.Background(), session, listing.ID, 4, comment)
		requireErrorIs(test, err, ErrEmptyComment)
	}
	if store.writeCount() != 0 || store.readCount() != readsBefore {
		test.Fatalf("expected store untouched, got %d writes", store.writeCount())
	}
}

func TestSubmitReviewStoresTrimmedComment(test *testing.T) {
	test.Parallel()
	store, listing, _ := newBookingFixture(test)
	session := mustSession(test, "reviewer")
	store.seedBooking(test, "confirmed-one", session.UserID(), listing.ID, BookingStatusConfirmed)
	logger := &recorderLogger{}
	service := mustNewService(test, store, WithOperationLogger(logger))

	review, err := service.SubmitReview(context.Background(), session, listing.ID, 0, "  Lovely terrace  ")
	if err != nil {
		test.Fatalf("submit: %v", err)
	}
	if review.Comment != "Lovely terrace" || review.Rating != DefaultRating {
		test.Fatalf("unexpected review %+v", review)
	}
	if review.UserID != session.UserID() || review.ListingID != listing.ID || !review.CreatedAt.Equal(fixedNow) {
		test.Fatalf("unexpected review identity %+v", review)
	}
	detail, err := service.ListingDetail(context.Background(), session, listing.ID)
	if err != nil {
		test.Fatalf("detail: %v", err)
	}
	if len(detail.Reviews) != 1 || detail.Reviews[0].ID != review.ID {
		test.Fatalf("expected refetched reviews to include the new review, got %+v", detail.Reviews)
	}
	if len(logger.entries) != 1 || logger.entries[0].Operation != operationReview || logger.entries[0].Status != operationStatusOK {
		test.Fatalf("unexpected log entries %+v", logger.entries)
	}
}

func TestSubmitReviewRequiresConfirmedBooking(test *testing.T) {
	test.Parallel()
	store, listing, _ := newBookingFixture(test)
	session := mustSession(test, "guest")
	store.seedBooking(test, "pending-one", session.UserID(), listing.ID, BookingStatusPending)
	store.seedBooking(test, "cancelled-one", session.UserID(), listing.ID, BookingStatusCancelled)
	service := mustNewService(test, store)

	_, err := service.SubmitReview(context.Background(), session, listing.ID, 5, "Great")
	requireErrorIs(test, err, ErrReviewNotEligible)
	if len(store.reviews) != 0 {
		test.Fatalf("expected no review stored")
	}
}

func TestSubmitReviewValidatesRatingAndSession(test *testing.T) {
	test.Parallel()
	store, listing, _ := newBookingFixture(test)
	service := mustNewService(test, store)

	_, err := service.SubmitReview(context.Background(), AnonymousSession(), listing.ID, 5, "Great")
	requireErrorIs(test, err, ErrSessionRequired)

	for _, rating := range []int{-1, 6, 10} {
		_, err := service.SubmitReview(context.Background(), mustSession(test, "guest"), listing.ID, rating, "Great")
		requireErrorIs(test, err, ErrInvalidRating)
	}
}

func TestSubmitReviewPropagatesStoreError(test *testing.T) {
	test.Parallel()
	storeErr := errors.New("lookup failed")
	store := newFailingStore(test, storeErr)
	logger := &recorderLogger{}
	service := mustNewService(test, store, WithOperationLogger(logger))

	_, err := service.SubmitReview(context.Background(), mustSession(test, "guest"), mustListingID(test, "listing-1"), 5, "Great")
	requireErrorIs(test, err, storeErr)
	if len(logger.entries) != 1 || logger.entries[0].Status != operationStatusError {
		test.Fatalf("expected error log entry, got %+v", logger.entries)
	}
}

func TestProfileDefaultsAndUpdates(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	session := mustSession(test, "user-1")

	profile, err := service.Profile(context.Background(), session)
	if err != nil {
		test.Fatalf("profile: %v", err)
	}
	if profile.UserID != session.UserID() || profile.FullName != "" {
		test.Fatalf("expected empty profile, got %+v", profile)
	}

	saved, err := service.UpdateProfile(context.Background(), session, ProfileUpdate{FullName: "Ana Silva", Email: "ana@example.com"})
	if err != nil {
		test.Fatalf("update: %v", err)
	}
	if saved.FullName != "Ana Silva" || !saved.UpdatedAt.Equal(fixedNow) {
		test.Fatalf("unexpected saved profile %+v", saved)
	}
	profile, err = service.Profile(context.Background(), session)
	if err != nil {
		test.Fatalf("profile: %v", err)
	}
	if profile.Email != "ana@example.com" {
		test.Fatalf("unexpected profile %+v", profile)
	}

	if _, err := service.Profile(context.Background(), AnonymousSession()); !errors.Is(err, ErrSessionRequired) {
		test.Fatalf("expected session required, got %v", err)
	}
}

func TestListListingsSearchAndSort(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	store.seedListing(test, "a", "Beach House", 3000)
	store.seedListing(test, "b", "Alpine Lodge", 1000)
	porto := store.seedListing(test, "c", "City Loft", 2000)
	porto.City = "Porto"
	store.listings[porto.ID] = porto
	service := mustNewService(test, store)

	listings, err := service.ListListings(context.Background(), ListingQuery{})
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(listings) != 3 || listings[0].Name != "Alpine Lodge" {
		test.Fatalf("expected name order, got %+v", listings)
	}
	listings, err = service.ListListings(context.Background(), ListingQuery{Sort: ListingSortPriceHigh})
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if listings[0].Name != "Beach House" {
		test.Fatalf("expected price high first, got %s", listings[0].Name)
	}
	listings, err = service.ListListings(context.Background(), ListingQuery{Search: "porto"})
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != porto.ID {
		test.Fatalf("expected city match, got %+v", listings)
	}
	_, err = service.ListListings(context.Background(), ListingQuery{Sort: "newest"})
	requireErrorIs(test, err, ErrInvalidListingSort)
}
