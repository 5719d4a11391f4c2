package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service contains the booking flow logic over a Store.
type Service struct {
	store          Store
	nowFn          func() time.Time
	logger         OperationLogger
	wallet         Wallet
	transactionIDs func() (string, error)
}

// NewService wires a Service.
func NewService(store Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, transactionIDs: NewTransactionID}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	if service.transactionIDs == nil {
		return nil, fmt.Errorf("%w: transaction id generator is nil", ErrInvalidServiceConfig)
	}
	return service, nil
}

// ListingDetail is everything the hotel detail page shows for one listing.
type ListingDetail struct {
	Listing   Listing
	Rooms     []Room
	Reviews   []Review
	CanReview bool
}

// Selection is the room, dates, and guest count chosen on the detail page.
type Selection struct {
	RoomID RoomID
	Stay   StayDates
	Guests GuestCount
}

// Ready reports whether booking may be attempted: room, check-in, and check-out must all be chosen.
// Date ordering is not part of readiness.
func (selection Selection) Ready() bool {
	return !selection.RoomID.IsZero() && !selection.Stay.CheckIn.IsZero() && !selection.Stay.CheckOut.IsZero()
}

// Confirmation is the result of a booking and the page the client should show next.
type Confirmation struct {
	Booking  Booking
	Quote    StayQuote
	Redirect string
}

type preparedBooking struct {
	room   Room
	stay   StayDates
	quote  StayQuote
	guests GuestCount
}

// ListListings returns the catalogue filtered by a search term over name, city, and country.
func (service *Service) ListListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	sort, err := ParseListingSort(string(query.Sort))
	if err != nil {
		return nil, err
	}
	query.Sort = sort
	return service.store.ListListings(ctx, query)
}

// ListingDetail fetches a listing with its rooms and reviews, and whether the session may write a review.
func (service *Service) ListingDetail(ctx context.Context, session Session, listingID ListingID) (ListingDetail, error) {
	listing, err := service.store.GetListing(ctx, listingID)
	if err != nil {
		return ListingDetail{}, err
	}
	rooms, err := service.store.ListRooms(ctx, listingID)
	if err != nil {
		return ListingDetail{}, err
	}
	reviews, err := service.store.ListReviews(ctx, listingID)
	if err != nil {
		return ListingDetail{}, err
	}
	canReview, err := service.canReview(ctx, service.store, session, listingID)
	if err != nil {
		return ListingDetail{}, err
	}
	return ListingDetail{
		Listing:   listing,
		Rooms:     rooms,
		Reviews:   reviews,
		CanReview: canReview,
	}, nil
}

// Quote prices a stay in one of the listing's rooms.
func (service *Service) Quote(ctx context.Context, listingID ListingID, roomID RoomID, stay StayDates) (StayQuote, error) {
	room, err := service.roomForListing(ctx, listingID, roomID)
	if err != nil {
		return StayQuote{}, err
	}
	return CalculateStay(stay.CheckIn, stay.CheckOut, room.PricePerNight)
}

// OpenPaymentDialog opens a payment dialog using the configured wallet.
func (service *Service) OpenPaymentDialog() *PaymentDialog {
	return OpenPaymentDialog(service.wallet, WithDialogTransactionIDGenerator(service.transactionIDs))
}

// Checkout runs the full booking action: session and selection checks, pricing, the payment dialog, then the insert.
// A payment failure returns before any store write. A nil dialog opens a fresh one.
func (service *Service) Checkout(ctx context.Context, session Session, listingID ListingID, selection Selection, dialog *PaymentDialog, choice PaymentChoice) (Confirmation, error) {
	if !session.Authenticated() {
		return Confirmation{Redirect: RouteAuth}, ErrSessionRequired
	}
	prepared, err := service.prepareBooking(ctx, listingID, selection)
	if err != nil {
		return Confirmation{}, err
	}
	if dialog == nil {
		dialog = service.OpenPaymentDialog()
	}
	outcome, err := dialog.Submit(ctx, choice)
	if err != nil {
		service.logOperation(ctx, OperationLog{
			Operation: operationBook,
			UserID:    session.UserID(),
			ListingID: listingID,
			Amount:    prepared.quote.TotalAmount,
			Error:     err,
		})
		return Confirmation{}, err
	}
	return service.insertBooking(ctx, session, listingID, prepared, outcome)
}

// Book persists a booking for a payment outcome that was already obtained.
func (service *Service) Book(ctx context.Context, session Session, listingID ListingID, selection Selection, outcome PaymentOutcome) (Confirmation, error) {
	if !session.Authenticated() {
		return Confirmation{Redirect: RouteAuth}, ErrSessionRequired
	}
	prepared, err := service.prepareBooking(ctx, listingID, selection)
	if err != nil {
		return Confirmation{}, err
	}
	return service.insertBooking(ctx, session, listingID, prepared, outcome)
}

// CancelBooking moves one of the session user's bookings to cancelled.
func (service *Service) CancelBooking(ctx context.Context, session Session, bookingID BookingID) (Booking, error) {
	if !session.Authenticated() {
		return Booking{}, ErrSessionRequired
	}
	var cancelled Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		existing, err := transactionStore.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if existing.UserID != session.UserID() {
			return ErrBookingNotFound
		}
		if !existing.Status.CanTransitionTo(BookingStatusCancelled) {
			return WrapError("service", "booking", "cancel", fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, existing.Status, BookingStatusCancelled))
		}
		if err := transactionStore.UpdateBookingStatus(ctx, bookingID, existing.Status, BookingStatusCancelled); err != nil {
			return err
		}
		cancelled = existing
		cancelled.Status = BookingStatusCancelled
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationCancel,
		UserID:    session.UserID(),
		ListingID: cancelled.ListingID,
		BookingID: bookingID,
		Amount:    cancelled.TotalAmount,
		Error:     operationError,
	})
	if operationError != nil {
		return Booking{}, operationError
	}
	return cancelled, nil
}

// ListBookings returns the session user's bookings, newest first.
func (service *Service) ListBookings(ctx context.Context, session Session) ([]BookingSummary, error) {
	if !session.Authenticated() {
		return nil, ErrSessionRequired
	}
	return service.store.ListUserBookings(ctx, session.UserID())
}

// SubmitReview writes a review for a listing the session user holds a confirmed booking for.
// An empty comment is rejected before the store is touched.
func (service *Service) SubmitReview(ctx context.Context, session Session, listingID ListingID, rawRating int, rawComment string) (Review, error) {
	if !session.Authenticated() {
		return Review{}, ErrSessionRequired
	}
	comment, err := NewComment(rawComment)
	if err != nil {
		return Review{}, err
	}
	rating, err := NewRating(rawRating)
	if err != nil {
		return Review{}, err
	}
	var created Review
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		eligible, err := service.canReview(ctx, transactionStore, session, listingID)
		if err != nil {
			return err
		}
		if !eligible {
			return ErrReviewNotEligible
		}
		created, err = transactionStore.CreateReview(ctx, Review{
			UserID:    session.UserID(),
			ListingID: listingID,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: service.nowFn().UTC(),
		})
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationReview,
		UserID:    session.UserID(),
		ListingID: listingID,
		Error:     operationError,
	})
	if operationError != nil {
		return Review{}, operationError
	}
	return created, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName  string
	Email     string
	AvatarURL string
}

// Profile returns the session user's profile, or an empty one when none was saved yet.
func (service *Service) Profile(ctx context.Context, session Session) (Profile, error) {
	if !session.Authenticated() {
		return Profile{}, ErrSessionRequired
	}
	profile, err := service.store.GetProfile(ctx, session.UserID())
	if errors.Is(err, ErrProfileNotFound) {
		return Profile{UserID: session.UserID()}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateProfile saves the session user's profile.
func (service *Service) UpdateProfile(ctx context.Context, session Session, update ProfileUpdate) (Profile, error) {
	if !session.Authenticated() {
		return Profile{}, ErrSessionRequired
	}
	saved, operationError := service.store.UpsertProfile(ctx, Profile{
		UserID:    session.UserID(),
		FullName:  update.FullName,
		Email:     update.Email,
		AvatarURL: update.AvatarURL,
		UpdatedAt: service.nowFn().UTC(),
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationProfile,
		UserID:    session.UserID(),
		Error:     operationError,
	})
	if operationError != nil {
		return Profile{}, operationError
	}
	return saved, nil
}

func (service *Service) prepareBooking(ctx context.Context, listingID ListingID, selection Selection) (preparedBooking, error) {
	if !selection.Ready() {
		return preparedBooking{}, ErrSelectionIncomplete
	}
	guests := selection.Guests
	if guests == 0 {
		guests = MinGuests
	}
	if _, err := NewGuestCount(guests.Int()); err != nil {
		return preparedBooking{}, err
	}
	room, err := service.roomForListing(ctx, listingID, selection.RoomID)
	if err != nil {
		return preparedBooking{}, err
	}
	quote, err := CalculateStay(selection.Stay.CheckIn, selection.Stay.CheckOut, room.PricePerNight)
	if err != nil {
		return preparedBooking{}, err
	}
	return preparedBooking{room: room, stay: selection.Stay, quote: quote, guests: guests}, nil
}

// insertBooking writes the booking row. Availability is neither checked nor decremented.
func (service *Service) insertBooking(ctx context.Context, session Session, listingID ListingID, prepared preparedBooking, outcome PaymentOutcome) (Confirmation, error) {
	record := Booking{
		UserID:               session.UserID(),
		ListingID:            listingID,
		RoomID:               prepared.room.ID,
		CheckIn:              prepared.stay.CheckIn,
		CheckOut:             prepared.stay.CheckOut,
		Guests:               prepared.guests,
		TotalAmount:          prepared.quote.TotalAmount,
		PaymentMethod:        outcome.Method,
		PaymentTransactionID: outcome.TransactionID,
		PaymentAmount:        paymentAmountFor(outcome.Method, prepared.quote.TotalAmount),
		Status:               statusForPayment(outcome.Method),
		CreatedAt:            service.nowFn().UTC(),
	}
	created, operationError := service.store.CreateBooking(ctx, record)
	service.logOperation(ctx, OperationLog{
		Operation:     operationBook,
		UserID:        session.UserID(),
		ListingID:     listingID,
		BookingID:     created.ID,
		Amount:        record.TotalAmount,
		PaymentMethod: outcome.Method,
		Error:         operationError,
	})
	if operationError != nil {
		return Confirmation{}, operationError
	}
	return Confirmation{Booking: created, Quote: prepared.quote, Redirect: RouteMyBookings}, nil
}

func (service *Service) roomForListing(ctx context.Context, listingID ListingID, roomID RoomID) (Room, error) {
	room, err := service.store.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, err
	}
	if room.ListingID != listingID {
		return Room{}, fmt.Errorf("%w: room %s", ErrRoomListingMismatch, roomID.String())
	}
	return room, nil
}

func (service *Service) canReview(ctx context.Context, store Store, session Session, listingID ListingID) (bool, error) {
	if !session.Authenticated() {
		return false, nil
	}
	return store.HasConfirmedBooking(ctx, session.UserID(), listingID)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

// statusForPayment confirms wallet payments only; every other method leaves the booking pending.
func statusForPayment(method PaymentMethod) BookingStatus {
	if method == PaymentMethodWallet {
		return BookingStatusConfirmed
	}
	return BookingStatusPending
}

// paymentAmountFor records a captured amount only for wallet payments.
func paymentAmountFor(method PaymentMethod, total Amount) *Amount {
	if method != PaymentMethodWallet {
		return nil
	}
	amount := total
	return &amount
}
