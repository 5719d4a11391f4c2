package booking

import (
	"context"
	"fmt"
	"strings"
)

// AddListing creates a listing. Requires an admin session.
func (service *Service) AddListing(ctx context.Context, session Session, listing Listing) (Listing, error) {
	if err := requireAdmin(session); err != nil {
		return Listing{}, err
	}
	if err := validateListing(listing); err != nil {
		return Listing{}, err
	}
	listing.CreatedAt = service.nowFn().UTC()
	created, operationError := service.store.CreateListing(ctx, listing)
	service.logOperation(ctx, OperationLog{
		Operation: operationAddListing,
		UserID:    session.UserID(),
		ListingID: created.ID,
		Amount:    listing.PricePerNight,
		Error:     operationError,
	})
	if operationError != nil {
		return Listing{}, operationError
	}
	return created, nil
}

// UpdateListing replaces the editable fields of an existing listing.
func (service *Service) UpdateListing(ctx context.Context, session Session, listing Listing) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if err := validateListing(listing); err != nil {
		return err
	}
	operationError := service.store.UpdateListing(ctx, listing)
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateListing,
		UserID:    session.UserID(),
		ListingID: listing.ID,
		Amount:    listing.PricePerNight,
		Error:     operationError,
	})
	return operationError
}

// RemoveListing deletes a listing together with its rooms. Listings that any booking references are kept.
func (service *Service) RemoveListing(ctx context.Context, session Session, listingID ListingID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	operationError := service.store.DeleteListing(ctx, listingID)
	service.logOperation(ctx, OperationLog{
		Operation: operationRemoveListing,
		UserID:    session.UserID(),
		ListingID: listingID,
		Error:     operationError,
	})
	return operationError
}

// AddRoom creates a room under an existing listing.
func (service *Service) AddRoom(ctx context.Context, session Session, room Room) (Room, error) {
	if err := requireAdmin(session); err != nil {
		return Room{}, err
	}
	if err := validateRoom(room); err != nil {
		return Room{}, err
	}
	var created Room
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.GetListing(ctx, room.ListingID); err != nil {
			return err
		}
		var err error
		created, err = transactionStore.CreateRoom(ctx, room)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationAddRoom,
		UserID:    session.UserID(),
		ListingID: room.ListingID,
		Amount:    room.PricePerNight,
		Error:     operationError,
	})
	if operationError != nil {
		return Room{}, operationError
	}
	return created, nil
}

// UpdateRoom replaces the editable fields of a room. The owning listing cannot change.
func (service *Service) UpdateRoom(ctx context.Context, session Session, room Room) (Room, error) {
	if err := requireAdmin(session); err != nil {
		return Room{}, err
	}
	var updated Room
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		existing, err := transactionStore.GetRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		room.ListingID = existing.ListingID
		if err := validateRoom(room); err != nil {
			return err
		}
		if err := transactionStore.UpdateRoom(ctx, room); err != nil {
			return err
		}
		updated = room
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateRoom,
		UserID:    session.UserID(),
		ListingID: updated.ListingID,
		Amount:    room.PricePerNight,
		Error:     operationError,
	})
	if operationError != nil {
		return Room{}, operationError
	}
	return updated, nil
}

func requireAdmin(session Session) error {
	if !session.Authenticated() {
		return ErrSessionRequired
	}
	if !session.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func validateListing(listing Listing) error {
	if strings.TrimSpace(listing.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	if strings.TrimSpace(listing.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidListing)
	}
	if _, err := NewAmount(listing.PricePerNight.Int64()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}
	if listing.Rating < 0 || listing.Rating > MaxRating {
		return fmt.Errorf("%w: rating %.1f not in [0,%d]", ErrInvalidListing, listing.Rating, MaxRating)
	}
	return nil
}

func validateRoom(room Room) error {
	if strings.TrimSpace(room.RoomType) == "" {
		return fmt.Errorf("%w: room type is required", ErrInvalidRoom)
	}
	if room.Capacity < MinGuests {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidRoom, MinGuests)
	}
	if room.AvailableRooms < 0 {
		return fmt.Errorf("%w: available rooms must not be negative", ErrInvalidRoom)
	}
	if _, err := NewAmount(room.PricePerNight.Int64()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}
	return nil
}
