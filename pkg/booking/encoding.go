package booking

// Identifiers encode as their plain string form so records survive JSON round trips
// through caches and API payloads. An empty string decodes to the zero identifier.

// MarshalText encodes the UserID as its plain string form.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText validates text through NewUserID; empty text yields the zero UserID.
func (id *UserID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = UserID{}
		return nil
	}
	parsed, err := NewUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText encodes the ListingID as its plain string form.
func (id ListingID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText validates text through NewListingID; empty text yields the zero ListingID.
func (id *ListingID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ListingID{}
		return nil
	}
	parsed, err := NewListingID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText encodes the RoomID as its plain string form.
func (id RoomID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText validates text through NewRoomID; empty text yields the zero RoomID.
func (id *RoomID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = RoomID{}
		return nil
	}
	parsed, err := NewRoomID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText encodes the BookingID as its plain string form.
func (id BookingID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText validates text through NewBookingID; empty text yields the zero BookingID.
func (id *BookingID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = BookingID{}
		return nil
	}
	parsed, err := NewBookingID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText encodes the ReviewID as its plain string form.
func (id ReviewID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText validates text through NewReviewID; empty text yields the zero ReviewID.
func (id *ReviewID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ReviewID{}
		return nil
	}
	parsed, err := NewReviewID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
