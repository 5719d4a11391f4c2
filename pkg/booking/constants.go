package booking

const (
	operationBook          = "book"
	operationCancel        = "cancel"
	operationReview        = "review"
	operationProfile       = "profile"
	operationAddListing    = "add_listing"
	operationUpdateListing = "update_listing"
	operationRemoveListing = "remove_listing"
	operationAddRoom       = "add_room"
	operationUpdateRoom    = "update_room"

	operationHostApplication = "host_application"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	// RouteMyBookings is where clients navigate after a successful booking.
	RouteMyBookings = "/my-bookings"
	// RouteAuth is where clients navigate when an action needs a session.
	RouteAuth = "/auth"

	transactionIDPrefix = "0x"
	transactionIDBytes  = 32
)
