package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type httpHandler struct {
	logger  *zap.Logger
	service *booking.Service
	cfg     Config
}

func (handler *httpHandler) requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), handler.cfg.RequestTimeout)
}

// requireSession rejects requests whose claims are missing; the client is pointed at the sign-in page.
func (handler *httpHandler) requireSession(ctx *gin.Context) (booking.Session, bool) {
	session := sessionFromClaims(getClaims(ctx))
	if !session.Authenticated() {
		handler.respondError(ctx, booking.ErrSessionRequired)
		return booking.Session{}, false
	}
	return session, true
}

func (handler *httpHandler) handleSession(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		handler.respondError(ctx, booking.ErrSessionRequired)
		return
	}
	session := sessionFromClaims(claims)
	ctx.JSON(http.StatusOK, gin.H{
		"user_id":    claims.GetUserID(),
		"email":      claims.GetUserEmail(),
		"display":    claims.GetUserDisplayName(),
		"avatar_url": claims.GetUserAvatarURL(),
		"roles":      claims.GetUserRoles(),
		"is_admin":   session.IsAdmin(),
		"expires":    claims.GetExpiresAt().Unix(),
	})
}

func (handler *httpHandler) handleListListings(ctx *gin.Context) {
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	listings, err := handler.service.ListListings(requestCtx, booking.ListingQuery{
		Search: ctx.Query("q"),
		Sort:   booking.ListingSort(ctx.Query("sort")),
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"listings": newListingPayloads(listings)})
}

// handleListingDetail serves both the public and the signed-in detail page; only the latter can unlock reviews.
func (handler *httpHandler) handleListingDetail(ctx *gin.Context) {
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	detail, err := handler.service.ListingDetail(requestCtx, sessionFromClaims(getClaims(ctx)), listingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newListingDetailPayload(detail))
}

func (handler *httpHandler) handleQuote(ctx *gin.Context) {
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request stayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	roomID, stay, err := request.stay()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if !(booking.Selection{RoomID: roomID, Stay: stay}).Ready() {
		handler.respondError(ctx, booking.ErrSelectionIncomplete)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	quote, err := handler.service.Quote(requestCtx, listingID, roomID, stay)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"quote": newQuotePayload(quote)})
}

func (handler *httpHandler) handleCheckout(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request checkoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	choice, err := booking.ParsePaymentChoice(request.Payment)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	roomID, stay, err := request.stay()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	selection := booking.Selection{RoomID: roomID, Stay: stay, Guests: booking.GuestCount(request.Guests)}

	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	confirmation, err := handler.service.Checkout(requestCtx, session, listingID, selection, nil, choice)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"booking":  newBookingPayload(confirmation.Booking),
		"quote":    newQuotePayload(confirmation.Quote),
		"redirect": confirmation.Redirect,
	})
}

func (handler *httpHandler) handleListBookings(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	summaries, err := handler.service.ListBookings(requestCtx, session)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"bookings": newBookingSummaryPayloads(summaries)})
}

func (handler *httpHandler) handleCancelBooking(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	bookingID, err := booking.NewBookingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	cancelled, err := handler.service.CancelBooking(requestCtx, session, bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"booking": newBookingPayload(cancelled)})
}

func (handler *httpHandler) handleSubmitReview(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request reviewRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	review, err := handler.service.SubmitReview(requestCtx, session, listingID, request.Rating, request.Comment)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"review": newReviewPayload(review)})
}

func (handler *httpHandler) handleProfile(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	profile, err := handler.service.Profile(requestCtx, session)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"profile": newProfilePayload(profile)})
}

func (handler *httpHandler) handleUpdateProfile(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	var request profileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		respondBindingError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	profile, err := handler.service.UpdateProfile(requestCtx, session, booking.ProfileUpdate{
		FullName:  request.FullName,
		Email:     request.Email,
		AvatarURL: request.AvatarURL,
	})
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"profile": newProfilePayload(profile)})
}

func (handler *httpHandler) handleAddListing(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	var request listingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	created, err := handler.service.AddListing(requestCtx, session, request.listing(booking.ListingID{}))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"listing": newListingPayload(created)})
}

func (handler *httpHandler) handleUpdateListing(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request listingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	if err := handler.service.UpdateListing(requestCtx, session, request.listing(listingID)); err != nil {
		handler.respondError(ctx, err)
		return
	}
	listing, err := handler.service.ListingDetail(requestCtx, session, listingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"listing": newListingPayload(listing.Listing)})
}

func (handler *httpHandler) handleRemoveListing(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	if err := handler.service.RemoveListing(requestCtx, session, listingID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (handler *httpHandler) handleAddRoom(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	listingID, err := booking.NewListingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request roomRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	room := request.room()
	room.ListingID = listingID

	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	created, err := handler.service.AddRoom(requestCtx, session, room)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"room": newRoomPayload(created)})
}

func (handler *httpHandler) handleUpdateRoom(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	roomID, err := booking.NewRoomID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request roomRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	room := request.room()
	room.ID = roomID

	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	updated, err := handler.service.UpdateRoom(requestCtx, session, room)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": newRoomPayload(updated)})
}

func (handler *httpHandler) handleSubmitHostApplication(ctx *gin.Context) {
	var request hostApplicationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBindingError(ctx, err)
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	created, err := handler.service.SubmitHostApplication(requestCtx, request.application())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"application": newHostApplicationPayload(created)})
}

func (handler *httpHandler) handleListHostApplications(ctx *gin.Context) {
	session, ok := handler.requireSession(ctx)
	if !ok {
		return
	}
	requestCtx, cancel := handler.requestContext(ctx)
	defer cancel()

	applications, err := handler.service.ListHostApplications(requestCtx, session)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"applications": newHostApplicationPayloads(applications)})
}
