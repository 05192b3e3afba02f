package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"phoneclubs-auctions/internal/biddingerrors"
	model "phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/utils"

	"github.com/gin-gonic/gin"
)

const userContextKey = "auction_user"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "Invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "Auction not found"
	case errors.Is(err, biddingerrors.ErrListingNotFound):
		return http.StatusNotFound, "Listing not found"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusBadRequest, "Bid too low"
	case errors.Is(err, biddingerrors.ErrAuctionEnded):
		return http.StatusBadRequest, "Auction has ended"
	case errors.Is(err, biddingerrors.ErrSelfBid):
		return http.StatusForbidden, "You cannot bid on your own auction"
	case errors.Is(err, biddingerrors.ErrSelfReport):
		return http.StatusForbidden, "You cannot report your own listing"
	case errors.Is(err, biddingerrors.ErrInvalidReport):
		return http.StatusBadRequest, "Invalid report"
	case errors.Is(err, biddingerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "Invalid auction details"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "Invalid bid details"
	case errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// SetUser stores the authenticated user on the request context
func SetUser(c *gin.Context, user model.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok && user.UserID != ""
}
