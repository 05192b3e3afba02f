package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"

	"github.com/shopspring/decimal"
)

// IsLive reports whether the auction accepts bids at now.
// The server status can lag behind the end date, so both must agree; a missing end date falls back to status alone.
func IsLive(a models.Auction, now time.Time) bool {
	if a.Status != models.StatusLive {
		return false
	}
	if a.EndDate == nil {
		return true
	}
	return now.Before(*a.EndDate)
}

// TimeRemaining returns how long the auction stays live, or zero when it is not live or has no end date
func TimeRemaining(a models.Auction, now time.Time) time.Duration {
	if !IsLive(a, now) || a.EndDate == nil {
		return 0
	}
	return a.EndDate.Sub(now)
}

// MinimumBid returns the smallest acceptable next bid under the flat +1 increment
func MinimumBid(current decimal.Decimal) decimal.Decimal {
	return DefaultPolicy.MinimumBid(current)
}

// BelowMinimumError reports a bid under the required minimum
type BelowMinimumError struct {
	Minimum decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("bid must be at least %s", e.Minimum.String())
}

func (e *BelowMinimumError) Unwrap() error {
	return biddingerrors.ErrBidTooLow
}

// ValidateBid parses user input and checks it against minimum.
// No network call is ever made for input rejected here.
func ValidateBid(input string, minimum decimal.Decimal) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, biddingerrors.ErrInvalidBidAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, biddingerrors.ErrInvalidBidAmount
	}

	if amount.LessThan(minimum) {
		return decimal.Zero, &BelowMinimumError{Minimum: minimum}
	}

	return amount, nil
}
