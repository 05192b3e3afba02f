package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle status reported by the backend
type AuctionStatus string

const (
	StatusLive  AuctionStatus = "live"
	StatusEnded AuctionStatus = "ended"
)

// User represents an authenticated participant
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Auction is the canonical auction record every package works with.
// EndDate is nil when the backend sent no end date or one that could not be parsed.
type Auction struct {
	ID           string          `json:"id"`
	ListingID    string          `json:"listing_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	StartPrice   decimal.Decimal `json:"start_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Status       AuctionStatus   `json:"status"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	SellerID     string          `json:"seller_id"`
	SellerName   string          `json:"seller_name"`
	BidCount     int             `json:"bid_count"`
	Bids         []Bid           `json:"bids"` // most recent first
}

// Bid represents a user's bid on an auction
type Bid struct {
	ID         string          `json:"id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReportReason is one of the fixed moderation categories
type ReportReason string

const (
	ReasonSpam          ReportReason = "Spam or Scam"
	ReasonInappropriate ReportReason = "Inappropriate Content"
	ReasonMisleading    ReportReason = "Misleading Information"
	ReasonDuplicate     ReportReason = "Duplicate Listing"
	ReasonWrongCategory ReportReason = "Wrong Category"
	ReasonFakeAuction   ReportReason = "Fake Auction"
	ReasonOther         ReportReason = "Other"
)

// ReportReasons lists the accepted moderation categories in display order
var ReportReasons = []ReportReason{
	ReasonSpam,
	ReasonInappropriate,
	ReasonMisleading,
	ReasonDuplicate,
	ReasonWrongCategory,
	ReasonFakeAuction,
	ReasonOther,
}

// Valid reports whether r is one of ReportReasons
func (r ReportReason) Valid() bool {
	for _, known := range ReportReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Report flags a listing for moderation
type Report struct {
	ID          string       `json:"id"`
	ListingID   string       `json:"listing_id"`
	ReporterID  string       `json:"reporter_id"`
	Reason      ReportReason `json:"reason"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
}
