package helpers

import (
	"encoding/json"
	"time"

	model "phoneclubs-auctions/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs

// PlaceBidRequest accepts the amount as `amount` or `bid_amount`, number or string
type PlaceBidRequest struct {
	Amount    decimal.NullDecimal `json:"amount"`
	BidAmount decimal.NullDecimal `json:"bid_amount"`
}

// Value returns the bid amount, preferring `amount`
func (r PlaceBidRequest) Value() (decimal.Decimal, bool) {
	if r.Amount.Valid {
		return r.Amount.Decimal, true
	}
	if r.BidAmount.Valid {
		return r.BidAmount.Decimal, true
	}
	return decimal.Zero, false
}

// CreateAuctionRequest opens an auction. end_date is RFC 3339 or a zone-less `2006-01-02T15:04`, read as UTC.
type CreateAuctionRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	StartPrice  decimal.NullDecimal `json:"start_price"`
	EndDate     string              `json:"end_date" binding:"required"`
}

var endDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParsedEndDate returns the end date, or false when it matches no accepted layout
func (r CreateAuctionRequest) ParsedEndDate() (time.Time, bool) {
	for _, layout := range endDateLayouts {
		if t, err := time.ParseInLocation(layout, r.EndDate, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type ReportRequest struct {
	ListingID   string `json:"listing_id" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

type BidResponse struct {
	ID         string      `json:"id"`
	AuctionID  string      `json:"auction_id"`
	BidderID   string      `json:"bidder_id"`
	BidderName string      `json:"bidder_name"`
	BidAmount  json.Number `json:"bid_amount"`
	CreatedAt  string      `json:"created_at"`
}

type AuctionResponse struct {
	ID           string        `json:"id"`
	ListingID    string        `json:"listing_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	StartPrice   json.Number   `json:"start_price"`
	CurrentPrice json.Number   `json:"current_price"`
	Status       string        `json:"status"`
	EndDate      *string       `json:"end_date"`
	SellerID     string        `json:"seller_id"`
	SellerName   string        `json:"seller_name"`
	BidCount     int           `json:"bid_count"`
	Bids         []BidResponse `json:"bids"`
}

type AuctionListResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
}

type ReportResponse struct {
	ID          string `json:"id"`
	ListingID   string `json:"listing_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// NewAuctionResponse renders an auction for the wire
func NewAuctionResponse(a model.Auction) AuctionResponse {
	resp := AuctionResponse{
		ID:           a.ID,
		ListingID:    a.ListingID,
		Title:        a.Title,
		Description:  a.Description,
		StartPrice:   json.Number(a.StartPrice.String()),
		CurrentPrice: json.Number(a.CurrentPrice.String()),
		Status:       string(a.Status),
		SellerID:     a.SellerID,
		SellerName:   a.SellerName,
		BidCount:     a.BidCount,
		Bids:         make([]BidResponse, 0, len(a.Bids)),
	}
	if a.EndDate != nil {
		end := a.EndDate.UTC().Format(time.RFC3339)
		resp.EndDate = &end
	}
	for _, b := range a.Bids {
		resp.Bids = append(resp.Bids, BidResponse{
			ID:         b.ID,
			AuctionID:  b.AuctionID,
			BidderID:   b.BidderID,
			BidderName: b.BidderName,
			BidAmount:  json.Number(b.Amount.String()),
			CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}

func NewReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		ListingID:   r.ListingID,
		Reason:      string(r.Reason),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
