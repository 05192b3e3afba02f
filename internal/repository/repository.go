package repository

import (
	"fmt"
	"sync"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/lifecycle"
	model "phoneclubs-auctions/internal/models"
)

// AuctionDB defines the auction storage interface for the reference backend
type AuctionDB interface {
	AddAuction(auction model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	GetAuctionByListing(listingID string) (model.Auction, error)
	ListAuctions(limit int) ([]model.Auction, error)
	RecordBid(bid model.Bid, now time.Time) (model.Auction, error)
	RecordReport(report model.Report) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction  // key: auctionID -> value: auction, bids most recent first
	listings map[string]string         // key: listingID -> value: auctionID
	order    []string                  // auctionIDs in insertion order
	reports  map[string][]model.Report // key: listingID -> value: reports filed against it
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]model.Auction),
		listings: make(map[string]string),
		reports:  make(map[string][]model.Report),
	}
}

// AddAuction stores a new auction. Its listing id defaults to the auction id.
func (r *MemoryRepo) AddAuction(auction model.Auction) error {
	if auction.ID == "" {
		return fmt.Errorf("add auction: %w - empty auction ID", biddingerrors.ErrInvalidAuction)
	}
	if auction.ListingID == "" {
		auction.ListingID = auction.ID
	}
	if auction.CurrentPrice.IsZero() {
		auction.CurrentPrice = auction.StartPrice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[auction.ID]; !exists {
		r.order = append(r.order, auction.ID)
	}
	r.auctions[auction.ID] = cloneAuction(auction)
	r.listings[auction.ListingID] = auction.ID
	return nil
}

// GetAuction returns one auction by id
func (r *MemoryRepo) GetAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return cloneAuction(auction), nil
}

// GetAuctionByListing returns the auction that sells a listing
func (r *MemoryRepo) GetAuctionByListing(listingID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctionID, ok := r.listings[listingID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction for listing %s: %w", listingID, biddingerrors.ErrListingNotFound)
	}
	return cloneAuction(r.auctions[auctionID]), nil
}

// ListAuctions returns up to limit auctions, newest first. A non-positive limit returns all.
func (r *MemoryRepo) ListAuctions(limit int) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.order)
	if limit > 0 && limit < n {
		n = limit
	}

	auctions := make([]model.Auction, 0, n)
	for i := len(r.order) - 1; i >= 0 && len(auctions) < n; i-- {
		auctions = append(auctions, cloneAuction(r.auctions[r.order[i]]))
	}
	return auctions, nil
}

// RecordBid accepts a bid if the auction is live at now and the amount beats the current price.
// The check and the update happen under one lock, so concurrent bids are strictly increasing.
func (r *MemoryRepo) RecordBid(bid model.Bid, now time.Time) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[bid.AuctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionNotFound)
	}
	if !lifecycle.IsLive(auction, now) {
		return model.Auction{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionEnded)
	}
	if bid.BidderID != "" && bid.BidderID == auction.SellerID {
		return model.Auction{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrSelfBid)
	}
	if !bid.Amount.GreaterThan(auction.CurrentPrice) {
		return model.Auction{}, fmt.Errorf("record bid for auction %s: %w - current price is %s",
			bid.AuctionID, biddingerrors.ErrBidTooLow, auction.CurrentPrice.String())
	}

	auction.CurrentPrice = bid.Amount
	auction.BidCount++
	auction.Bids = append([]model.Bid{bid}, auction.Bids...)
	r.auctions[bid.AuctionID] = auction

	return cloneAuction(auction), nil
}

// RecordReport stores a report against an existing listing
func (r *MemoryRepo) RecordReport(report model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[report.ListingID]; !ok {
		return fmt.Errorf("record report for listing %s: %w", report.ListingID, biddingerrors.ErrListingNotFound)
	}
	r.reports[report.ListingID] = append(r.reports[report.ListingID], report)
	return nil
}

// ReportsForListing returns the reports filed against a listing
func (r *MemoryRepo) ReportsForListing(listingID string) []model.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Report(nil), r.reports[listingID]...)
}

func cloneAuction(a model.Auction) model.Auction {
	a.Bids = append([]model.Bid(nil), a.Bids...)
	if a.EndDate != nil {
		end := *a.EndDate
		a.EndDate = &end
	}
	return a
}
