package bidding

import (
	"fmt"
	"strings"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/clock"
	"phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/internal/repository"
	"phoneclubs-auctions/utils"

	"github.com/shopspring/decimal"
)

// BiddingService defines the business logic of the reference auction backend
type BiddingService struct {
	repo  repository.AuctionDB
	clock clock.Clock
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithClock sets the time source used for liveness checks and timestamps
func WithClock(c clock.Clock) Option {
	return func(s *BiddingService) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:  repo,
		clock: clock.Real{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuction opens a new auction for seller. The end date must lie in the future.
func (s *BiddingService) CreateAuction(seller models.User, title, description string, startPrice decimal.Decimal, endDate time.Time) (models.Auction, error) {
	if seller.UserID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing seller", biddingerrors.ErrUnauthorized)
	}
	if strings.TrimSpace(title) == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty title", biddingerrors.ErrInvalidAuction)
	}
	if !startPrice.IsPositive() {
		return models.Auction{}, fmt.Errorf("service: %w - non-positive start price", biddingerrors.ErrInvalidAuction)
	}
	now := s.clock.Now().UTC()
	if !endDate.After(now) {
		return models.Auction{}, fmt.Errorf("service: %w - end date must be in the future", biddingerrors.ErrInvalidAuction)
	}

	end := endDate.UTC()
	auction := models.Auction{
		ID:           utils.GenerateID(),
		Title:        strings.TrimSpace(title),
		Description:  description,
		StartPrice:   startPrice,
		CurrentPrice: startPrice,
		Status:       models.StatusLive,
		EndDate:      &end,
		SellerID:     seller.UserID,
		SellerName:   seller.Username,
	}
	auction.ListingID = auction.ID

	if err := s.repo.AddAuction(auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction %q: %w", title, err)
	}
	return auction, nil
}

// PlaceBid validates and records a bid. The repository decides the final ordering under its lock.
func (s *BiddingService) PlaceBid(auctionID string, bidder models.User, amount decimal.Decimal) (models.Auction, error) {
	if err := s.validateBid(auctionID, bidder, amount); err != nil {
		return models.Auction{}, err
	}

	now := s.clock.Now().UTC()
	bid := models.Bid{
		ID:         utils.GenerateID(),
		AuctionID:  auctionID,
		BidderID:   bidder.UserID,
		BidderName: bidder.Username,
		Amount:     amount,
		CreatedAt:  now,
	}

	auction, err := s.repo.RecordBid(bid, now)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to record bid on auction %s by user %s: %w", auctionID, bidder.UserID, err)
	}

	return auction, nil
}

// validateBid checks input validity before touching storage
func (s *BiddingService) validateBid(auctionID string, bidder models.User, amount decimal.Decimal) error {
	if auctionID == "" {
		return fmt.Errorf("service: %w - missing auction ID", biddingerrors.ErrInvalidBid)
	}
	if bidder.UserID == "" {
		return fmt.Errorf("service: %w - missing bidder", biddingerrors.ErrUnauthorized)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	return nil
}

// GetAuction returns one auction
func (s *BiddingService) GetAuction(auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrAuctionNotFound)
	}

	auction, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns up to limit auctions
func (s *BiddingService) ListAuctions(limit int) ([]models.Auction, error) {
	if limit < 0 {
		return nil, fmt.Errorf("service: %w - negative limit", biddingerrors.ErrInvalidBid)
	}

	auctions, err := s.repo.ListAuctions(limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// FileReport records a moderation report. Sellers cannot report their own listings.
func (s *BiddingService) FileReport(reporter models.User, listingID string, reason models.ReportReason, description string) (models.Report, error) {
	if reporter.UserID == "" {
		return models.Report{}, fmt.Errorf("service: %w - missing reporter", biddingerrors.ErrUnauthorized)
	}
	if listingID == "" {
		return models.Report{}, fmt.Errorf("service: %w - missing listing ID", biddingerrors.ErrInvalidReport)
	}
	if !reason.Valid() {
		return models.Report{}, fmt.Errorf("service: %w - unknown reason %q", biddingerrors.ErrInvalidReport, reason)
	}

	auction, err := s.repo.GetAuctionByListing(listingID)
	if err != nil {
		return models.Report{}, fmt.Errorf("service: failed to find listing %s: %w", listingID, err)
	}
	if auction.SellerID == reporter.UserID {
		return models.Report{}, fmt.Errorf("service: listing %s: %w", listingID, biddingerrors.ErrSelfReport)
	}

	report := models.Report{
		ID:          utils.GenerateID(),
		ListingID:   listingID,
		ReporterID:  reporter.UserID,
		Reason:      reason,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.RecordReport(report); err != nil {
		return models.Report{}, fmt.Errorf("service: failed to record report on listing %s: %w", listingID, err)
	}
	return report, nil
}
