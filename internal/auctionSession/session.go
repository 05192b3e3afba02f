// Package session keeps one auction's client-side view in step with the backend:
// it polls, validates and submits bids, and layers a short-lived optimistic update over the polled state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/clock"
	"phoneclubs-auctions/internal/lifecycle"
	"phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/utils"

	"github.com/shopspring/decimal"
)

// DefaultPollInterval is how often the auction is re-fetched while a session runs
const DefaultPollInterval = 5 * time.Second

// Backend is the part of the auction API a session needs
type Backend interface {
	GetAuction(ctx context.Context, id string) (models.Auction, error)
	SubmitBid(ctx context.Context, auctionID string, amount decimal.Decimal) error
}

// ViewState is what the auction view can show
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewReady
	ViewNotFound
)

func (v ViewState) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewReady:
		return "ready"
	case ViewNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// BidState tracks the bid form
type BidState int

const (
	BidIdle BidState = iota
	BidValidating
	BidSubmitting
	BidSucceeded
	BidFailed
)

func (b BidState) String() string {
	switch b {
	case BidIdle:
		return "idle"
	case BidValidating:
		return "validating"
	case BidSubmitting:
		return "submitting"
	case BidSucceeded:
		return "succeeded"
	case BidFailed:
		return "failed"
	default:
		return fmt.Sprintf("bid(%d)", int(b))
	}
}

// Snapshot is a consistent copy of the session for rendering
type Snapshot struct {
	View          ViewState
	Auction       models.Auction // optimistic overlay when present, else the last polled state
	Optimistic    bool
	Live          bool
	MinimumBid    decimal.Decimal
	TimeRemaining time.Duration
	BidInput      string
	BidState      BidState
	BidError      string
}

// Session owns the view of a single auction
type Session struct {
	auctionID     string
	backend       Backend
	clock         clock.Clock
	interval      time.Duration
	policy        lifecycle.IncrementPolicy
	userID        string
	blockSelfBids bool
	onChange      func(Snapshot)
	onBidPlaced   func(models.Auction, decimal.Decimal)

	mu         sync.Mutex
	view       ViewState
	confirmed  *models.Auction
	overlay    *models.Auction
	input      string
	bidState   BidState
	bidErr     string
	submitting bool
	stopped    bool
	stopFn     func()
}

// Option configures a Session
type Option func(*Session)

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithIncrementPolicy(p lifecycle.IncrementPolicy) Option {
	return func(s *Session) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithCurrentUser identifies the signed-in user
func WithCurrentUser(userID string) Option {
	return func(s *Session) { s.userID = userID }
}

// WithBlockSelfBids refuses bids by the seller before they reach the backend
func WithBlockSelfBids() Option {
	return func(s *Session) { s.blockSelfBids = true }
}

// WithOnChange registers a callback run after every state change.
// It may be called from the polling goroutine and from SubmitBid callers concurrently.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithOnBidPlaced registers a callback run after the backend accepts a bid
func WithOnBidPlaced(fn func(models.Auction, decimal.Decimal)) Option {
	return func(s *Session) { s.onBidPlaced = fn }
}

// New creates a session for auctionID. Nothing is fetched until Start or Refresh.
func New(auctionID string, backend Backend, opts ...Option) *Session {
	s := &Session{
		auctionID: auctionID,
		backend:   backend,
		clock:     clock.Real{},
		interval:  DefaultPollInterval,
		policy:    lifecycle.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fetches immediately and then once per poll interval until stop is called or ctx ends.
// stop blocks until the loop has exited; afterwards the session never changes again.
// Calling Start more than once returns the first stop handle.
func (s *Session) Start(ctx context.Context) (stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopFn != nil {
		return s.stopFn
	}

	ctx, cancel := context.WithCancel(ctx)
	ticker := s.clock.NewTicker(s.interval)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()

		s.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				s.poll(ctx)
			}
		}
	}()

	var once sync.Once
	s.stopFn = func() {
		once.Do(func() {
			s.mu.Lock()
			s.stopped = true
			s.mu.Unlock()

			cancel()
			<-done
		})
	}
	return s.stopFn
}

func (s *Session) poll(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		utils.Debug("session: poll failed", map[string]any{
			"auction_id": s.auctionID,
			"error":      err.Error(),
		})
	}
}

// Refresh fetches the auction once. A successful fetch replaces the confirmed state and drops any
// optimistic overlay. Not-found moves the view to ViewNotFound; other failures keep the last good state.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return biddingerrors.ErrSessionStopped
	}

	auction, err := s.backend.GetAuction(ctx, s.auctionID)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return biddingerrors.ErrSessionStopped
	}

	switch {
	case err == nil:
		s.confirmed = &auction
		s.overlay = nil
		s.view = ViewReady
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		s.confirmed = nil
		s.overlay = nil
		s.view = ViewNotFound
	default:
		s.mu.Unlock()
		if ctx.Err() == nil {
			utils.Warn("session: fetch failed, keeping last state", map[string]any{
				"auction_id": s.auctionID,
				"error":      err.Error(),
			})
		}
		return fmt.Errorf("session: refresh auction %s: %w", s.auctionID, err)
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	if err != nil {
		return fmt.Errorf("session: refresh auction %s: %w", s.auctionID, err)
	}
	return nil
}

// SetBidInput stores the raw bid text and resets the form
func (s *Session) SetBidInput(input string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.input = input
	if !s.submitting {
		s.bidState = BidIdle
		s.bidErr = ""
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SubmitBid validates the current input and sends it. Input that fails validation never reaches the backend.
// On success the displayed price and bid count are updated until the next poll replaces them.
func (s *Session) SubmitBid(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return biddingerrors.ErrSessionStopped
	}
	if s.submitting {
		s.mu.Unlock()
		return biddingerrors.ErrSubmissionInProgress
	}

	display := s.displayLocked()
	if display == nil {
		s.mu.Unlock()
		return biddingerrors.ErrAuctionNotLoaded
	}

	s.bidState = BidValidating
	amount, err := s.validateLocked(*display)
	if err != nil {
		s.bidState = BidFailed
		s.bidErr = err.Error()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return err
	}

	s.submitting = true
	s.bidState = BidSubmitting
	s.bidErr = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	submitErr := s.backend.SubmitBid(ctx, s.auctionID, amount)

	s.mu.Lock()
	s.submitting = false
	if s.stopped {
		s.mu.Unlock()
		if submitErr != nil {
			return fmt.Errorf("%w: %w", biddingerrors.ErrSubmissionFailed, submitErr)
		}
		return nil
	}

	if submitErr != nil {
		s.bidState = BidFailed
		s.bidErr = failureMessage(submitErr)
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)

		utils.Warn("session: bid rejected", map[string]any{
			"auction_id": s.auctionID,
			"amount":     amount.String(),
			"error":      submitErr.Error(),
		})
		return fmt.Errorf("%w: %w", biddingerrors.ErrSubmissionFailed, submitErr)
	}

	var placed models.Auction
	if current := s.displayLocked(); current != nil {
		placed = copyAuction(*current)
		placed.CurrentPrice = amount
		placed.BidCount++
		s.overlay = &placed
	}
	s.input = ""
	s.bidErr = ""
	s.bidState = BidSucceeded
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	utils.Info("session: bid placed", map[string]any{
		"auction_id": s.auctionID,
		"amount":     amount.String(),
	})
	if s.onBidPlaced != nil {
		s.onBidPlaced(placed, amount)
	}
	return nil
}

func (s *Session) validateLocked(a models.Auction) (decimal.Decimal, error) {
	if !lifecycle.IsLive(a, s.clock.Now()) {
		return decimal.Zero, biddingerrors.ErrAuctionEnded
	}
	if s.blockSelfBids && s.userID != "" && s.userID == a.SellerID {
		return decimal.Zero, biddingerrors.ErrSelfBid
	}
	return lifecycle.ValidateBid(s.input, s.policy.MinimumBid(a.CurrentPrice))
}

// failureMessage shows the backend's own text when it sent one
func failureMessage(err error) string {
	var msg interface{ ServerMessage() string }
	if errors.As(err, &msg) && msg.ServerMessage() != "" {
		return msg.ServerMessage()
	}
	return biddingerrors.ErrSubmissionFailed.Error()
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) displayLocked() *models.Auction {
	if s.overlay != nil {
		return s.overlay
	}
	return s.confirmed
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		View:     s.view,
		BidInput: s.input,
		BidState: s.bidState,
		BidError: s.bidErr,
	}

	display := s.displayLocked()
	if display == nil {
		return snap
	}

	now := s.clock.Now()
	snap.Auction = copyAuction(*display)
	snap.Optimistic = s.overlay != nil
	snap.Live = lifecycle.IsLive(*display, now)
	snap.MinimumBid = s.policy.MinimumBid(display.CurrentPrice)
	snap.TimeRemaining = lifecycle.TimeRemaining(*display, now)
	return snap
}

func (s *Session) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

func copyAuction(a models.Auction) models.Auction {
	if a.Bids != nil {
		a.Bids = append([]models.Bid(nil), a.Bids...)
	}
	if a.EndDate != nil {
		end := *a.EndDate
		a.EndDate = &end
	}
	return a
}
