// Package reporting guards and submits moderation reports against listings.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/utils"
)

// Submitter sends a report to the backend
type Submitter interface {
	SubmitReport(ctx context.Context, report models.Report) error
}

// CheckReportable decides whether userID may report the auction's listing.
// Owner resolution already happened during normalisation; an unknown owner never matches.
func CheckReportable(userID string, a models.Auction) error {
	if userID == "" {
		return biddingerrors.ErrLoginRequired
	}
	if a.SellerID != "" && a.SellerID == userID {
		return biddingerrors.ErrSelfReport
	}
	return nil
}

// Reporter opens report forms for the signed-in user
type Reporter struct {
	submitter Submitter
}

func NewReporter(submitter Submitter) *Reporter {
	return &Reporter{submitter: submitter}
}

// Open runs the guard and returns a form bound to the auction's listing.
// Nothing is sent to the backend when the guard refuses.
func (r *Reporter) Open(userID string, a models.Auction) (*ReportForm, error) {
	if err := CheckReportable(userID, a); err != nil {
		return nil, err
	}

	listingID := a.ListingID
	if listingID == "" {
		listingID = a.ID
	}

	return &ReportForm{
		submitter:  r.submitter,
		listingID:  listingID,
		reporterID: userID,
	}, nil
}

// ReportForm allows one submission in flight at a time
type ReportForm struct {
	submitter  Submitter
	listingID  string
	reporterID string

	mu         sync.Mutex
	submitting bool
}

func (f *ReportForm) ListingID() string { return f.listingID }

// Submit validates the reason and sends the report
func (f *ReportForm) Submit(ctx context.Context, reason models.ReportReason, description string) error {
	if reason == "" {
		return biddingerrors.ErrMissingReason
	}
	if !reason.Valid() {
		return fmt.Errorf("%w: %q", biddingerrors.ErrUnknownReason, reason)
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return biddingerrors.ErrSubmissionInProgress
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	report := models.Report{
		ListingID:   f.listingID,
		ReporterID:  f.reporterID,
		Reason:      reason,
		Description: strings.TrimSpace(description),
	}
	if err := f.submitter.SubmitReport(ctx, report); err != nil {
		utils.Warn("reporting: submit failed", map[string]any{
			"listing_id": f.listingID,
			"reason":     string(reason),
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %w", biddingerrors.ErrReportFailed, err)
	}

	utils.Info("reporting: report submitted", map[string]any{
		"listing_id": f.listingID,
		"reason":     string(reason),
	})
	return nil
}

// FailureMessage is the text to show for a failed Submit: the server's own words when present
func FailureMessage(err error) string {
	var msg interface{ ServerMessage() string }
	if errors.As(err, &msg) && msg.ServerMessage() != "" {
		return msg.ServerMessage()
	}
	if errors.Is(err, biddingerrors.ErrReportFailed) {
		return biddingerrors.ErrReportFailed.Error()
	}
	return err.Error()
}
