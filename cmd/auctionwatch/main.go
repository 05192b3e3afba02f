// Command auctionwatch follows one auction from the terminal. It polls the API, prints every
// change, and can place a bid or file a report against the listing on the way.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phoneclubs-auctions/internal/apiclient"
	session "phoneclubs-auctions/internal/auctionSession"
	"phoneclubs-auctions/internal/auth"
	"phoneclubs-auctions/internal/config"
	model "phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/internal/reporting"
	"phoneclubs-auctions/utils"

	"github.com/shopspring/decimal"
)

func main() {
	auctionID := flag.String("id", "", "auction to follow")
	bid := flag.String("bid", "", "place this bid once the auction has loaded")
	reason := flag.String("report", "", "file a report with this reason once the auction has loaded")
	note := flag.String("report-note", "", "optional report description")

	cfg, err := config.Parse()
	if err != nil {
		utils.Fatal("configuration error", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Fatal("invalid log level", map[string]any{"error": err.Error()})
	}
	if *auctionID == "" {
		utils.Fatal("missing -id", nil)
	}

	var user model.User
	if cfg.AuthToken != "" {
		user, err = auth.IdentityFromToken(cfg.AuthToken)
		if err != nil {
			utils.Fatal("unreadable auth token", map[string]any{"error": err.Error()})
		}
	}

	client := apiclient.NewClient(cfg.APIURL,
		apiclient.WithToken(cfg.AuthToken),
		apiclient.WithTimeout(cfg.RequestTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(*auctionID, client,
		session.WithPollInterval(cfg.PollInterval),
		session.WithIncrementPolicy(cfg.IncrementPolicy()),
		session.WithCurrentUser(user.UserID),
		session.WithOnChange(printSnapshot),
		session.WithOnBidPlaced(func(a model.Auction, amount decimal.Decimal) {
			utils.Info("bid placed", map[string]any{"auction_id": a.ID, "amount": amount.String()})
		}),
	)

	if err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		utils.Warn("initial fetch failed, will keep polling", map[string]any{"error": err.Error()})
	}

	if *bid != "" {
		s.SetBidInput(*bid)
		if err := s.SubmitBid(ctx); err != nil {
			utils.Error("bid not placed", map[string]any{"error": bidFailure(s.Snapshot(), err)})
		}
	}

	if *reason != "" {
		fileReport(ctx, client, user, s.Snapshot(), model.ReportReason(*reason), *note)
	}

	stopPolling := s.Start(ctx)
	<-ctx.Done()
	stopPolling()
	utils.Info("stopped watching", map[string]any{"auction_id": *auctionID})
}

// bidFailure prefers the form's message and falls back to the error for refusals that leave the form untouched
func bidFailure(snap session.Snapshot, err error) string {
	if snap.BidError != "" {
		return snap.BidError
	}
	return err.Error()
}

func fileReport(ctx context.Context, client *apiclient.Client, user model.User, snap session.Snapshot, reason model.ReportReason, note string) {
	if snap.View != session.ViewReady {
		utils.Error("cannot report: auction not loaded", map[string]any{"view": snap.View.String()})
		return
	}

	form, err := reporting.NewReporter(client).Open(user.UserID, snap.Auction)
	if err != nil {
		utils.Error("cannot report this listing", map[string]any{"error": err.Error()})
		return
	}
	if err := form.Submit(ctx, reason, note); err != nil {
		utils.Error("report not filed", map[string]any{"error": reporting.FailureMessage(err)})
		return
	}
	utils.Info("report filed", map[string]any{"listing_id": form.ListingID(), "reason": string(reason)})
}

func printSnapshot(snap session.Snapshot) {
	fields := map[string]any{
		"view":      snap.View.String(),
		"bid_state": snap.BidState.String(),
	}
	if snap.View == session.ViewReady {
		fields["title"] = snap.Auction.Title
		fields["current_price"] = snap.Auction.CurrentPrice.String()
		fields["minimum_bid"] = snap.MinimumBid.String()
		fields["bid_count"] = snap.Auction.BidCount
		fields["live"] = snap.Live
		fields["time_remaining"] = snap.TimeRemaining.Round(time.Second).String()
		fields["optimistic"] = snap.Optimistic
	}
	if snap.BidError != "" {
		fields["bid_error"] = snap.BidError
	}
	utils.Info("auction update", fields)
}
