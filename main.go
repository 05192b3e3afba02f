package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "phoneclubs-auctions/internal/biddingService"
	"phoneclubs-auctions/internal/config"
	model "phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/internal/repository"
	"phoneclubs-auctions/internal/server"
	"phoneclubs-auctions/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Parse()
	if err != nil {
		utils.Fatal("configuration error", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Fatal("invalid log level", map[string]any{"error": err.Error()})
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = utils.GenerateID()
		utils.Warn("no JWT secret configured, using a random one; issued tokens will not survive a restart", nil)
	}

	repo := repository.NewMemoryRepo()
	biddingSvc := bidding.NewBiddingService(repo)

	if cfg.SeedAuctions {
		if err := prepopulateAuctions(biddingSvc); err != nil {
			utils.Fatal("failed to seed auctions", map[string]any{"error": err.Error()})
		}
	}

	router := server.SetupRouter(biddingSvc, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{"addr": cfg.RunAddress})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		utils.Info("shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		utils.Info("server stopped gracefully", nil)
		return nil
	})

	if err := g.Wait(); err != nil {
		utils.Fatal("server terminated with error", map[string]any{"error": err.Error()})
	}
}

// prepopulateAuctions opens a few demo auctions so the API has something to serve
func prepopulateAuctions(svc *bidding.BiddingService) error {
	seller := model.User{UserID: "demo-seller", Username: "phoneclubs"}
	now := time.Now()

	demo := []struct {
		title       string
		description string
		startPrice  string
		duration    time.Duration
	}{
		{"iPhone 13 Pro 128GB", "Sierra blue, battery health 89%", "350", 24 * time.Hour},
		{"Samsung Galaxy S22", "Unlocked, minor scuffs on frame", "220", 48 * time.Hour},
		{"Pixel 7a", "Boxed, never used", "180.50", 2 * time.Hour},
	}

	for _, d := range demo {
		a, err := svc.CreateAuction(seller, d.title, d.description, decimal.RequireFromString(d.startPrice), now.Add(d.duration))
		if err != nil {
			return err
		}
		utils.Info("seeded auction", map[string]any{"auction_id": a.ID, "title": a.Title})
	}
	return nil
}
