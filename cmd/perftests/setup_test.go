package perftests

import (
	"fmt"
	"time"

	bidding "phoneclubs-auctions/internal/biddingService"
	model "phoneclubs-auctions/internal/models"
	repository "phoneclubs-auctions/internal/repository"

	"github.com/shopspring/decimal"
)

const benchSeller = "bench_seller"

func auctionID(i int) string {
	return fmt.Sprintf("auction_%d", i)
}

func bidder(id string) model.User {
	return model.User{UserID: id, Username: id}
}

// setupRepo creates repository and bidding service with live auctions starting at startPrice
func setupRepo(numAuctions int, startPrice int64) (*repository.MemoryRepo, *bidding.BiddingService) {
	repo := repository.NewMemoryRepo()
	svc := bidding.NewBiddingService(repo)
	end := time.Now().Add(24 * time.Hour)
	for i := 0; i < numAuctions; i++ {
		_ = repo.AddAuction(model.Auction{
			ID:          auctionID(i),
			Title:       fmt.Sprintf("title_%d", i),
			Description: "Load test auction",
			StartPrice:  decimal.NewFromInt(startPrice),
			Status:      model.StatusLive,
			EndDate:     &end,
			SellerID:    benchSeller,
		})
	}
	return repo, svc
}
