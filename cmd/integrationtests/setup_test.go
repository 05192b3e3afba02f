package integrationtests

import (
	"net/http/httptest"
	"testing"
	"time"

	"phoneclubs-auctions/internal/apiclient"
	"phoneclubs-auctions/internal/auth"
	bidding "phoneclubs-auctions/internal/biddingService"
	model "phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/internal/repository"
	"phoneclubs-auctions/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

var (
	seller = model.User{UserID: "seller1", Username: "phoneclubs"}
	alice  = model.User{UserID: "alice", Username: "alice"}
	bob    = model.User{UserID: "bob", Username: "bob"}
)

// TestEnv is a running backend on an httptest server
type TestEnv struct {
	Repo   *repository.MemoryRepo
	Server *httptest.Server
}

// SetupTestServerWithAuctions starts the full router over a seeded in-memory repo.
// The server is closed when the test ends.
func SetupTestServerWithAuctions(t *testing.T, auctions ...model.Auction) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	for _, a := range auctions {
		require.NoError(t, repo.AddAuction(a))
	}

	service := bidding.NewBiddingService(repo)
	srv := httptest.NewServer(server.SetupRouter(service, testSecret))
	t.Cleanup(srv.Close)

	return &TestEnv{Repo: repo, Server: srv}
}

// ClientFor returns an API client signed in as user, or anonymous for the zero user
func (e *TestEnv) ClientFor(t *testing.T, user model.User) *apiclient.Client {
	t.Helper()
	opts := []apiclient.Option{apiclient.WithTimeout(2 * time.Second)}
	if user.UserID != "" {
		token, err := auth.GenerateToken(testSecret, user.UserID, user.Username)
		require.NoError(t, err)
		opts = append(opts, apiclient.WithToken(token))
	}
	return apiclient.NewClient(e.Server.URL+"/api", opts...)
}

// liveAuction returns a live auction owned by seller ending in an hour
func liveAuction(id, price string) model.Auction {
	end := time.Now().Add(time.Hour).UTC()
	return model.Auction{
		ID:         id,
		Title:      "Phone " + id,
		StartPrice: decimal.RequireFromString(price),
		Status:     model.StatusLive,
		EndDate:    &end,
		SellerID:   seller.UserID,
		SellerName: seller.Username,
	}
}

// endedAuction returns an auction whose end date already passed
func endedAuction(id, price string) model.Auction {
	a := liveAuction(id, price)
	end := time.Now().Add(-time.Minute).UTC()
	a.EndDate = &end
	return a
}
