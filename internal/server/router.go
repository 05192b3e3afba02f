package server

import (
	handler "phoneclubs-auctions/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application.
// Reads are public; creating auctions, placing bids and filing reports need a token signed with jwtSecret.
func SetupRouter(biddingService handler.BiddingServiceInterface, jwtSecret string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)
	requireAuth := AuthMiddleware(jwtSecret)

	api := router.Group("/api")

	auctions := api.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.POST("/create", requireAuth, biddingHandler.CreateAuctionHandler)
		auctions.POST("/:auction_id/bid", requireAuth, biddingHandler.PlaceBidHandler)
	}

	reports := api.Group("/reports")
	{
		reports.POST("", requireAuth, biddingHandler.FileReportHandler)
	}

	return router
}
