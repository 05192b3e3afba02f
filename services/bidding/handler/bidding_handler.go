package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	model "phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/services/bidding/helpers"
	"phoneclubs-auctions/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BiddingServiceInterface interface {
	CreateAuction(seller model.User, title, description string, startPrice decimal.Decimal, endDate time.Time) (model.Auction, error)
	PlaceBid(auctionID string, bidder model.User, amount decimal.Decimal) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions(limit int) ([]model.Auction, error)
	FileReport(reporter model.User, listingID string, reason model.ReportReason, description string) (model.Report, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, helpers.NewAuctionResponse(auction))
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"status":     auction.Status,
	})
}

// ListAuctionsHandler handles GET /auctions?limit=N
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw), "Invalid limit")
			utils.Warn("ListAuctionsHandler: invalid limit", map[string]any{"limit": raw})
			return
		}
		limit = parsed
	}

	auctions, err := h.service.ListAuctions(limit)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"limit": limit, "error": err.Error()})
		return
	}

	resp := helpers.AuctionListResponse{Auctions: make([]helpers.AuctionResponse, 0, len(auctions))}
	for _, a := range auctions {
		resp.Auctions = append(resp.Auctions, helpers.NewAuctionResponse(a))
	}

	c.JSON(http.StatusOK, resp)
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"limit": limit,
		"count": len(auctions),
	})
}

// CreateAuctionHandler handles POST /auctions/create
func (h *BiddingHandler) CreateAuctionHandler(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, biddingerrors.ErrUnauthorized, "Unauthorized")
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}
	if !req.StartPrice.Valid {
		helpers.HandleBindError(c, "CreateAuctionHandler", fmt.Errorf("missing start price"))
		return
	}
	endDate, ok := req.ParsedEndDate()
	if !ok {
		helpers.HandleBindError(c, "CreateAuctionHandler", fmt.Errorf("unreadable end date %q", req.EndDate))
		return
	}

	auction, err := h.service.CreateAuction(user, req.Title, req.Description, req.StartPrice.Decimal, endDate)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateAuctionHandler: failed to create auction", map[string]any{
			"user_id": user.UserID,
			"title":   req.Title,
			"error":   err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction))
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ID,
		"user_id":    user.UserID,
		"end_date":   endDate.Format(time.RFC3339),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bid
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, biddingerrors.ErrUnauthorized, "Unauthorized")
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}
	amount, present := req.Value()
	if !present {
		helpers.HandleBindError(c, "PlaceBidHandler", fmt.Errorf("missing bid amount"))
		return
	}

	auctionID := c.Param("auction_id")
	auction, err := h.service.PlaceBid(auctionID, user, amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": auctionID,
			"user_id":    user.UserID,
			"amount":     amount.String(),
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction))
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    user.UserID,
		"amount":     amount.String(),
		"bid_count":  auction.BidCount,
	})
}

// FileReportHandler handles POST /reports
func (h *BiddingHandler) FileReportHandler(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, biddingerrors.ErrUnauthorized, "Unauthorized")
		return
	}

	var req helpers.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "FileReportHandler", err)
		return
	}

	report, err := h.service.FileReport(user, req.ListingID, model.ReportReason(req.Reason), req.Description)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("FileReportHandler: failed to file report", map[string]any{
			"listing_id": req.ListingID,
			"user_id":    user.UserID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewReportResponse(report))
	helpers.LogSuccess("FileReportHandler", "report filed successfully", map[string]any{
		"report_id":  report.ID,
		"listing_id": report.ListingID,
		"reason":     string(report.Reason),
	})
}
