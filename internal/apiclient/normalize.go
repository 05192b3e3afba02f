package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"

	"github.com/shopspring/decimal"
)

// Upstream records are inconsistent: ids arrive as `_id` or `id`, numbers as strings or numbers,
// fields in snake or camel case, and the owner under one of three keys. Everything below turns
// that into one models.Auction so no other package has to know.

// flexString accepts a JSON string or number. Anything else decodes to empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	case '{', '[':
		// nested ids are resolved through rawRef
	default:
		*f = flexString(b)
	}
	return nil
}

// flexDecimal is a nullable decimal that also treats "" as absent
type flexDecimal struct {
	decimal.NullDecimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte(`""`)) || bytes.Equal(b, []byte("null")) {
		f.Valid = false
		return nil
	}
	if err := f.NullDecimal.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("decode amount %s: %w", b, err)
	}
	return nil
}

// firstDecimal returns the first present value, in priority order
func firstDecimal(values ...flexDecimal) (decimal.Decimal, bool) {
	for _, v := range values {
		if v.Valid {
			return v.Decimal, true
		}
	}
	return decimal.Zero, false
}

func firstString(values ...flexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// rawRef is a populated reference such as `user` or `listing`
type rawRef struct {
	MongoID  flexString `json:"_id"`
	ID       flexString `json:"id"`
	Username string     `json:"username"`
	Name     string     `json:"name"`
}

// UnmarshalJSON accepts a populated object or a bare string/number id
func (r *rawRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '{':
		type plain rawRef
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*r = rawRef(p)
		return nil
	case '[':
		return nil
	default:
		return json.Unmarshal(b, &r.ID)
	}
}

func (r *rawRef) id() flexString {
	if r == nil {
		return ""
	}
	return flexString(firstString(r.MongoID, r.ID))
}

func (r *rawRef) displayName() string {
	if r == nil {
		return ""
	}
	if r.Username != "" {
		return r.Username
	}
	return r.Name
}

type rawBid struct {
	MongoID        flexString  `json:"_id"`
	ID             flexString  `json:"id"`
	AuctionID      flexString  `json:"auction_id"`
	BidderID       flexString  `json:"bidder_id"`
	UserID         flexString  `json:"user_id"`
	BidderName     string      `json:"bidder_name"`
	Username       string      `json:"username"`
	BidAmount      flexDecimal `json:"bid_amount"`
	Amount         flexDecimal `json:"amount"`
	CreatedAt      flexString  `json:"created_at"`
	CreatedAtCamel flexString  `json:"createdAt"`
}

type rawAuction struct {
	MongoID           flexString  `json:"_id"`
	ID                flexString  `json:"id"`
	ListingID         flexString  `json:"listing_id"`
	ListingIDCamel    flexString  `json:"listingId"`
	Listing           *rawRef     `json:"listing"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	StartPrice        flexDecimal `json:"start_price"`
	StartPriceCamel   flexDecimal `json:"startPrice"`
	CurrentPrice      flexDecimal `json:"current_price"`
	CurrentPriceCamel flexDecimal `json:"currentPrice"`
	Price             flexDecimal `json:"price"`
	Status            string      `json:"status"`
	EndDate           flexString  `json:"end_date"`
	EndDateCamel      flexString  `json:"endDate"`
	SellerID          flexString  `json:"seller_id"`
	SellerIDCamel     flexString  `json:"sellerId"`
	UserID            flexString  `json:"user_id"`
	UserIDCamel       flexString  `json:"userId"`
	User              *rawRef     `json:"user"`
	SellerName        string      `json:"seller_name"`
	BidCount          flexDecimal `json:"bid_count"`
	BidCountCamel     flexDecimal `json:"bidCount"`
	Bids              []rawBid    `json:"bids"`
}

// envelope covers `{data: ...}` and `{auctions: [...]}` wrappers
type envelope struct {
	Data     json.RawMessage `json:"data"`
	Auctions json.RawMessage `json:"auctions"`
}

// NormalizeAuction decodes one upstream auction record.
// A record without any id is treated as missing, the same as a 404.
func NormalizeAuction(data []byte) (models.Auction, error) {
	data = unwrapObject(data)

	var raw rawAuction
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Auction{}, fmt.Errorf("normalize auction: %w", err)
	}

	auction := raw.toModel()
	if auction.ID == "" {
		return models.Auction{}, fmt.Errorf("normalize auction: record has no id: %w", biddingerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// NormalizeAuctionList decodes either a bare array or an object wrapping one.
// Entries without an id are skipped.
func NormalizeAuctionList(data []byte) ([]models.Auction, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("normalize auction list: %w", err)
		}
		switch {
		case len(env.Auctions) > 0:
			data = env.Auctions
		case len(env.Data) > 0:
			data = env.Data
		default:
			return []models.Auction{}, nil
		}
	}

	var raws []rawAuction
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("normalize auction list: %w", err)
	}

	auctions := make([]models.Auction, 0, len(raws))
	for _, raw := range raws {
		a := raw.toModel()
		if a.ID == "" {
			continue
		}
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// unwrapObject returns the `data` member when the record is enveloped
func unwrapObject(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}

	var probe struct {
		MongoID json.RawMessage `json:"_id"`
		ID      json.RawMessage `json:"id"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return data
	}
	if probe.MongoID == nil && probe.ID == nil && len(probe.Data) > 0 && probe.Data[0] == '{' {
		return probe.Data
	}
	return data
}

func (r rawAuction) toModel() models.Auction {
	id := firstString(r.MongoID, r.ID)

	start, _ := firstDecimal(r.StartPrice, r.StartPriceCamel)
	current, ok := firstDecimal(r.CurrentPrice, r.CurrentPriceCamel, r.Price)
	if !ok {
		current = start
	}

	bids := make([]models.Bid, 0, len(r.Bids))
	for _, rb := range r.Bids {
		bids = append(bids, rb.toModel(id))
	}

	bidCount := len(bids)
	if n, ok := firstDecimal(r.BidCount, r.BidCountCamel); ok {
		bidCount = int(n.IntPart())
	}

	sellerName := r.SellerName
	if sellerName == "" {
		sellerName = r.User.displayName()
	}

	return models.Auction{
		ID:           id,
		ListingID:    firstString(r.ListingID, r.ListingIDCamel, r.Listing.id(), r.MongoID, r.ID),
		Title:        r.Title,
		Description:  r.Description,
		StartPrice:   start,
		CurrentPrice: current,
		Status:       models.AuctionStatus(strings.ToLower(strings.TrimSpace(r.Status))),
		EndDate:      parseTimestamp(firstString(r.EndDate, r.EndDateCamel)),
		SellerID:     firstString(r.SellerID, r.SellerIDCamel, r.UserID, r.UserIDCamel, r.User.id()),
		SellerName:   sellerName,
		BidCount:     bidCount,
		Bids:         bids,
	}
}

func (b rawBid) toModel(auctionID string) models.Bid {
	amount, _ := firstDecimal(b.BidAmount, b.Amount)

	name := b.BidderName
	if name == "" {
		name = b.Username
	}

	bid := models.Bid{
		ID:         firstString(b.MongoID, b.ID),
		AuctionID:  firstString(b.AuctionID, flexString(auctionID)),
		BidderID:   firstString(b.BidderID, b.UserID),
		BidderName: name,
		Amount:     amount,
	}
	if ts := parseTimestamp(firstString(b.CreatedAt, b.CreatedAtCamel)); ts != nil {
		bid.CreatedAt = *ts
	}
	return bid
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the layouts the marketplace has been seen to send, plus epoch milliseconds.
// Values without a zone are read as UTC. Unparseable input yields nil.
func parseTimestamp(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}

	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		ts := time.UnixMilli(ms).UTC()
		return &ts
	}

	return nil
}
