package apiclient

import (
	"testing"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAuction_PriceFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "current_price", body: `{"id":"a","current_price":300,"price":200,"start_price":100}`, want: "300"},
		{name: "camel_current_price", body: `{"id":"a","currentPrice":"310","start_price":100}`, want: "310"},
		{name: "price_when_current_missing", body: `{"id":"a","price":200,"start_price":100}`, want: "200"},
		{name: "price_when_current_null", body: `{"id":"a","current_price":null,"price":200,"start_price":100}`, want: "200"},
		{name: "start_price_last", body: `{"id":"a","start_price":"100"}`, want: "100"},
		{name: "empty_string_is_absent", body: `{"id":"a","current_price":"","startPrice":75}`, want: "75"},
		{name: "nothing_at_all", body: `{"id":"a"}`, want: "0"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := NormalizeAuction([]byte(tc.body))
			require.NoError(t, err)
			require.Equal(t, tc.want, a.CurrentPrice.String())
		})
	}
}

func TestNormalizeAuction_OwnerFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "seller_id", body: `{"id":"a","seller_id":"s1","user_id":"u1","user":{"_id":"x1"}}`, want: "s1"},
		{name: "user_id", body: `{"id":"a","user_id":"u1","user":{"_id":"x1"}}`, want: "u1"},
		{name: "populated_user", body: `{"id":"a","user":{"_id":"x1","username":"kim"}}`, want: "x1"},
		{name: "numeric_seller", body: `{"id":"a","seller_id":42}`, want: "42"},
		{name: "unpopulated_user", body: `{"_id":"a1","status":"live","current_price":100,"user":"u9"}`, want: "u9"},
		{name: "unpopulated_numeric_user", body: `{"id":"a","user":77}`, want: "77"},
		{name: "user_array_ignored", body: `{"id":"a","user":["u9"]}`, want: ""},
		{name: "unknown", body: `{"id":"a"}`, want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := NormalizeAuction([]byte(tc.body))
			require.NoError(t, err)
			require.Equal(t, tc.want, a.SellerID)
		})
	}
}

func TestNormalizeAuction_ListingFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "listing_id", body: `{"_id":"a","listing_id":"l1","listing":{"_id":"l2"}}`, want: "l1"},
		{name: "populated_listing", body: `{"_id":"a","listing":{"_id":"l2"}}`, want: "l2"},
		{name: "unpopulated_listing", body: `{"_id":"a","listing":"l9"}`, want: "l9"},
		{name: "null_listing", body: `{"_id":"a","listing":null}`, want: "a"},
		{name: "own_id", body: `{"_id":"a"}`, want: "a"},
	}

	for _, tc := range tests {
		a, err := NormalizeAuction([]byte(tc.body))
		require.NoError(t, err, tc.name)
		require.Equal(t, tc.want, a.ListingID, tc.name)
	}
}

func TestNormalizeAuction_EndDateAndStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantEnd  *time.Time
		wantStat models.AuctionStatus
	}{
		{
			name:     "rfc3339",
			body:     `{"id":"a","status":"LIVE ","end_date":"2025-03-01T10:00:00+02:00"}`,
			wantEnd:  timePtr(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)),
			wantStat: models.StatusLive,
		},
		{
			name:     "datetime_local",
			body:     `{"id":"a","status":"live","endDate":"2025-03-01T10:00"}`,
			wantEnd:  timePtr(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
			wantStat: models.StatusLive,
		},
		{
			name:     "epoch_millis",
			body:     `{"id":"a","status":"ended","end_date":1740823200000}`,
			wantEnd:  timePtr(time.UnixMilli(1740823200000).UTC()),
			wantStat: models.StatusEnded,
		},
		{
			name:     "garbage",
			body:     `{"id":"a","status":"live","end_date":"next tuesday"}`,
			wantEnd:  nil,
			wantStat: models.StatusLive,
		},
		{
			name:     "missing",
			body:     `{"id":"a","status":"pending"}`,
			wantEnd:  nil,
			wantStat: "pending",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := NormalizeAuction([]byte(tc.body))
			require.NoError(t, err)
			require.Equal(t, tc.wantStat, a.Status)
			if tc.wantEnd == nil {
				require.Nil(t, a.EndDate)
				return
			}
			require.NotNil(t, a.EndDate)
			require.True(t, tc.wantEnd.Equal(*a.EndDate), "want %s, got %s", tc.wantEnd, a.EndDate)
		})
	}
}

func TestNormalizeAuction_BidsAndCount(t *testing.T) {
	body := `{
		"id": "a",
		"bids": [
			{"_id": "b2", "user_id": "u2", "username": "lee", "amount": "120", "createdAt": "2025-01-02T00:00:00Z"},
			{"id": "b1", "bidder_id": "u1", "bidder_name": "sam", "bid_amount": 110}
		]
	}`

	a, err := NormalizeAuction([]byte(body))
	require.NoError(t, err)
	require.Equal(t, 2, a.BidCount)
	require.Equal(t, "b2", a.Bids[0].ID)
	require.Equal(t, "a", a.Bids[0].AuctionID)
	require.Equal(t, "u2", a.Bids[0].BidderID)
	require.Equal(t, "lee", a.Bids[0].BidderName)
	require.Equal(t, "120", a.Bids[0].Amount.String())
	require.Equal(t, "110", a.Bids[1].Amount.String())
	require.True(t, a.Bids[1].CreatedAt.IsZero())

	// an explicit count wins over the partial bid window
	a, err = NormalizeAuction([]byte(`{"id":"a","bid_count":"17","bids":[{"id":"b1","amount":1}]}`))
	require.NoError(t, err)
	require.Equal(t, 17, a.BidCount)
}

func TestNormalizeAuction_Envelope(t *testing.T) {
	a, err := NormalizeAuction([]byte(`{"success":true,"data":{"id":"a","title":"wrapped"}}`))
	require.NoError(t, err)
	require.Equal(t, "wrapped", a.Title)
}

func TestNormalizeAuction_Errors(t *testing.T) {
	_, err := NormalizeAuction([]byte(`{"title":"no id"}`))
	require.ErrorIs(t, err, biddingerrors.ErrAuctionNotFound)

	_, err = NormalizeAuction([]byte(`not json`))
	require.Error(t, err)
	require.NotErrorIs(t, err, biddingerrors.ErrAuctionNotFound)

	_, err = NormalizeAuction([]byte(`{"id":"a","current_price":"abc"}`))
	require.Error(t, err)
}

func TestNormalizeAuctionList_SkipsRecordsWithoutID(t *testing.T) {
	auctions, err := NormalizeAuctionList([]byte(`[{"id":"1"},{"title":"orphan"},{"_id":"3"}]`))
	require.NoError(t, err)
	require.Len(t, auctions, 2)

	auctions, err = NormalizeAuctionList([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, auctions)
}

func timePtr(t time.Time) *time.Time { return &t }
