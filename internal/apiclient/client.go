// Package apiclient talks to the marketplace auction backend and hands back normalised records.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

// APIError is a non-success answer from the backend.
// Message holds the server's `error` text when it sent one.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// ServerMessage is the text to show the user verbatim, empty when the server sent none
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Unwrap maps statuses onto sentinel errors. The marketplace answers 500 for ids it cannot resolve,
// so a failed fetch with 404 or 500 both mean the auction is gone.
func (e *APIError) Unwrap() error {
	switch {
	case e.Method == http.MethodGet && (e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusInternalServerError):
		return biddingerrors.ErrAuctionNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return biddingerrors.ErrUnauthorized
	default:
		return nil
	}
}

// Client encapsulates HTTP access to the auction backend
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithToken sends `Authorization: Bearer <token>` on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for baseURL, which includes any `/api` prefix
func NewClient(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAuction fetches one auction by id
func (c *Client) GetAuction(ctx context.Context, id string) (models.Auction, error) {
	if strings.TrimSpace(id) == "" {
		return models.Auction{}, fmt.Errorf("apiclient: get auction: empty id: %w", biddingerrors.ErrAuctionNotFound)
	}

	body, err := c.do(ctx, http.MethodGet, "/auctions/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Auction{}, err
	}

	auction, err := NormalizeAuction(body)
	if err != nil {
		return models.Auction{}, fmt.Errorf("apiclient: get auction %s: %w", id, err)
	}
	return auction, nil
}

// ListAuctions fetches up to limit auctions. A non-positive limit leaves the choice to the server.
func (c *Client) ListAuctions(ctx context.Context, limit int) ([]models.Auction, error) {
	path := "/auctions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	auctions, err := NormalizeAuctionList(body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: list auctions: %w", err)
	}
	return auctions, nil
}

// bidRequest carries the amount under both names the marketplace has accepted
type bidRequest struct {
	Amount    json.Number `json:"amount"`
	BidAmount json.Number `json:"bid_amount"`
}

// SubmitBid places a bid. Rejections come back as *APIError with the server's message.
func (c *Client) SubmitBid(ctx context.Context, auctionID string, amount decimal.Decimal) error {
	n := json.Number(amount.String())
	_, err := c.do(ctx, http.MethodPost, "/auctions/"+url.PathEscape(auctionID)+"/bid", bidRequest{Amount: n, BidAmount: n})
	return err
}

type createAuctionRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartPrice  json.Number `json:"start_price"`
	EndDate     string      `json:"end_date"`
}

// CreateAuction opens an auction for the signed-in user and returns it as stored
func (c *Client) CreateAuction(ctx context.Context, title, description string, startPrice decimal.Decimal, endDate time.Time) (models.Auction, error) {
	body, err := c.do(ctx, http.MethodPost, "/auctions/create", createAuctionRequest{
		Title:       title,
		Description: description,
		StartPrice:  json.Number(startPrice.String()),
		EndDate:     endDate.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return models.Auction{}, err
	}

	auction, err := NormalizeAuction(body)
	if err != nil {
		return models.Auction{}, fmt.Errorf("apiclient: create auction: %w", err)
	}
	return auction, nil
}

type reportRequest struct {
	ListingID   string `json:"listing_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// SubmitReport files a moderation report for a listing
func (c *Client) SubmitReport(ctx context.Context, report models.Report) error {
	_, err := c.do(ctx, http.MethodPost, "/reports", reportRequest{
		ListingID:   report.ListingID,
		Reason:      string(report.Reason),
		Description: report.Description,
	})
	return err
}

// resultEnvelope is the `{success, error}` shape mutating endpoints answer with
type resultEnvelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("apiclient: client not configured")
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s %s: %w", method, path, err)
	}

	var result resultEnvelope
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = serverMessage(result)
		}
		return nil, apiErr
	}

	if decodeErr == nil && result.Success != nil && !*result.Success {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: serverMessage(result)}
	}

	return body, nil
}

func serverMessage(r resultEnvelope) string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// ServerMessage returns the backend's own error text, if err carries one
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ServerMessage()
	}
	return ""
}
