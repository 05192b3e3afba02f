package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrListingNotFound = errors.New("listing not found")
)

// business logic errors
var (
	ErrInvalidBid     = errors.New("invalid bid")
	ErrBidTooLow      = errors.New("bid too low")
	ErrAuctionEnded   = errors.New("auction has ended")
	ErrSelfBid        = errors.New("you cannot bid on your own auction")
	ErrInvalidReport  = errors.New("invalid report")
	ErrInvalidAuction = errors.New("invalid auction details")
	ErrUnauthorized   = errors.New("unauthorized")
)

// client-side validation errors, shown inline next to the form
var (
	ErrInvalidBidAmount = errors.New("please enter a valid bid amount")
	ErrMissingReason    = errors.New("please select a reason")
	ErrUnknownReason    = errors.New("unknown report reason")
)

// client-side submission and guard errors
var (
	ErrSubmissionFailed     = errors.New("failed to place bid, please try again")
	ErrReportFailed         = errors.New("error submitting report, please try again")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrAuctionNotLoaded     = errors.New("auction is not loaded yet")
	ErrLoginRequired        = errors.New("login required")
	ErrSelfReport           = errors.New("you cannot report your own listing")
	ErrSessionStopped       = errors.New("session stopped")
)
