package reporting

import (
	"context"
	"errors"
	"testing"

	"phoneclubs-auctions/internal/apiclient"
	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/internal/models"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test CheckReportable across every owner field the marketplace uses
func TestCheckReportable(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		body        string
		expectedErr error
	}{
		{name: "owner_via_seller_id", userID: "u1", body: `{"id":"a","seller_id":"u1"}`, expectedErr: biddingerrors.ErrSelfReport},
		{name: "owner_via_user_id", userID: "u1", body: `{"id":"a","user_id":"u1"}`, expectedErr: biddingerrors.ErrSelfReport},
		{name: "owner_via_populated_user", userID: "u1", body: `{"id":"a","user":{"_id":"u1"}}`, expectedErr: biddingerrors.ErrSelfReport},
		{name: "seller_id_takes_precedence", userID: "u1", body: `{"id":"a","seller_id":"u2","user_id":"u1"}`, expectedErr: nil},
		{name: "someone_else", userID: "u3", body: `{"id":"a","seller_id":"u1"}`, expectedErr: nil},
		{name: "unknown_owner", userID: "u3", body: `{"id":"a"}`, expectedErr: nil},
		{name: "anonymous", userID: "", body: `{"id":"a","seller_id":"u1"}`, expectedErr: biddingerrors.ErrLoginRequired},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			auction, err := apiclient.NormalizeAuction([]byte(tc.body))
			require.NoError(t, err)

			err = CheckReportable(tc.userID, auction)
			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestReporter_OpenRefusedSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no expectations: any SubmitReport call fails the test
	reporter := NewReporter(NewMockSubmitter(ctrl))

	form, err := reporter.Open("u1", models.Auction{ID: "a", SellerID: "u1"})
	require.Nil(t, form)
	require.ErrorIs(t, err, biddingerrors.ErrSelfReport)
	require.Equal(t, "you cannot report your own listing", err.Error())
}

func TestReportForm_Submit(t *testing.T) {
	auction := models.Auction{ID: "a1", ListingID: "l1", SellerID: "seller"}

	tests := []struct {
		name        string
		reason      models.ReportReason
		description string
		mockSetup   func(m *MockSubmitter)
		expectedErr error
	}{
		{
			name:        "valid",
			reason:      models.ReasonFakeAuction,
			description: "  photos are stock images  ",
			mockSetup: func(m *MockSubmitter) {
				m.EXPECT().SubmitReport(gomock.Any(), models.Report{
					ListingID:   "l1",
					ReporterID:  "u2",
					Reason:      models.ReasonFakeAuction,
					Description: "photos are stock images",
				}).Return(nil)
			},
		},
		{
			name:        "missing_reason",
			reason:      "",
			mockSetup:   func(m *MockSubmitter) {},
			expectedErr: biddingerrors.ErrMissingReason,
		},
		{
			name:        "unknown_reason",
			reason:      "I just don't like it",
			mockSetup:   func(m *MockSubmitter) {},
			expectedErr: biddingerrors.ErrUnknownReason,
		},
		{
			name:   "backend_failure",
			reason: models.ReasonSpam,
			mockSetup: func(m *MockSubmitter) {
				m.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
			},
			expectedErr: biddingerrors.ErrReportFailed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			submitter := NewMockSubmitter(ctrl)
			tc.mockSetup(submitter)

			form, err := NewReporter(submitter).Open("u2", auction)
			require.NoError(t, err)
			require.Equal(t, "l1", form.ListingID())

			err = form.Submit(context.Background(), tc.reason, tc.description)
			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestReportForm_ListingFallsBackToAuctionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	submitter := NewMockSubmitter(ctrl)
	submitter.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r models.Report) error {
			require.Equal(t, "a1", r.ListingID)
			return nil
		})

	form, err := NewReporter(submitter).Open("u2", models.Auction{ID: "a1"})
	require.NoError(t, err)
	require.NoError(t, form.Submit(context.Background(), models.ReasonOther, ""))
}

func TestReportForm_SingleInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	submitter := NewMockSubmitter(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	submitter.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ models.Report) error {
			close(entered)
			<-release
			return nil
		}).Times(1)

	form, err := NewReporter(submitter).Open("u2", models.Auction{ID: "a1", ListingID: "l1"})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- form.Submit(context.Background(), models.ReasonDuplicate, "") }()

	<-entered
	require.ErrorIs(t, form.Submit(context.Background(), models.ReasonDuplicate, ""), biddingerrors.ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-errCh)
}

func TestFailureMessage(t *testing.T) {
	serverErr := &apiclient.APIError{Method: "POST", Path: "/reports", StatusCode: 400, Message: "Already reported"}
	require.Equal(t, "Already reported", FailureMessage(serverErr))

	wrapped := errors.Join(biddingerrors.ErrReportFailed, errors.New("dial tcp"))
	require.Equal(t, "error submitting report, please try again", FailureMessage(wrapped))

	require.Equal(t, "please select a reason", FailureMessage(biddingerrors.ErrMissingReason))
}
