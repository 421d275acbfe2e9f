package handler

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pollcast/internal/poll/broadcast"
	"pollcast/internal/poll/handler/mocks"
	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
	"pollcast/pkg/testutil"
)

type PollHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	hub     *broadcast.Hub
	router  chi.Router
}

func TestPollHandlerSuite(t *testing.T) {
	suite.Run(t, new(PollHandlerSuite))
}

func (s *PollHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.hub = broadcast.NewHub()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(s.service, s.hub, logger, nil, WithHeartbeat(time.Hour))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func samplePoll(id string) *models.Poll {
	return &models.Poll{
		ID:        id,
		Title:     "Lunch?",
		Options:   []string{"Pizza", "Sushi"},
		PollType:  models.PollTypeSingle,
		IsActive:  true,
		CreatedAt: fixedTime,
		CreatedBy: models.DefaultCreatedBy,
	}
}

func sampleResults(id string) *models.Results {
	return &models.Results{
		PollID:     id,
		TotalVotes: 4,
		Results: []models.OptionResult{
			{Option: "Pizza", Count: 3, Percentage: 75},
			{Option: "Sushi", Count: 1, Percentage: 25},
		},
	}
}

func ptr[T any](v T) *T { return &v }

func (s *PollHandlerSuite) TestCreatePoll() {
	s.Run("returns 201 with the created poll and trimmed input", func() {
		s.service.EXPECT().CreatePoll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d models.PollDraft) (*models.Poll, error) {
				s.Equal("Lunch?", d.Title)
				s.Equal([]string{"Pizza", "Sushi"}, d.Options)
				s.Equal(models.PollTypeMulti, d.PollType)
				s.Require().NotNil(d.ClosingTime)
				s.True(d.ClosingTime.Equal(time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)))
				return samplePoll("p1"), nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/polls", map[string]any{
			"title":       "  Lunch?  ",
			"options":     []string{" Pizza", "Sushi "},
			"pollType":    "MULTI",
			"closingTime": "2030-01-02T15:04",
		})
		rr := testutil.DoRequest(s.router, req)

		s.Equal(http.StatusCreated, rr.Code)
		s.Equal("application/json", rr.Header().Get("Content-Type"))
		s.NotEmpty(rr.Header().Get("X-Request-ID"))
		poll := testutil.UnmarshalResponse[models.Poll](s.T(), rr)
		s.Equal("p1", poll.ID)
	})

	s.Run("validation failures map to 400", func() {
		s.service.EXPECT().CreatePoll(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "a poll needs at least two options"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/polls", map[string]any{
			"title":   "Lunch?",
			"options": []string{"Pizza"},
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed body never reaches the service", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/polls", `{"title":`)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("unparseable closing time is a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/polls", map[string]any{
			"title":       "Lunch?",
			"options":     []string{"Pizza", "Sushi"},
			"closingTime": "next tuesday",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *PollHandlerSuite) TestListAndGetPolls() {
	s.service.EXPECT().ListPolls(gomock.Any()).Return([]*models.Poll{samplePoll("p2"), samplePoll("p1")}, nil)
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/polls", nil))
	s.Equal(http.StatusOK, rr.Code)
	polls := testutil.UnmarshalResponse[[]models.Poll](s.T(), rr)
	s.Len(*polls, 2)

	s.service.EXPECT().GetPoll(gomock.Any(), "missing").Return(nil, dErrors.New(dErrors.CodeNotFound, "poll not found"))
	rr = testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/polls/missing", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *PollHandlerSuite) TestUpdatePoll() {
	s.Run("null closing time clears it", func() {
		s.service.EXPECT().UpdatePoll(gomock.Any(), "p1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, u models.PollUpdate) (*models.Poll, error) {
				s.True(u.ClearClosingTime)
				s.Nil(u.ClosingTime)
				s.Nil(u.Title)
				return samplePoll("p1"), nil
			})

		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/api/polls/p1", `{"closingTime":null}`)
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("absent closing time leaves it alone", func() {
		s.service.EXPECT().UpdatePoll(gomock.Any(), "p1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, u models.PollUpdate) (*models.Poll, error) {
				s.False(u.ClearClosingTime)
				s.Require().NotNil(u.Title)
				s.Equal("Dinner?", *u.Title)
				s.Require().NotNil(u.IsActive)
				s.False(*u.IsActive)
				return samplePoll("p1"), nil
			})

		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/api/polls/p1", `{"title":" Dinner? ","isActive":false}`)
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusOK, rr.Code)
	})
}

func (s *PollHandlerSuite) TestCloseAndDeletePoll() {
	closed := samplePoll("p1")
	closed.IsActive = false
	s.service.EXPECT().ClosePoll(gomock.Any(), "p1").Return(closed, nil)
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodPost, "/api/polls/p1/close", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.False(testutil.UnmarshalResponse[models.Poll](s.T(), rr).IsActive)

	s.service.EXPECT().DeletePoll(gomock.Any(), "p1").Return(nil)
	rr = testutil.DoRequest(s.router, httptest.NewRequest(http.MethodDelete, "/api/polls/p1", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("Poll deleted successfully", testutil.UnmarshalResponse[messageResponse](s.T(), rr).Message)

	s.service.EXPECT().DeletePoll(gomock.Any(), "p1").Return(dErrors.New(dErrors.CodeUnavailable, "failed to delete poll"))
	rr = testutil.DoRequest(s.router, httptest.NewRequest(http.MethodDelete, "/api/polls/p1", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "store_unavailable")
}

func (s *PollHandlerSuite) TestCastVote() {
	s.Run("records the vote and falls back to the caller address", func() {
		s.service.EXPECT().CastVote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.CastVoteRequest) (*models.VoteReceipt, error) {
				s.Equal("p1", req.PollID)
				s.Equal("voter-1", req.VoterID)
				s.Equal([]string{"Pizza"}, req.SelectedOptions)
				s.Require().NotNil(req.IPAddress)
				s.Equal("203.0.113.7", *req.IPAddress)
				return &models.VoteReceipt{
					Vote: &models.Vote{
						ID:              "v1",
						PollID:          "p1",
						VoterID:         "voter-1",
						SelectedOptions: []string{"Pizza"},
						VotedAt:         fixedTime,
						IPAddress:       req.IPAddress,
					},
					Results: sampleResults("p1"),
				}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{
			"pollId":          "p1",
			"voterId":         "voter-1",
			"selectedOptions": []string{" Pizza "},
		})
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rr := testutil.DoRequest(s.router, req)

		s.Equal(http.StatusCreated, rr.Code)
		resp := testutil.UnmarshalResponse[voteResponse](s.T(), rr)
		s.Equal("Vote recorded successfully", resp.Message)
		s.Equal("v1", resp.Vote.ID)
		s.Require().NotNil(resp.Results)
		s.Equal(4, resp.Results.TotalVotes)
	})

	s.Run("explicit ip address wins over the caller address", func() {
		s.service.EXPECT().CastVote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.CastVoteRequest) (*models.VoteReceipt, error) {
				s.Require().NotNil(req.IPAddress)
				s.Equal("198.51.100.2", *req.IPAddress)
				return &models.VoteReceipt{Vote: &models.Vote{ID: "v2"}}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{
			"pollId":          "p1",
			"voterId":         "voter-2",
			"selectedOptions": []string{"Sushi"},
			"ipAddress":       "198.51.100.2",
		})
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusCreated, rr.Code)
	})

	rejections := []struct {
		name string
		err  error
		code string
	}{
		{"duplicate", dErrors.New(dErrors.CodeDuplicateVote, "you have already voted in this poll"), "duplicate_vote"},
		{"closed", dErrors.New(dErrors.CodePollClosed, "poll is closed"), "poll_closed"},
		{"expired", dErrors.New(dErrors.CodePollExpired, "poll has expired"), "poll_expired"},
		{"selection", dErrors.New(dErrors.CodeInvalidSelection, "select at least one option"), "invalid_selection"},
	}
	for _, tc := range rejections {
		s.Run(tc.name+" maps to 400", func() {
			s.service.EXPECT().CastVote(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{
				"pollId":  "p1",
				"voterId": "voter-1",
			})
			rr := testutil.DoRequest(s.router, req)
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, tc.code)
		})
	}

	s.Run("unexpected errors hide their message", func() {
		s.service.EXPECT().CastVote(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/vote", map[string]any{"pollId": "p1", "voterId": "v"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		s.NotContains(rr.Body.String(), assert.AnError.Error())
	})
}

func (s *PollHandlerSuite) TestCheckVotedAndResults() {
	s.service.EXPECT().CheckVoted(gomock.Any(), "p1", "voter-1").Return(true, nil)
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/vote/check/p1/voter-1", nil))
	s.Equal(http.StatusOK, rr.Code)
	s.True(testutil.UnmarshalResponse[checkVotedResponse](s.T(), rr).HasVoted)

	s.service.EXPECT().Results(gomock.Any(), "p1").Return(sampleResults("p1"), nil)
	rr = testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/results/p1", nil))
	s.Equal(http.StatusOK, rr.Code)
	results := testutil.UnmarshalResponse[models.Results](s.T(), rr)
	s.InDelta(75.0, results.Results[0].Percentage, 0.001)
}

func (s *PollHandlerSuite) TestDashboard() {
	s.service.EXPECT().ListDashboardPolls(gomock.Any()).Return([]*models.DashboardPoll{
		{Poll: *samplePoll("p1"), TotalVotes: 4, IsExpired: true},
	}, nil)

	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/dashboard/polls", nil))

	s.Equal(http.StatusOK, rr.Code)
	var body []map[string]any
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.Equal("p1", body[0]["id"])
	s.EqualValues(4, body[0]["totalVotes"])
	s.Equal(true, body[0]["isExpired"])
}

func (s *PollHandlerSuite) TestExportCSV() {
	s.Run("named poll lists voter details", func() {
		poll := samplePoll("p1")
		s.service.EXPECT().GetPoll(gomock.Any(), "p1").Return(poll, nil)
		s.service.EXPECT().Results(gomock.Any(), "p1").Return(sampleResults("p1"), nil)
		s.service.EXPECT().ListVotes(gomock.Any(), "p1").Return([]*models.Vote{{
			ID:              "v1",
			PollID:          "p1",
			VoterID:         "voter-1",
			VoterName:       ptr("Ada"),
			VoterEmail:      ptr("ada@example.com"),
			SelectedOptions: []string{"Pizza", "Sushi"},
			VotedAt:         fixedTime,
		}}, nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/export/csv/p1", nil))

		s.Equal(http.StatusOK, rr.Code)
		s.Equal("text/csv", rr.Header().Get("Content-Type"))
		s.Equal("attachment; filename=poll_p1.csv", rr.Header().Get("Content-Disposition"))

		r := csv.NewReader(strings.NewReader(rr.Body.String()))
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		s.Require().NoError(err)
		s.Equal([][]string{
			{"Option", "Votes", "Percentage"},
			{"Pizza", "3", "75.0%"},
			{"Sushi", "1", "25.0%"},
			{"Voter Details"},
			{"Name", "Email", "Options", "Voted At"},
			{"Ada", "ada@example.com", "Pizza, Sushi", "2025-06-01T12:00:00Z"},
		}, records)
	})

	s.Run("anonymous poll omits voter rows", func() {
		poll := samplePoll("p2")
		poll.IsAnonymous = true
		s.service.EXPECT().GetPoll(gomock.Any(), "p2").Return(poll, nil)
		s.service.EXPECT().Results(gomock.Any(), "p2").Return(sampleResults("p2"), nil)

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/export/csv/p2", nil))

		s.Equal(http.StatusOK, rr.Code)
		s.True(strings.HasSuffix(rr.Body.String(), "Voter Details\n"), rr.Body.String())
		s.NotContains(rr.Body.String(), "Name,Email")
	})

	s.Run("missing poll is 404", func() {
		s.service.EXPECT().GetPoll(gomock.Any(), "gone").Return(nil, dErrors.New(dErrors.CodeNotFound, "poll not found"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/export/csv/gone", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *PollHandlerSuite) TestResultsStream() {
	s.Run("sends a snapshot then live updates", func() {
		s.service.EXPECT().Results(gomock.Any(), "p1").Return(sampleResults("p1"), nil)

		srv := httptest.NewServer(s.router)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/polls/p1/events", nil)
		s.Require().NoError(err)
		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()

		s.Equal(http.StatusOK, resp.StatusCode)
		s.Equal("text/event-stream", resp.Header.Get("Content-Type"))
		body := bufio.NewReader(resp.Body)

		first := testutil.ReadSSEEvent(s.T(), body)
		s.Equal("resultsUpdate", first.Event)
		var snapshot models.ResultsUpdate
		s.Require().NoError(json.Unmarshal([]byte(first.Data), &snapshot))
		s.Equal("p1", snapshot.PollID)
		s.Equal(4, snapshot.Results.TotalVotes)

		s.Equal(1, s.hub.SubscriberCount("p1"))
		update := sampleResults("p1")
		update.TotalVotes = 5
		s.hub.Publish(models.ResultsUpdate{PollID: "p1", Results: update})

		next := testutil.ReadSSEEvent(s.T(), body)
		var live models.ResultsUpdate
		s.Require().NoError(json.Unmarshal([]byte(next.Data), &live))
		s.Equal(5, live.Results.TotalVotes)

		cancel()
		s.Eventually(func() bool { return s.hub.SubscriberCount("p1") == 0 }, time.Second, 10*time.Millisecond)
	})

	s.Run("unknown poll is rejected before streaming", func() {
		s.service.EXPECT().Results(gomock.Any(), "missing").Return(nil, dErrors.New(dErrors.CodeNotFound, "poll not found"))

		rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/api/polls/missing/events", nil))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
		s.Equal(0, s.hub.SubscriberCount("missing"))
	})
}

func TestRecoveryTurnsPanicsIntoInternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().ListPolls(gomock.Any()).DoAndReturn(func(context.Context) ([]*models.Poll, error) {
		panic("boom")
	})
	h := New(svc, broadcast.NewHub(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	r := chi.NewRouter()
	h.Register(r)

	rr := testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/api/polls", nil))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	require.NotContains(t, rr.Body.String(), "boom")
}
