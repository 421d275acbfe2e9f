package handler

//go:generate mockgen -source=handler.go -destination=mocks/poll-mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pollcast/internal/platform/metrics"
	"pollcast/internal/platform/middleware"
	"pollcast/internal/poll/models"
	dErrors "pollcast/pkg/domain-errors"
	"pollcast/pkg/platform/httputil"
	"pollcast/pkg/requestcontext"
)

// Service defines the poll operations exposed over HTTP.
type Service interface {
	ListPolls(ctx context.Context) ([]*models.Poll, error)
	GetPoll(ctx context.Context, id string) (*models.Poll, error)
	CreatePoll(ctx context.Context, draft models.PollDraft) (*models.Poll, error)
	UpdatePoll(ctx context.Context, id string, update models.PollUpdate) (*models.Poll, error)
	ClosePoll(ctx context.Context, id string) (*models.Poll, error)
	DeletePoll(ctx context.Context, id string) error
	CastVote(ctx context.Context, req models.CastVoteRequest) (*models.VoteReceipt, error)
	CheckVoted(ctx context.Context, pollID, voterID string) (bool, error)
	Results(ctx context.Context, pollID string) (*models.Results, error)
	ListDashboardPolls(ctx context.Context) ([]*models.DashboardPoll, error)
	ListVotes(ctx context.Context, pollID string) ([]*models.Vote, error)
}

const (
	defaultRequestTimeout = 10 * time.Second
	defaultHeartbeat      = 15 * time.Second
)

// Handler serves the poll API.
type Handler struct {
	logger         *slog.Logger
	service        Service
	hub            Broadcaster
	metrics        *metrics.Metrics
	requestTimeout time.Duration
	heartbeat      time.Duration
}

type Option func(*Handler)

// WithRequestTimeout bounds every non-streaming request.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// WithHeartbeat sets the keepalive period of results streams.
func WithHeartbeat(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// New creates a new poll Handler.
func New(service Service, hub Broadcaster, logger *slog.Logger, metrics *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		logger:         logger,
		service:        service,
		hub:            hub,
		metrics:        metrics,
		requestTimeout: defaultRequestTimeout,
		heartbeat:      defaultHeartbeat,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Register registers the poll routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.ClientMetadata)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.LatencyMiddleware(h.metrics))

		// Streams outlive the request deadline.
		r.Get("/api/polls/{id}/events", h.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.requestTimeout))
			r.Use(middleware.ContentTypeJSON)

			r.Get("/api/polls", h.handleListPolls)
			r.Post("/api/polls", h.handleCreatePoll)
			r.Get("/api/polls/{id}", h.handleGetPoll)
			r.Put("/api/polls/{id}", h.handleUpdatePoll)
			r.Post("/api/polls/{id}/close", h.handleClosePoll)
			r.Delete("/api/polls/{id}", h.handleDeletePoll)

			r.Post("/api/vote", h.handleCastVote)
			r.Get("/api/vote/check/{pollId}/{voterId}", h.handleCheckVoted)
			r.Get("/api/results/{pollId}", h.handleResults)
			r.Get("/api/export/csv/{pollId}", h.handleExportCSV)
			r.Get("/api/dashboard/polls", h.handleDashboard)
		})
	})
}

func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to list polls")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, polls)
}

func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to get poll")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, poll)
}

func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createPollRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid create poll request")
		return
	}
	sanitize(&req)

	poll, err := h.service.CreatePoll(ctx, req.toDraft())
	if err != nil {
		h.writeError(ctx, w, err, "failed to create poll")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, poll)
}

func (h *Handler) handleUpdatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updatePollRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid update poll request")
		return
	}
	sanitize(&req)

	poll, err := h.service.UpdatePoll(ctx, chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		h.writeError(ctx, w, err, "failed to update poll")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, poll)
}

func (h *Handler) handleClosePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.ClosePoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to close poll")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, poll)
}

func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePoll(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(r.Context(), w, err, "failed to delete poll")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Poll deleted successfully"})
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req castVoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err, "invalid vote request")
		return
	}
	sanitize(&req)

	receipt, err := h.service.CastVote(ctx, req.toModel(requestcontext.ClientIP(ctx)))
	if err != nil {
		h.writeError(ctx, w, err, "failed to record vote")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, voteResponse{
		Message: "Vote recorded successfully",
		Vote:    receipt.Vote,
		Results: receipt.Results,
	})
}

func (h *Handler) handleCheckVoted(w http.ResponseWriter, r *http.Request) {
	voted, err := h.service.CheckVoted(r.Context(), chi.URLParam(r, "pollId"), chi.URLParam(r, "voterId"))
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to check vote")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, checkVotedResponse{HasVoted: voted})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context(), chi.URLParam(r, "pollId"))
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to fetch results")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListDashboardPolls(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err, "failed to load dashboard")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, polls)
}

// writeError logs client errors at warn and everything else at error, then
// renders the error envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
	attrs := []any{
		"error", err.Error(),
		"status", status,
		"request_id", middleware.GetRequestID(ctx),
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
