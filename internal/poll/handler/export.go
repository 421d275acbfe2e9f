package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pollcast/internal/poll/models"
)

// handleExportCSV writes the tally followed by per-voter rows. Voter rows are
// omitted for anonymous polls.
func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pollID := chi.URLParam(r, "pollId")

	poll, err := h.service.GetPoll(ctx, pollID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to export csv")
		return
	}
	results, err := h.service.Results(ctx, pollID)
	if err != nil {
		h.writeError(ctx, w, err, "failed to export csv")
		return
	}
	var votes []*models.Vote
	if !poll.IsAnonymous {
		if votes, err = h.service.ListVotes(ctx, pollID); err != nil {
			h.writeError(ctx, w, err, "failed to export csv")
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=poll_"+poll.ID+".csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	for _, record := range exportRecords(poll, results, votes) {
		if err := cw.Write(record); err != nil {
			h.logger.WarnContext(ctx, "csv export interrupted", "poll_id", pollID, "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.WarnContext(ctx, "csv export interrupted", "poll_id", pollID, "error", err)
	}
}

func exportRecords(poll *models.Poll, results *models.Results, votes []*models.Vote) [][]string {
	records := [][]string{{"Option", "Votes", "Percentage"}}
	for _, res := range results.Results {
		records = append(records, []string{
			res.Option,
			strconv.Itoa(res.Count),
			strconv.FormatFloat(res.Percentage, 'f', 1, 64) + "%",
		})
	}
	records = append(records, []string{}, []string{"Voter Details"})
	if poll.IsAnonymous {
		return records
	}

	records = append(records, []string{"Name", "Email", "Options", "Voted At"})
	for _, v := range votes {
		records = append(records, []string{
			deref(v.VoterName),
			deref(v.VoterEmail),
			strings.Join(v.SelectedOptions, ", "),
			v.VotedAt.UTC().Format(time.RFC3339),
		})
	}
	return records
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
