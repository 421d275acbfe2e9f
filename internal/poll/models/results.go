package models

import "math"

// OptionResult is the tally for one option.
type OptionResult struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Results is the aggregated view of a poll's votes.
type Results struct {
	PollID     string         `json:"pollId"`
	TotalVotes int            `json:"totalVotes"`
	Results    []OptionResult `json:"results"`
}

// ResultsUpdate is pushed to subscribers after every accepted vote.
type ResultsUpdate struct {
	PollID  string   `json:"pollId"`
	Results *Results `json:"results"`
}

// DashboardPoll is a poll annotated for the organizer dashboard.
type DashboardPoll struct {
	Poll
	TotalVotes int  `json:"totalVotes"`
	IsExpired  bool `json:"isExpired"`
}

// Tally counts votes per option in poll order. Each vote counts an option at
// most once; options no longer on the poll are ignored.
func Tally(p *Poll, votes []*Vote) *Results {
	total := len(votes)
	out := &Results{
		PollID:     p.ID,
		TotalVotes: total,
		Results:    make([]OptionResult, 0, len(p.Options)),
	}
	for _, option := range p.Options {
		count := 0
		for _, v := range votes {
			if v.Selects(option) {
				count++
			}
		}
		out.Results = append(out.Results, OptionResult{
			Option:     option,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	return out
}

// percentage rounds to one decimal place; zero when there are no votes.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
