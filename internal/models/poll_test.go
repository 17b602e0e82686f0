package models

import (
	"testing"
	"time"
)

func TestPollResults(t *testing.T) {
	p := &Poll{
		Options: []PollOption{
			{ID: 1, VotesCount: 1},
			{ID: 2, VotesCount: 2},
			{ID: 3, VotesCount: 0},
		},
	}
	view := p.Results(time.Now(), map[uint]bool{2: true})

	if view.TotalVotes != 3 {
		t.Fatalf("expected 3 votes, got %d", view.TotalVotes)
	}
	want := []int{33, 67, 0}
	for i, o := range view.Options {
		if o.Percent != want[i] {
			t.Errorf("option %d: expected %d%%, got %d%%", o.ID, want[i], o.Percent)
		}
	}
	if !view.Options[1].Voted || view.Options[0].Voted {
		t.Error("voted flags not applied")
	}
}

func TestPollResultsNoVotes(t *testing.T) {
	p := &Poll{Options: []PollOption{{ID: 1}, {ID: 2}}}
	for _, o := range p.Results(time.Now(), nil).Options {
		if o.Percent != 0 {
			t.Fatalf("expected 0%% with no votes, got %d", o.Percent)
		}
	}
}

func TestPollIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	if (&Poll{}).IsExpired(now) {
		t.Error("poll without expiry should stay open")
	}
	if !(&Poll{ExpiresAt: &past}).IsExpired(now) {
		t.Error("poll in the past should be expired")
	}
	if (&Poll{ExpiresAt: &future}).IsExpired(now) {
		t.Error("poll in the future should be open")
	}
}
