package models

import (
	"math"
	"time"
)

// Allowed poll durations in hours.
var PollDurations = map[int]bool{1: true, 24: true, 168: true}

type Poll struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	GroupID          uint         `json:"group_id" gorm:"index;not null"`
	Question         string       `json:"question" gorm:"type:text;not null"`
	IsMultipleChoice bool         `json:"is_multiple_choice" gorm:"default:false;not null"`
	ExpiresAt        *time.Time   `json:"expires_at"`
	CreatedBy        uint         `json:"created_by" gorm:"not null"`
	CreatedAt        time.Time    `json:"created_at"`
	Options          []PollOption `json:"options" gorm:"foreignKey:PollID"`
}

type PollOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PollID     uint   `json:"poll_id" gorm:"index;not null"`
	OptionText string `json:"option_text" gorm:"not null"`
	VotesCount int    `json:"votes_count" gorm:"default:0;not null"`
}

type PollVote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PollID    uint      `json:"poll_id" gorm:"index;not null"`
	OptionID  uint      `json:"option_id" gorm:"uniqueIndex:idx_option_user;not null"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_option_user;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether voting has closed at now.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

func (p *Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.VotesCount
	}
	return total
}

// OptionResult is an option with its rounded share of all votes.
type OptionResult struct {
	PollOption
	Percent int  `json:"percent"`
	Voted   bool `json:"voted"`
}

// PollView is a poll as rendered inside a group conversation.
type PollView struct {
	Poll
	Options    []OptionResult `json:"options"`
	TotalVotes int            `json:"total_votes"`
	IsExpired  bool           `json:"is_expired"`
}

// Results tallies the poll. voted holds the option ids the viewer picked.
func (p *Poll) Results(now time.Time, voted map[uint]bool) PollView {
	total := p.TotalVotes()
	view := PollView{
		Poll:       *p,
		Options:    make([]OptionResult, 0, len(p.Options)),
		TotalVotes: total,
		IsExpired:  p.IsExpired(now),
	}
	for _, o := range p.Options {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(o.VotesCount) / float64(total) * 100))
		}
		view.Options = append(view.Options, OptionResult{PollOption: o, Percent: pct, Voted: voted[o.ID]})
	}
	return view
}

type CreatePollRequest struct {
	Question         string   `json:"question" validate:"required,max=300"`
	Options          []string `json:"options" validate:"min=2,max=10,dive,required"`
	IsMultipleChoice bool     `json:"is_multiple_choice"`
	DurationHours    int      `json:"duration_hours" validate:"required,oneof=1 24 168"`
}

type VoteRequest struct {
	OptionID uint `json:"option_id" validate:"required"`
}
