package model

import (
	"math"
	"time"

	"freedom_wall/pkg/apperr"
	baseModel "freedom_wall/pkg/model"

	"gorm.io/gorm"
)

// DefaultCreator 未署名的发起人
const DefaultCreator = "Anonymous"

// Option 投票选项，Votes 由 Ballots 推导
type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Ballot 单个调用方的选票
type Ballot struct {
	UserID        string    `json:"userId"`
	OptionIndexes []int     `json:"optionIndexes"`
	VotedAt       time.Time `json:"votedAt"`
}

// Poll 投票
// totalVotes == Σ options.votes，engagementScore == 2*totalVotes
type Poll struct {
	baseModel.BaseModel
	baseModel.Versioned
	Question        string     `gorm:"type:text;not null" json:"question"`
	Options         []Option   `gorm:"serializer:json;type:text" json:"options"`
	IsActive        bool       `gorm:"not null;index" json:"isActive"`
	ExpiresAt       *time.Time `json:"expiresAt"`
	TotalVotes      int        `gorm:"not null" json:"totalVotes"`
	CreatedBy       string     `gorm:"type:text" json:"createdBy"`
	Topics          []string   `gorm:"serializer:json;type:text" json:"topics"`
	EngagementScore int        `gorm:"not null;index" json:"engagementScore"`
	Ballots         []Ballot   `gorm:"serializer:json;type:text" json:"-"`

	// UserVoted 按调用方标注，不落库
	UserVoted *bool `gorm:"-" json:"userVoted,omitempty"`
}

func (p *Poll) AfterFind(tx *gorm.DB) error {
	p.normalize()
	return nil
}

func (p *Poll) normalize() {
	if p.Options == nil {
		p.Options = []Option{}
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
	if p.Ballots == nil {
		p.Ballots = []Ballot{}
	}
}

// Score 投票热度
func Score(totalVotes int) int {
	return 2 * totalVotes
}

// Recompute 根据选票重新计算票数与热度
func (p *Poll) Recompute() {
	p.normalize()
	for i := range p.Options {
		p.Options[i].Votes = 0
	}
	total := 0
	for _, b := range p.Ballots {
		for _, idx := range b.OptionIndexes {
			if idx >= 0 && idx < len(p.Options) {
				p.Options[idx].Votes++
				total++
			}
		}
	}
	p.TotalVotes = total
	p.EngagementScore = Score(total)
}

// HasVoted 调用方是否已投票
func (p *Poll) HasVoted(callerID string) bool {
	for _, b := range p.Ballots {
		if b.UserID == callerID {
			return true
		}
	}
	return false
}

// Expired 是否已过期
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Vote 记录选票；multi 为 false 时只允许选择一个选项
func (p *Poll) Vote(callerID string, indexes []int, multi bool, now time.Time) error {
	if !p.IsActive {
		return apperr.Validation("Poll is no longer active")
	}
	if p.Expired(now) {
		return apperr.Validation("Poll has expired")
	}
	if len(indexes) == 0 {
		return apperr.Validation("Option index is required")
	}
	if !multi && len(indexes) > 1 {
		return apperr.Validation("Only one option may be selected")
	}

	seen := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(p.Options) {
			return apperr.Validation("Invalid option index")
		}
		if seen[idx] {
			return apperr.Validation("Duplicate option index")
		}
		seen[idx] = true
	}

	if p.HasVoted(callerID) {
		return apperr.Conflict("You have already voted on this poll", "ALREADY_VOTED")
	}

	p.Ballots = append(p.Ballots, Ballot{
		UserID:        callerID,
		OptionIndexes: append([]int{}, indexes...),
		VotedAt:       now,
	})
	p.Recompute()
	return nil
}

// OptionResult 单个选项的统计
type OptionResult struct {
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// Results 投票结果
type Results struct {
	ID         string         `json:"id"`
	Question   string         `json:"question"`
	TotalVotes int            `json:"totalVotes"`
	Results    []OptionResult `json:"results"`
	IsActive   bool           `json:"isActive"`
	ExpiresAt  *time.Time     `json:"expiresAt"`
}

// Results 计算各选项占比，四舍五入到整数
func (p *Poll) Results() Results {
	out := Results{
		ID:         p.ID,
		Question:   p.Question,
		TotalVotes: p.TotalVotes,
		Results:    make([]OptionResult, 0, len(p.Options)),
		IsActive:   p.IsActive,
		ExpiresAt:  p.ExpiresAt,
	}
	for _, o := range p.Options {
		pct := 0
		if p.TotalVotes > 0 {
			pct = int(math.Round(float64(o.Votes) * 100 / float64(p.TotalVotes)))
		}
		out.Results = append(out.Results, OptionResult{Text: o.Text, Votes: o.Votes, Percentage: pct})
	}
	return out
}

// AdminPoll 管理员视图，包含选票明细
type AdminPoll struct {
	*Poll
	Ballots []Ballot `json:"ballots"`
}

func (p *Poll) AdminView() AdminPoll {
	p.normalize()
	return AdminPoll{Poll: p, Ballots: p.Ballots}
}
