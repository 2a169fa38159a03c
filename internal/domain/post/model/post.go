package model

import (
	"strings"
	"time"

	"freedom_wall/pkg/apperr"
	baseModel "freedom_wall/pkg/model"

	"gorm.io/gorm"
)

// FlagThreshold 举报数达到该值时自动标记
const FlagThreshold = 3

// DefaultName 未署名时的显示名
const DefaultName = "Anonymous"

// Reaction 评论表态
type Reaction string

const (
	ReactionUp   Reaction = "thumbsUp"
	ReactionDown Reaction = "thumbsDown"
)

// Valid 是否为合法表态
func (r Reaction) Valid() bool {
	return r == ReactionUp || r == ReactionDown
}

// ReactionResult 表态结果
type ReactionResult string

const (
	ReactionAdded   ReactionResult = "added"
	ReactionChanged ReactionResult = "changed"
	ReactionRemoved ReactionResult = "removed"
)

// ModerationAction 管理操作
type ModerationAction string

const (
	ActionHide   ModerationAction = "hide"
	ActionUnhide ModerationAction = "unhide"
	ActionFlag   ModerationAction = "flag"
	ActionUnflag ModerationAction = "unflag"
	ActionDelete ModerationAction = "delete"
)

// UserReaction 单个调用方的表态
type UserReaction struct {
	UserID   string   `json:"userId"`
	Reaction Reaction `json:"reaction"`
}

// Comment 评论，按下标寻址
type Comment struct {
	Name          string         `json:"name"`
	Message       string         `json:"message"`
	CreatedAt     time.Time      `json:"createdAt"`
	ThumbsUp      int            `json:"thumbsUp"`
	ThumbsDown    int            `json:"thumbsDown"`
	UserReactions []UserReaction `json:"userReactions"`
}

// Report 举报记录
type Report struct {
	UserID     string    `json:"userId"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reportedAt"`
}

// Origin 发帖来源，仅管理员可见
type Origin struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Post 帖子
// likes == len(likedBy)，engagementScore == likes + 2*len(comments)
type Post struct {
	baseModel.BaseModel
	baseModel.Versioned
	Name            string    `gorm:"type:text;not null" json:"name"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	Likes           int       `gorm:"not null" json:"likes"`
	LikedBy         []string  `gorm:"serializer:json;type:text" json:"-"`
	Comments        []Comment `gorm:"serializer:json;type:text" json:"comments"`
	ReportCount     int       `gorm:"not null" json:"reportCount"`
	Reports         []Report  `gorm:"serializer:json;type:text" json:"-"`
	IsHidden        bool      `gorm:"not null;index" json:"isHidden"`
	IsFlagged       bool      `gorm:"not null" json:"isFlagged"`
	EngagementScore int       `gorm:"not null;index" json:"engagementScore"`
	OriginIP        string    `gorm:"type:varchar(64)" json:"-"`
	OriginUserAgent string    `gorm:"type:varchar(512)" json:"-"`
	OriginSessionID string    `gorm:"type:varchar(64)" json:"-"`

	// UserLiked 列表接口按调用方标注，不落库
	UserLiked *bool `gorm:"-" json:"userLiked,omitempty"`
}

// AfterFind 保证 JSON 中的数组不为 null
func (p *Post) AfterFind(tx *gorm.DB) error {
	p.normalize()
	return nil
}

func (p *Post) normalize() {
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if p.Reports == nil {
		p.Reports = []Report{}
	}
	for i := range p.Comments {
		if p.Comments[i].UserReactions == nil {
			p.Comments[i].UserReactions = []UserReaction{}
		}
	}
}

// Score 帖子热度
func Score(likes, comments int) int {
	return likes + 2*comments
}

// Recompute 持久化之前重新计算派生字段
func (p *Post) Recompute() {
	p.normalize()
	p.Likes = len(p.LikedBy)
	p.EngagementScore = Score(p.Likes, len(p.Comments))
}

// HasLiked 调用方是否已点赞
func (p *Post) HasLiked(callerID string) bool {
	for _, id := range p.LikedBy {
		if id == callerID {
			return true
		}
	}
	return false
}

// deviceID 从 user_<device>_<session> 格式中提取设备段
func deviceID(callerID string) string {
	parts := strings.Split(callerID, "_")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// ToggleLike 已赞则取消，否则点赞
// deviceCheck 开启时拒绝同一设备以不同标识重复点赞
func (p *Post) ToggleLike(callerID string, deviceCheck bool) (bool, error) {
	if p.HasLiked(callerID) {
		kept := p.LikedBy[:0]
		for _, id := range p.LikedBy {
			if id != callerID {
				kept = append(kept, id)
			}
		}
		p.LikedBy = kept
		p.Likes = len(p.LikedBy)
		return false, nil
	}

	if deviceCheck {
		if dev := deviceID(callerID); dev != "" {
			for _, id := range p.LikedBy {
				if deviceID(id) == dev {
					return false, apperr.Conflict("This device has already liked this post", "DEVICE_ALREADY_LIKED")
				}
			}
		}
	}

	p.LikedBy = append(p.LikedBy, callerID)
	p.Likes = len(p.LikedBy)
	return true, nil
}

// AddComment 追加评论
func (p *Post) AddComment(name, message string, now time.Time) {
	if name == "" {
		name = DefaultName
	}
	p.Comments = append(p.Comments, Comment{
		Name:          name,
		Message:       message,
		CreatedAt:     now,
		UserReactions: []UserReaction{},
	})
}

// CommentAt 按下标取评论
func (p *Post) CommentAt(index int) (*Comment, error) {
	if index < 0 || index >= len(p.Comments) {
		return nil, apperr.NotFound("Comment not found")
	}
	return &p.Comments[index], nil
}

// DeleteComment 按下标删除评论
func (p *Post) DeleteComment(index int) error {
	if _, err := p.CommentAt(index); err != nil {
		return err
	}
	p.Comments = append(p.Comments[:index], p.Comments[index+1:]...)
	return nil
}

// React 对评论表态：相同表态再次提交视为撤销，不同表态视为更换
func (c *Comment) React(callerID string, r Reaction) ReactionResult {
	for i, ur := range c.UserReactions {
		if ur.UserID != callerID {
			continue
		}
		if ur.Reaction == r {
			c.UserReactions = append(c.UserReactions[:i], c.UserReactions[i+1:]...)
			c.recount()
			return ReactionRemoved
		}
		c.UserReactions[i].Reaction = r
		c.recount()
		return ReactionChanged
	}
	c.UserReactions = append(c.UserReactions, UserReaction{UserID: callerID, Reaction: r})
	c.recount()
	return ReactionAdded
}

// recount 计数器始终由表态列表推导，不会出现负数
func (c *Comment) recount() {
	up, down := 0, 0
	for _, ur := range c.UserReactions {
		switch ur.Reaction {
		case ReactionUp:
			up++
		case ReactionDown:
			down++
		}
	}
	c.ThumbsUp, c.ThumbsDown = up, down
}

// HasReported 调用方是否已举报
func (p *Post) HasReported(callerID string) bool {
	for _, r := range p.Reports {
		if r.UserID == callerID {
			return true
		}
	}
	return false
}

// AddReport 每个调用方只能举报一次，达到阈值自动标记
func (p *Post) AddReport(callerID, reason string, now time.Time) error {
	if p.HasReported(callerID) {
		return apperr.Conflict("You have already reported this post", "ALREADY_REPORTED")
	}
	p.Reports = append(p.Reports, Report{UserID: callerID, Reason: reason, ReportedAt: now})
	p.ReportCount++
	if p.ReportCount >= FlagThreshold {
		p.IsFlagged = true
	}
	return nil
}

// Moderate 执行管理操作，delete 由调用方处理
func (p *Post) Moderate(action ModerationAction) error {
	switch action {
	case ActionHide:
		p.IsHidden = true
	case ActionUnhide:
		p.IsHidden = false
	case ActionFlag:
		p.IsFlagged = true
	case ActionUnflag:
		p.IsFlagged = false
		p.ReportCount = 0
		p.Reports = []Report{}
	default:
		return apperr.Validation("Invalid action")
	}
	return nil
}

// AdminPost 管理员视图，包含来源与举报明细
type AdminPost struct {
	*Post
	LikedBy []string `json:"likedBy"`
	Reports []Report `json:"reports"`
	Origin  Origin   `json:"origin"`
}

// AdminView 转换为管理员视图
func (p *Post) AdminView() AdminPost {
	p.normalize()
	return AdminPost{
		Post:    p,
		LikedBy: p.LikedBy,
		Reports: p.Reports,
		Origin: Origin{
			IP:        p.OriginIP,
			UserAgent: p.OriginUserAgent,
			SessionID: p.OriginSessionID,
		},
	}
}
