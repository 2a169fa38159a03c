package model

import (
	"time"

	baseModel "freedom_wall/pkg/model"
)

// Type 公告类型
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Valid 是否为合法类型
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeWarning, TypeSuccess, TypeError:
		return true
	}
	return false
}

const (
	MinPriority = 1
	MaxPriority = 3

	DefaultCreator = "Admin"
)

// Announcement 站点公告
// ExpiresAt 为空表示永不过期
type Announcement struct {
	baseModel.BaseModel
	Title      string     `gorm:"type:text;not null" json:"title"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Type       Type       `gorm:"type:varchar(20);not null" json:"type"`
	IsActive   bool       `gorm:"not null;index:idx_announcement_active" json:"isActive"`
	Priority   int        `gorm:"not null" json:"priority"`
	ExpiresAt  *time.Time `gorm:"index" json:"expiresAt"`
	CreatedBy  string     `gorm:"type:varchar(100)" json:"createdBy"`
	AdminNotes string     `gorm:"type:text" json:"adminNotes,omitempty"`
}

// Visible 在 now 时刻是否对公众可见
func (a *Announcement) Visible(now time.Time) bool {
	return a.IsActive && (a.ExpiresAt == nil || a.ExpiresAt.After(now))
}
