package model

import (
	baseModel "freedom_wall/pkg/model"
)

// Status 联系消息处理状态
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusArchived   Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusArchived:
		return true
	}
	return false
}

// Contact 联系表单消息
type Contact struct {
	baseModel.BaseModel
	Name       string `gorm:"type:text;not null" json:"name"`
	Email      string `gorm:"type:varchar(100);not null" json:"email"`
	Phone      string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Subject    string `gorm:"type:text;not null" json:"subject"`
	Message    string `gorm:"type:text;not null" json:"message"`
	IsRead     bool   `gorm:"not null;index" json:"isRead"`
	Status     Status `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminNotes string `gorm:"type:varchar(500)" json:"adminNotes,omitempty"`
}
