package model

import (
	"time"

	baseModel "freedom_wall/pkg/model"
)

// MessageType 消息来源
type MessageType string

const (
	TypeUser   MessageType = "user"
	TypeSystem MessageType = "system"
)

// PenNameWindow 笔名在该时间窗口内发过言即视为占用
const PenNameWindow = 24 * time.Hour

// ChatMessage 聊天室消息
type ChatMessage struct {
	baseModel.BaseModel
	PenName     string      `gorm:"type:text;not null;index" json:"penName"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Timestamp   time.Time   `gorm:"column:sent_at;not null;index" json:"timestamp"`
	MessageType MessageType `gorm:"type:varchar(10);not null" json:"messageType"`
}
