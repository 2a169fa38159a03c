package model

import (
	baseModel "freedom_wall/pkg/model"
)

// DefaultAddedBy 默认添加人
const DefaultAddedBy = "Admin"

// BannedWord 屏蔽词，统一保存为小写
type BannedWord struct {
	baseModel.BaseModel
	Word     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"word"`
	IsActive bool   `gorm:"not null;index" json:"isActive"`
	Reason   string `gorm:"type:varchar(200)" json:"reason"`
	AddedBy  string `gorm:"type:varchar(100)" json:"addedBy"`
}
