package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 基础模型，替代 gorm.Model，使用 UUID 字符串作为主键
// 主键类型用 varchar(36)，postgres 与 sqlite 通用
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate 钩子：生成 UUID
func (b *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// Versioned 乐观锁版本号，用于计数器类字段的 CAS 更新
type Versioned struct {
	Version int64 `gorm:"not null;default:1" json:"-"`
}

func (v *Versioned) GetVersion() int64 {
	return v.Version
}

func (v *Versioned) SetVersion(version int64) {
	v.Version = version
}
