package database

import (
	"context"

	"gorm.io/gorm"
)

// VersionedEntity 可做乐观锁更新的实体
type VersionedEntity interface {
	GetVersion() int64
	SetVersion(version int64)
}

// UpdateCAS 仅当库中版本等于实体当前版本时整行写入，成功后版本号加一
// 返回 false 表示版本冲突，此时实体版本号保持不变
func UpdateCAS(ctx context.Context, db *gorm.DB, entity VersionedEntity) (bool, error) {
	expected := entity.GetVersion()
	entity.SetVersion(expected + 1)

	result := db.WithContext(ctx).
		Model(entity).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if result.Error != nil {
		entity.SetVersion(expected)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		entity.SetVersion(expected)
		return false, nil
	}
	return true, nil
}
