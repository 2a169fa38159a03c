package repository

import (
	"context"
	"time"

	"freedom_wall/internal/domain/chat/model"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	// PenNameUsedSince since 之后是否有人用该笔名发过言
	PenNameUsedSince(ctx context.Context, penName string, since time.Time) (bool, error)
	// Recent 最近的用户消息，时间倒序
	Recent(ctx context.Context, limit int) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *chatRepository) PenNameUsedSince(ctx context.Context, penName string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("pen_name = ? AND sent_at >= ?", penName, since).
		Count(&count).Error
	return count > 0, err
}

func (r *chatRepository) Recent(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("message_type = ?", model.TypeUser).
		Order("sent_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
