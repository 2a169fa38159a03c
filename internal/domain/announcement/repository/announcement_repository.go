package repository

import (
	"context"
	"errors"
	"time"

	"freedom_wall/internal/domain/announcement/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("announcement not found")

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	// ListVisible 生效且未过期的公告，按优先级、创建时间倒序
	ListVisible(ctx context.Context, now time.Time) ([]model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id string) (bool, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) ListVisible(ctx context.Context, now time.Time) ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *announcementRepository) ListAll(ctx context.Context) ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *announcementRepository) Update(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Announcement{})
	return res.RowsAffected > 0, res.Error
}
