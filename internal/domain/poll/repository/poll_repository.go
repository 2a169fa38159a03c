package repository

import (
	"context"
	"errors"

	"freedom_wall/internal/domain/poll/model"
	"freedom_wall/pkg/database"

	"gorm.io/gorm"
)

// ErrNotFound 投票不存在
var ErrNotFound = errors.New("poll not found")

type PollRepository interface {
	Create(ctx context.Context, poll *model.Poll) error
	GetByID(ctx context.Context, id string) (*model.Poll, error)
	// ListActive 按热度、创建时间倒序，limit <= 0 表示不限
	ListActive(ctx context.Context, limit int) ([]model.Poll, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Poll, int64, error)
	UpdateCAS(ctx context.Context, poll *model.Poll) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ScanBatches(ctx context.Context, size int, fn func(polls []model.Poll) error) error
	UpdateScore(ctx context.Context, id string, version int64, totalVotes, score int) (bool, error)
}

type pollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *model.Poll) error {
	if poll.Version == 0 {
		poll.Version = 1
	}
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*model.Poll, error) {
	var poll model.Poll
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) ListActive(ctx context.Context, limit int) ([]model.Poll, error) {
	var polls []model.Poll
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("engagement_score desc, created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *pollRepository) ListAll(ctx context.Context, offset, limit int) ([]model.Poll, int64, error) {
	var polls []model.Poll
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Poll{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&polls).Error; err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (r *pollRepository) UpdateCAS(ctx context.Context, poll *model.Poll) (bool, error) {
	return database.UpdateCAS(ctx, r.db, poll)
}

func (r *pollRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Poll{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *pollRepository) ScanBatches(ctx context.Context, size int, fn func(polls []model.Poll) error) error {
	var batch []model.Poll
	return r.db.WithContext(ctx).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// UpdateScore 只更新派生字段，不改变版本号；版本已变化时返回 false
func (r *pollRepository) UpdateScore(ctx context.Context, id string, version int64, totalVotes, score int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Poll{}).
		Where("id = ? AND version = ?", id, version).
		UpdateColumns(map[string]interface{}{
			"total_votes":      totalVotes,
			"engagement_score": score,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
