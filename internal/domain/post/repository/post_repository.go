package repository

import (
	"context"
	"errors"

	"freedom_wall/internal/domain/post/model"
	"freedom_wall/pkg/database"

	"gorm.io/gorm"
)

// ErrNotFound 帖子不存在
var ErrNotFound = errors.New("post not found")

// 排序方式
const (
	SortLatest  = "latest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// ListQuery 列表查询条件
type ListQuery struct {
	Offset        int
	Limit         int
	Sort          string
	IncludeHidden bool
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, q ListQuery) ([]model.Post, int64, error)
	// UpdateCAS 仅当库中版本等于 post.Version 时写入，成功后版本号加一
	UpdateCAS(ctx context.Context, post *model.Post) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// ScanBatches 分批遍历全部帖子
	ScanBatches(ctx context.Context, size int, fn func(posts []model.Post) error) error
	UpdateScore(ctx context.Context, id string, version int64, score int) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.Version == 0 {
		post.Version = 1
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func orderFor(sort string) string {
	switch sort {
	case SortOldest:
		return "created_at asc"
	case SortPopular:
		return "engagement_score desc, created_at desc"
	default:
		return "created_at desc"
	}
}

func (r *postRepository) List(ctx context.Context, q ListQuery) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Post{})
	if !q.IncludeHidden {
		query = query.Where("is_hidden = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order(orderFor(q.Sort)).Offset(q.Offset).Limit(q.Limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) UpdateCAS(ctx context.Context, post *model.Post) (bool, error) {
	return database.UpdateCAS(ctx, r.db, post)
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) ScanBatches(ctx context.Context, size int, fn func(posts []model.Post) error) error {
	var batch []model.Post
	return r.db.WithContext(ctx).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// UpdateScore 只更新派生分数，不改变版本号；版本已变化时返回 false
func (r *postRepository) UpdateScore(ctx context.Context, id string, version int64, score int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND version = ?", id, version).
		UpdateColumn("engagement_score", score)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
