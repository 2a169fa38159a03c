package repository

import (
	"context"
	"errors"

	"freedom_wall/internal/domain/bannedword/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("banned word not found")

type BannedWordRepository interface {
	Create(ctx context.Context, w *model.BannedWord) error
	GetByID(ctx context.Context, id string) (*model.BannedWord, error)
	// FindByWord 未找到时返回 nil, nil
	FindByWord(ctx context.Context, word string) (*model.BannedWord, error)
	List(ctx context.Context) ([]model.BannedWord, error)
	ActiveWords(ctx context.Context) ([]string, error)
	Update(ctx context.Context, w *model.BannedWord) error
	Delete(ctx context.Context, id string) (bool, error)
}

type bannedWordRepository struct {
	db *gorm.DB
}

func NewBannedWordRepository(db *gorm.DB) BannedWordRepository {
	return &bannedWordRepository{db: db}
}

func (r *bannedWordRepository) Create(ctx context.Context, w *model.BannedWord) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *bannedWordRepository) GetByID(ctx context.Context, id string) (*model.BannedWord, error) {
	var w model.BannedWord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *bannedWordRepository) FindByWord(ctx context.Context, word string) (*model.BannedWord, error) {
	var w model.BannedWord
	err := r.db.WithContext(ctx).Where("word = ?", word).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *bannedWordRepository) List(ctx context.Context) ([]model.BannedWord, error) {
	var words []model.BannedWord
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&words).Error
	return words, err
}

func (r *bannedWordRepository) ActiveWords(ctx context.Context) ([]string, error) {
	words := []string{}
	err := r.db.WithContext(ctx).Model(&model.BannedWord{}).
		Where("is_active = ?", true).
		Order("word asc").
		Pluck("word", &words).Error
	return words, err
}

func (r *bannedWordRepository) Update(ctx context.Context, w *model.BannedWord) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *bannedWordRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BannedWord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
