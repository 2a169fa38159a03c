package repository

import (
	"context"
	"errors"

	"freedom_wall/internal/domain/contact/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("contact not found")

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	// List status 为空时返回全部
	List(ctx context.Context, status model.Status) ([]model.Contact, error)
	Update(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, id string) (bool, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	var c model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) List(ctx context.Context, status model.Status) ([]model.Contact, error) {
	var list []model.Contact
	q := r.db.WithContext(ctx).Model(&model.Contact{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *contactRepository) Update(ctx context.Context, c *model.Contact) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *contactRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	return res.RowsAffected > 0, res.Error
}
