package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freedom_wall/internal/domain/announcement/model"
	"freedom_wall/internal/domain/announcement/repository"
	"freedom_wall/internal/pkg/notify"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"go.uber.org/zap"
)

// CreateInput 创建公告
type CreateInput struct {
	Title      string
	Message    string
	Type       string
	Priority   int
	ExpiresAt  *time.Time
	AdminNotes string
	CreatedBy  string
}

// UpdateInput 修改公告，nil 字段保持不变
// ClearExpiry 为 true 时移除过期时间
type UpdateInput struct {
	Title       *string
	Message     *string
	Type        *string
	Priority    *int
	ExpiresAt   *time.Time
	ClearExpiry bool
	IsActive    *bool
	AdminNotes  *string
}

type AnnouncementService interface {
	Create(ctx context.Context, in CreateInput) (*model.Announcement, error)
	ListVisible(ctx context.Context) ([]model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	Update(ctx context.Context, id string, in UpdateInput) (*model.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementService struct {
	repo      repository.AnnouncementRepository
	sanitizer *security.Sanitizer
	notifier  *notify.Notifier
	now       func() time.Time

	titleV   *security.StringValidator
	messageV *security.StringValidator
	notesV   *security.StringValidator
}

func NewAnnouncementService(repo repository.AnnouncementRepository, sanitizer *security.Sanitizer, notifier *notify.Notifier, messageMax int) AnnouncementService {
	return &announcementService{
		repo:      repo,
		sanitizer: sanitizer,
		notifier:  notifier,
		now:       time.Now,
		titleV:    security.NewStringValidator("Title", 200, true),
		messageV:  security.NewStringValidator("Message", messageMax, true),
		notesV:    security.NewStringValidator("Admin notes", 500, false),
	}
}

func parseType(raw string) (model.Type, error) {
	if raw == "" {
		return model.TypeInfo, nil
	}
	t := model.Type(raw)
	if !t.Valid() {
		return "", apperr.Validation("Invalid type. Must be one of info, warning, success, error")
	}
	return t, nil
}

func checkPriority(p int) error {
	if p < model.MinPriority || p > model.MaxPriority {
		return apperr.Validation(fmt.Sprintf("Priority must be between %d and %d", model.MinPriority, model.MaxPriority))
	}
	return nil
}

func (s *announcementService) clean(text string) string {
	return s.sanitizer.Sanitize(strings.TrimSpace(text), nil)
}

func (s *announcementService) Create(ctx context.Context, in CreateInput) (*model.Announcement, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validation("Title and message are required")
	}
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.titleV, Value: in.Title},
		security.ValidationRule{Validator: s.messageV, Value: in.Message},
		security.ValidationRule{Validator: s.notesV, Value: in.AdminNotes},
	); err != nil {
		return nil, err
	}
	typ, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}
	if in.Priority == 0 {
		in.Priority = model.MinPriority
	}
	if err := checkPriority(in.Priority); err != nil {
		return nil, err
	}
	if in.CreatedBy == "" {
		in.CreatedBy = model.DefaultCreator
	}

	a := &model.Announcement{
		Title:      s.clean(in.Title),
		Message:    s.clean(in.Message),
		Type:       typ,
		IsActive:   true,
		Priority:   in.Priority,
		ExpiresAt:  in.ExpiresAt,
		CreatedBy:  in.CreatedBy,
		AdminNotes: strings.TrimSpace(in.AdminNotes),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, apperr.Internal("create announcement", err)
	}

	if a.Visible(s.now()) {
		s.notifier.Notify(notify.NewAnnouncement, publicView(*a))
	}
	logger.Log.Info("announcement created", zap.String("announcement_id", a.ID), zap.String("type", string(a.Type)))
	return a, nil
}

// publicView 去掉仅管理员可见的备注
func publicView(a model.Announcement) model.Announcement {
	a.AdminNotes = ""
	return a
}

func (s *announcementService) ListVisible(ctx context.Context) ([]model.Announcement, error) {
	list, err := s.repo.ListVisible(ctx, s.now())
	if err != nil {
		return nil, apperr.Internal("list announcements", err)
	}
	for i := range list {
		list[i] = publicView(list[i])
	}
	return list, nil
}

func (s *announcementService) ListAll(ctx context.Context) ([]model.Announcement, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list announcements", err)
	}
	return list, nil
}

func (s *announcementService) Update(ctx context.Context, id string, in UpdateInput) (*model.Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Announcement not found")
		}
		return nil, apperr.Internal("load announcement", err)
	}

	if in.Title != nil {
		if err := s.titleV.Validate(*in.Title); err != nil {
			return nil, err
		}
		a.Title = s.clean(*in.Title)
	}
	if in.Message != nil {
		if err := s.messageV.Validate(*in.Message); err != nil {
			return nil, err
		}
		a.Message = s.clean(*in.Message)
	}
	if in.Type != nil {
		typ, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		a.Type = typ
	}
	if in.Priority != nil {
		if err := checkPriority(*in.Priority); err != nil {
			return nil, err
		}
		a.Priority = *in.Priority
	}
	if in.ClearExpiry {
		a.ExpiresAt = nil
	} else if in.ExpiresAt != nil {
		a.ExpiresAt = in.ExpiresAt
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.AdminNotes != nil {
		if err := s.notesV.Validate(*in.AdminNotes); err != nil {
			return nil, err
		}
		a.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, apperr.Internal("update announcement", err)
	}
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Announcement not found")
		}
		return apperr.Internal("load announcement", err)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete announcement", err)
	}
	if !ok {
		return apperr.NotFound("Announcement not found")
	}
	logger.Log.Info("announcement deleted", zap.String("title", a.Title))
	return nil
}
