package service

import (
	"context"
	"errors"
	"strings"

	"freedom_wall/internal/domain/contact/model"
	"freedom_wall/internal/domain/contact/repository"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"go.uber.org/zap"
)

// SubmitInput 联系表单
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// StatusInput 管理员更新状态，nil 字段保持不变
type StatusInput struct {
	Status     *string
	IsRead     *bool
	AdminNotes *string
}

type ContactService interface {
	Submit(ctx context.Context, in SubmitInput) (*model.Contact, error)
	List(ctx context.Context, status string) ([]model.Contact, error)
	UpdateStatus(ctx context.Context, id string, in StatusInput) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo      repository.ContactRepository
	sanitizer *security.Sanitizer

	nameV    *security.StringValidator
	emailV   *security.StringValidator
	phoneV   *security.StringValidator
	subjectV *security.StringValidator
	messageV *security.StringValidator
	notesV   *security.StringValidator
}

func NewContactService(repo repository.ContactRepository, sanitizer *security.Sanitizer) ContactService {
	return &contactService{
		repo:      repo,
		sanitizer: sanitizer,
		nameV:     security.NewStringValidator("Name", 100, true),
		emailV:    security.NewEmailValidator(100),
		phoneV:    security.NewStringValidator("Phone", 20, false),
		subjectV:  security.NewStringValidator("Subject", 200, true),
		messageV:  security.NewStringValidator("Message", 1000, true),
		notesV:    security.NewStringValidator("Admin notes", 500, false),
	}
}

func (s *contactService) clean(text string) string {
	return s.sanitizer.Sanitize(strings.TrimSpace(text), nil)
}

func (s *contactService) Submit(ctx context.Context, in SubmitInput) (*model.Contact, error) {
	email := strings.TrimSpace(in.Email)
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.nameV, Value: in.Name},
		security.ValidationRule{Validator: s.emailV, Value: email},
		security.ValidationRule{Validator: s.phoneV, Value: in.Phone},
		security.ValidationRule{Validator: s.subjectV, Value: in.Subject},
		security.ValidationRule{Validator: s.messageV, Value: in.Message},
	); err != nil {
		return nil, err
	}

	c := &model.Contact{
		Name:    s.clean(in.Name),
		Email:   strings.ToLower(email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: s.clean(in.Subject),
		Message: s.clean(in.Message),
		Status:  model.StatusNew,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperr.Internal("create contact", err)
	}

	logger.Log.Info("new contact message", zap.String("contact_id", c.ID), zap.String("email", c.Email))
	return c, nil
}

func (s *contactService) List(ctx context.Context, status string) ([]model.Contact, error) {
	st := model.Status(status)
	if st != "" && !st.Valid() {
		return nil, apperr.Validation("Invalid status")
	}
	list, err := s.repo.List(ctx, st)
	if err != nil {
		return nil, apperr.Internal("list contacts", err)
	}
	return list, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*model.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Contact message not found")
		}
		return nil, apperr.Internal("load contact", err)
	}

	if in.Status != nil && *in.Status != "" {
		st := model.Status(*in.Status)
		if !st.Valid() {
			return nil, apperr.Validation("Invalid status")
		}
		c.Status = st
	}
	if in.IsRead != nil {
		c.IsRead = *in.IsRead
	}
	if in.AdminNotes != nil {
		if err := s.notesV.Validate(*in.AdminNotes); err != nil {
			return nil, err
		}
		c.AdminNotes = strings.TrimSpace(*in.AdminNotes)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, apperr.Internal("update contact", err)
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete contact", err)
	}
	if !ok {
		return apperr.NotFound("Contact message not found")
	}
	logger.Log.Info("contact message deleted", zap.String("contact_id", id))
	return nil
}
