package service

import (
	"context"
	"strings"
	"time"

	"freedom_wall/internal/domain/chat/model"
	"freedom_wall/internal/domain/chat/repository"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"go.uber.org/zap"
)

// MaxHistory 历史消息最多返回条数
const MaxHistory = 50

// Availability 笔名检查结果
type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type ChatService interface {
	// CheckPenName 笔名不可用时返回 Validation 或 Conflict 错误
	CheckPenName(ctx context.Context, penName string) (*Availability, error)
	// History 最近的消息，按时间正序
	History(ctx context.Context, limit int) ([]model.ChatMessage, error)
	Send(ctx context.Context, penName, text string) (*model.ChatMessage, error)
}

type chatService struct {
	repo    repository.ChatRepository
	cleaner *content.Cleaner
	now     func() time.Time

	penNameV *security.StringValidator
	contentV *security.StringValidator
}

func NewChatService(repo repository.ChatRepository, cleaner *content.Cleaner, penNameMax, contentMax int) ChatService {
	return &chatService{
		repo:     repo,
		cleaner:  cleaner,
		now:      time.Now,
		penNameV: security.NewStringValidator("Pen name", penNameMax, true),
		contentV: security.NewStringValidator("Message", contentMax, true),
	}
}

func (s *chatService) CheckPenName(ctx context.Context, penName string) (*Availability, error) {
	if err := s.penNameV.Validate(penName); err != nil {
		return nil, err
	}
	// 库里存的是清洗后的笔名，按同样的形式比较
	name := s.cleaner.Clean(ctx, strings.TrimSpace(penName))
	if name == "" {
		return nil, apperr.Validation("Pen name cannot be empty")
	}
	used, err := s.repo.PenNameUsedSince(ctx, name, s.now().Add(-model.PenNameWindow))
	if err != nil {
		return nil, apperr.Internal("check pen name", err)
	}
	if used {
		return nil, apperr.Conflict("Pen name is already in use. Please choose a different one.", "PEN_NAME_TAKEN")
	}
	return &Availability{Available: true, Message: "Pen name is available"}, nil
}

func (s *chatService) History(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}
	list, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Internal("load chat history", err)
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (s *chatService) Send(ctx context.Context, penName, text string) (*model.ChatMessage, error) {
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.penNameV, Value: penName},
		security.ValidationRule{Validator: s.contentV, Value: text},
	); err != nil {
		return nil, err
	}

	penName = strings.TrimSpace(penName)
	text = strings.TrimSpace(text)
	s.cleaner.CleanAll(ctx, &penName, &text)
	if penName == "" {
		return nil, apperr.Validation("Pen name cannot be empty")
	}
	if text == "" {
		return nil, apperr.Validation("Message cannot be empty")
	}

	msg := &model.ChatMessage{
		PenName:     penName,
		Content:     text,
		Timestamp:   s.now(),
		MessageType: model.TypeUser,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperr.Internal("save chat message", err)
	}
	logger.Log.Debug("chat message stored", zap.String("pen_name", penName))
	return msg, nil
}
