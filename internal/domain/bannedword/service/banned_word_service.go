package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"freedom_wall/internal/domain/bannedword/model"
	"freedom_wall/internal/domain/bannedword/repository"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/cache"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"

	"go.uber.org/zap"
)

// activeWordsKey 生效屏蔽词列表的缓存键
const activeWordsKey = "bannedwords:active"

// UpdateInput 字段为 nil 表示不修改
type UpdateInput struct {
	Word     *string
	Reason   *string
	IsActive *bool
}

type BannedWordService interface {
	// ActiveWords 供清洗器使用，优先读取缓存
	ActiveWords(ctx context.Context) ([]string, error)
	List(ctx context.Context) ([]model.BannedWord, error)
	Create(ctx context.Context, word, reason, addedBy string) (*model.BannedWord, error)
	Update(ctx context.Context, id string, in UpdateInput) (*model.BannedWord, error)
	Delete(ctx context.Context, id string) error
}

type bannedWordService struct {
	repo    repository.BannedWordRepository
	cache   cache.CacheService
	ttl     time.Duration
	wordV   *security.StringValidator
	reasonV *security.StringValidator
}

// NewBannedWordService cache 为 nil 时每次都查库
func NewBannedWordService(repo repository.BannedWordRepository, c cache.CacheService, ttl time.Duration) BannedWordService {
	wordV := security.NewStringValidator("Word", 100, true)
	wordV.CheckSuspicious = false
	reasonV := security.NewStringValidator("Reason", 200, false)
	reasonV.CheckSuspicious = false
	return &bannedWordService{
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		wordV:   wordV,
		reasonV: reasonV,
	}
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func (s *bannedWordService) ActiveWords(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var words []string
		err := s.cache.Get(ctx, activeWordsKey, &words)
		if err == nil {
			return words, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Log.Warn("banned words cache read failed", zap.Error(err))
		}
	}

	words, err := s.repo.ActiveWords(ctx)
	if err != nil {
		return nil, apperr.Internal("load banned words", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, activeWordsKey, words, s.ttl); err != nil {
			logger.Log.Warn("banned words cache write failed", zap.Error(err))
		}
	}
	return words, nil
}

func (s *bannedWordService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, activeWordsKey); err != nil {
		logger.Log.Warn("banned words cache invalidation failed", zap.Error(err))
	}
}

func (s *bannedWordService) List(ctx context.Context) ([]model.BannedWord, error) {
	words, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list banned words", err)
	}
	return words, nil
}

func (s *bannedWordService) Create(ctx context.Context, word, reason, addedBy string) (*model.BannedWord, error) {
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.wordV, Value: word},
		security.ValidationRule{Validator: s.reasonV, Value: reason},
	); err != nil {
		return nil, err
	}

	word = normalize(word)
	existing, err := s.repo.FindByWord(ctx, word)
	if err != nil {
		return nil, apperr.Internal("find banned word", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Word already banned", "DUPLICATE_WORD")
	}

	if addedBy == "" {
		addedBy = model.DefaultAddedBy
	}
	bw := &model.BannedWord{
		Word:     word,
		IsActive: true,
		Reason:   strings.TrimSpace(reason),
		AddedBy:  addedBy,
	}
	if err := s.repo.Create(ctx, bw); err != nil {
		return nil, apperr.Internal("create banned word", err)
	}

	s.invalidate(ctx)
	logger.Log.Info("banned word added", zap.String("word", word))
	return bw, nil
}

func (s *bannedWordService) Update(ctx context.Context, id string, in UpdateInput) (*model.BannedWord, error) {
	bw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Banned word not found")
		}
		return nil, apperr.Internal("load banned word", err)
	}

	if in.Word != nil {
		if err := s.wordV.Validate(*in.Word); err != nil {
			return nil, err
		}
		word := normalize(*in.Word)
		if word != bw.Word {
			existing, err := s.repo.FindByWord(ctx, word)
			if err != nil {
				return nil, apperr.Internal("find banned word", err)
			}
			if existing != nil {
				return nil, apperr.Conflict("Word already banned", "DUPLICATE_WORD")
			}
			bw.Word = word
		}
	}
	if in.Reason != nil {
		if err := s.reasonV.Validate(*in.Reason); err != nil {
			return nil, err
		}
		bw.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.IsActive != nil {
		bw.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, bw); err != nil {
		return nil, apperr.Internal("update banned word", err)
	}
	s.invalidate(ctx)
	return bw, nil
}

func (s *bannedWordService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete banned word", err)
	}
	if !ok {
		return apperr.NotFound("Banned word not found")
	}
	s.invalidate(ctx)
	return nil
}
