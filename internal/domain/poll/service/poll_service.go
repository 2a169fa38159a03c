package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freedom_wall/internal/domain/poll/model"
	"freedom_wall/internal/domain/poll/repository"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/internal/pkg/notify"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"
	"freedom_wall/pkg/security"
	"freedom_wall/pkg/utils"

	"go.uber.org/zap"
)

// MaxCASAttempts 乐观锁冲突时的最大尝试次数
const MaxCASAttempts = 5

// TrendingLimit 热门投票条数
const TrendingLimit = 5

var ErrTooManyConflicts = errors.New("poll update conflicted too many times")

// Options 投票策略配置
type Options struct {
	QuestionMax int
	OptionMax   int
	NameMax     int
	MinOptions  int
	MaxOptions  int
	MultiSelect bool
}

// CreateInput 创建投票输入
type CreateInput struct {
	Question  string
	Options   []string
	ExpiresAt *time.Time
	Topics    []string
	Name      string
}

// AdminListResult 管理员列表
type AdminListResult struct {
	Polls       []model.AdminPoll `json:"polls"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	HasMore     bool              `json:"hasMore"`
	TotalPolls  int64             `json:"totalPolls"`
}

type PollService interface {
	Create(ctx context.Context, in CreateInput) (*model.Poll, error)
	ListActive(ctx context.Context, callerID string) ([]model.Poll, error)
	Trending(ctx context.Context) ([]model.Poll, error)
	Vote(ctx context.Context, id, callerID string, indexes []int) (*model.Poll, error)
	Results(ctx context.Context, id string) (*model.Results, error)
	ListAdmin(ctx context.Context, page, limit int) (*AdminListResult, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Poll, error)
	Delete(ctx context.Context, id string) error
	Rescore(ctx context.Context) (int, error)
}

type pollService struct {
	repo     repository.PollRepository
	cleaner  *content.Cleaner
	notifier *notify.Notifier
	opts     Options
	now      func() time.Time

	questionV *security.StringValidator
	optionV   *security.StringValidator
	nameV     *security.StringValidator
}

func NewPollService(repo repository.PollRepository, cleaner *content.Cleaner, notifier *notify.Notifier, opts Options) PollService {
	if opts.MinOptions <= 0 {
		opts.MinOptions = 2
	}
	if opts.MaxOptions < opts.MinOptions {
		opts.MaxOptions = 6
	}
	return &pollService{
		repo:      repo,
		cleaner:   cleaner,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
		questionV: security.NewStringValidator("Question", opts.QuestionMax, true),
		optionV:   security.NewStringValidator("Option", opts.OptionMax, true),
		nameV:     security.NewStringValidator("Name", opts.NameMax, false),
	}
}

func (s *pollService) Create(ctx context.Context, in CreateInput) (*model.Poll, error) {
	if strings.TrimSpace(in.Question) == "" || len(in.Options) < s.opts.MinOptions {
		return nil, apperr.Validation(fmt.Sprintf("Question and at least %d options are required", s.opts.MinOptions))
	}
	if len(in.Options) > s.opts.MaxOptions {
		return nil, apperr.Validation(fmt.Sprintf("Maximum %d options allowed", s.opts.MaxOptions))
	}

	rules := []security.ValidationRule{
		{Validator: s.questionV, Value: in.Question},
		{Validator: s.nameV, Value: in.Name},
	}
	for _, o := range in.Options {
		rules = append(rules, security.ValidationRule{Validator: s.optionV, Value: o})
	}
	if err := security.ValidateAll(rules...); err != nil {
		return nil, err
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, apperr.Validation("Expiry must be in the future")
	}

	question := in.Question
	name := strings.TrimSpace(in.Name)
	texts := make([]string, len(in.Options))
	fields := []*string{&question, &name}
	for i := range in.Options {
		texts[i] = strings.TrimSpace(in.Options[i])
		fields = append(fields, &texts[i])
	}
	s.cleaner.CleanAll(ctx, fields...)
	if name == "" {
		name = model.DefaultCreator
	}

	poll := &model.Poll{
		Question:  question,
		IsActive:  true,
		ExpiresAt: in.ExpiresAt,
		CreatedBy: name,
		Topics:    in.Topics,
	}
	for _, t := range texts {
		poll.Options = append(poll.Options, model.Option{Text: t})
	}
	poll.Recompute()

	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, apperr.Internal("create poll", err)
	}
	s.notifier.Notify(notify.NewPoll, poll)
	return poll, nil
}

func (s *pollService) ListActive(ctx context.Context, callerID string) ([]model.Poll, error) {
	polls, err := s.repo.ListActive(ctx, 0)
	if err != nil {
		return nil, apperr.Internal("list polls", err)
	}
	if identity.IsUsable(callerID) {
		for i := range polls {
			voted := polls[i].HasVoted(callerID)
			polls[i].UserVoted = &voted
		}
	}
	return polls, nil
}

func (s *pollService) Trending(ctx context.Context) ([]model.Poll, error) {
	polls, err := s.repo.ListActive(ctx, TrendingLimit)
	if err != nil {
		return nil, apperr.Internal("list trending polls", err)
	}
	return polls, nil
}

// mutate 读取-修改-条件写入，版本冲突时重新读取再试
func (s *pollService) mutate(ctx context.Context, id string, fn func(p *model.Poll) error) (*model.Poll, error) {
	for attempt := 1; attempt <= MaxCASAttempts; attempt++ {
		poll, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("Poll not found")
			}
			return nil, apperr.Internal("load poll", err)
		}

		if err := fn(poll); err != nil {
			return nil, err
		}
		poll.Recompute()

		ok, err := s.repo.UpdateCAS(ctx, poll)
		if err != nil {
			return nil, apperr.Internal("update poll", err)
		}
		if ok {
			return poll, nil
		}

		metrics.GetGlobalCollector().RecordCASRetry("poll")
		logger.Log.Debug("poll version conflict",
			zap.String("poll_id", id),
			zap.Int("attempt", attempt),
		)
	}
	return nil, apperr.Internal("update poll", ErrTooManyConflicts)
}

func (s *pollService) Vote(ctx context.Context, id, callerID string, indexes []int) (*model.Poll, error) {
	if !identity.IsUsable(callerID) {
		return nil, apperr.Validation("User identifier is required")
	}

	poll, err := s.mutate(ctx, id, func(p *model.Poll) error {
		return p.Vote(callerID, indexes, s.opts.MultiSelect, s.now())
	})
	if err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordReaction("vote", "added")
	s.notifier.Notify(notify.PollResults, poll.Results())

	voted := true
	poll.UserVoted = &voted
	return poll, nil
}

func (s *pollService) Results(ctx context.Context, id string) (*model.Results, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Poll not found")
		}
		return nil, apperr.Internal("load poll", err)
	}
	res := poll.Results()
	return &res, nil
}

func (s *pollService) ListAdmin(ctx context.Context, page, limit int) (*AdminListResult, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, size := p.GetPageOffset()

	polls, total, err := s.repo.ListAll(ctx, offset, size)
	if err != nil {
		return nil, apperr.Internal("list polls", err)
	}
	views := make([]model.AdminPoll, 0, len(polls))
	for i := range polls {
		views = append(views, polls[i].AdminView())
	}
	return &AdminListResult{
		Polls:       views,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		HasMore:     p.HasMore(total),
		TotalPolls:  total,
	}, nil
}

func (s *pollService) SetActive(ctx context.Context, id string, active bool) (*model.Poll, error) {
	poll, err := s.mutate(ctx, id, func(p *model.Poll) error {
		p.IsActive = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("poll status changed", zap.String("poll_id", id), zap.Bool("active", active))
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete poll", err)
	}
	if !ok {
		return apperr.NotFound("Poll not found")
	}
	logger.Log.Info("poll deleted", zap.String("poll_id", id))
	return nil
}

func (s *pollService) Rescore(ctx context.Context) (int, error) {
	fixed := 0
	err := s.repo.ScanBatches(ctx, 100, func(polls []model.Poll) error {
		for i := range polls {
			p := &polls[i]
			before, beforeScore := p.TotalVotes, p.EngagementScore
			p.Recompute()
			if p.TotalVotes == before && p.EngagementScore == beforeScore {
				continue
			}
			// 扫描后被并发修改的投票已由那次写入重新计数，跳过即可
			ok, err := s.repo.UpdateScore(ctx, p.ID, p.Version, p.TotalVotes, p.EngagementScore)
			if err != nil {
				return err
			}
			if ok {
				fixed++
			}
		}
		return nil
	})
	if err != nil {
		return fixed, apperr.Internal("rescore polls", err)
	}
	return fixed, nil
}
