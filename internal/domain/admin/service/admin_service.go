package service

import (
	"context"
	"sort"
	"time"

	"freedom_wall/internal/domain/admin/repository"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/security"
	"freedom_wall/pkg/utils"

	"go.uber.org/zap"
)

// RecentWindow 统计“近期”数据的时间窗口
const RecentWindow = 24 * time.Hour

// Rescorer 热度重算
type Rescorer interface {
	Rescore(ctx context.Context) (int, error)
}

// OnlineCounter 在线连接数
type OnlineCounter interface {
	ClientCount() int
}

// LoginResult 登录结果，未配置 JWT 密钥时不返回令牌
type LoginResult struct {
	Message   string     `json:"message"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Stats 管理后台概览
type Stats struct {
	repository.Counts
	OnlineUsers int       `json:"onlineUsers"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// RescoreResult 每类实体修正的条数
type RescoreResult struct {
	Fixed map[string]int `json:"fixed"`
}

type AdminService interface {
	Login(ctx context.Context, key, sessionID string) (*LoginResult, error)
	Stats(ctx context.Context) (*Stats, error)
	Rescore(ctx context.Context) (*RescoreResult, error)
}

type adminService struct {
	authorizer security.Authorizer
	tokens     *utils.TokenIssuer
	stats      repository.StatsRepository
	online     OnlineCounter
	rescorers  map[string]Rescorer
	now        func() time.Time
}

// NewAdminService tokens 与 online 可为 nil
func NewAdminService(authorizer security.Authorizer, tokens *utils.TokenIssuer, stats repository.StatsRepository, online OnlineCounter, rescorers map[string]Rescorer) AdminService {
	return &adminService{
		authorizer: authorizer,
		tokens:     tokens,
		stats:      stats,
		online:     online,
		rescorers:  rescorers,
		now:        time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, key, sessionID string) (*LoginResult, error) {
	if key == "" {
		return nil, apperr.Unauthorized("Admin key is required")
	}
	if !s.authorizer.CheckKey(key) {
		logger.Log.Warn("admin login rejected", zap.String("session_id", sessionID))
		return nil, apperr.Unauthorized("Invalid admin key")
	}

	res := &LoginResult{Message: "Login successful"}
	if s.tokens != nil {
		token, expiresAt, err := s.tokens.GenerateToken(sessionID)
		if err != nil {
			logger.Log.Warn("admin token not issued", zap.Error(err))
		} else {
			res.Token, res.ExpiresAt = token, expiresAt
		}
	}
	logger.Log.Info("admin logged in", zap.String("session_id", sessionID))
	return res, nil
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	counts, err := s.stats.Counts(ctx, now.Add(-RecentWindow))
	if err != nil {
		return nil, apperr.Internal("load stats", err)
	}
	st := &Stats{Counts: *counts, GeneratedAt: now}
	if s.online != nil {
		st.OnlineUsers = s.online.ClientCount()
	}
	return st, nil
}

func (s *adminService) Rescore(ctx context.Context) (*RescoreResult, error) {
	names := make([]string, 0, len(s.rescorers))
	for name := range s.rescorers {
		names = append(names, name)
	}
	sort.Strings(names)

	res := &RescoreResult{Fixed: make(map[string]int, len(names))}
	for _, name := range names {
		fixed, err := s.rescorers[name].Rescore(ctx)
		if err != nil {
			return nil, err
		}
		res.Fixed[name] = fixed
		logger.Log.Info("rescore finished", zap.String("entity", name), zap.Int("fixed", fixed))
	}
	return res, nil
}
