package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"freedom_wall/internal/domain/post/model"
	"freedom_wall/internal/domain/post/repository"
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

// ErrTooManyConflicts 多次重试仍然版本冲突
var ErrTooManyConflicts = errors.New("post update conflicted too many times")

// Limits 字段长度上限与可选策略
type Limits struct {
	NameMax     int
	MessageMax  int
	CommentMax  int
	ReasonMax   int
	DeviceCheck bool
}

// CreateInput 发帖输入，Origin 由 handler 从请求中提取
type CreateInput struct {
	Name    string
	Message string
	Origin  model.Origin
}

// ListInput 列表查询
type ListInput struct {
	Page     int
	Limit    int
	Sort     string
	CallerID string
}

// ListResult 公开列表响应
type ListResult struct {
	Posts       []model.Post `json:"posts"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	HasMore     bool         `json:"hasMore"`
	TotalPosts  int64        `json:"totalPosts"`
}

// AdminListResult 管理员列表响应，包含隐藏帖子与来源信息
type AdminListResult struct {
	Posts       []model.AdminPost `json:"posts"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	HasMore     bool              `json:"hasMore"`
	TotalPosts  int64             `json:"totalPosts"`
}

// LikeResult 点赞结果
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// CommentReactions 表态后的评论计数
type CommentReactions struct {
	ThumbsUp      int                  `json:"thumbsUp"`
	ThumbsDown    int                  `json:"thumbsDown"`
	UserReactions []model.UserReaction `json:"userReactions"`
}

// ReactResult 评论表态结果
type ReactResult struct {
	Result  model.ReactionResult `json:"result"`
	Comment CommentReactions     `json:"comment"`
}

// ReportResult 举报结果
type ReportResult struct {
	ReportCount int  `json:"reportCount"`
	IsFlagged   bool `json:"isFlagged"`
}

type PostService interface {
	Create(ctx context.Context, in CreateInput) (*model.Post, error)
	List(ctx context.Context, in ListInput) (*ListResult, error)
	ListAdmin(ctx context.Context, page, limit int) (*AdminListResult, error)
	ToggleLike(ctx context.Context, id, callerID string) (*LikeResult, error)
	AddComment(ctx context.Context, id, name, message string) (*model.Post, error)
	React(ctx context.Context, id string, index int, callerID string, r model.Reaction) (*ReactResult, error)
	Report(ctx context.Context, id, callerID, reason string) (*ReportResult, error)
	// Moderate delete 动作返回 nil 帖子
	Moderate(ctx context.Context, id string, action model.ModerationAction) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteComment(ctx context.Context, id string, index int) (*model.Post, error)
	// Rescore 重新计算所有帖子的热度，返回修正的条数
	Rescore(ctx context.Context) (int, error)
}

type postService struct {
	repo     repository.PostRepository
	cleaner  *content.Cleaner
	notifier *notify.Notifier
	limits   Limits
	now      func() time.Time

	nameV    *security.StringValidator
	messageV *security.StringValidator
	commentV *security.StringValidator
	reasonV  *security.StringValidator
}

func NewPostService(repo repository.PostRepository, cleaner *content.Cleaner, notifier *notify.Notifier, limits Limits) PostService {
	return &postService{
		repo:     repo,
		cleaner:  cleaner,
		notifier: notifier,
		limits:   limits,
		now:      time.Now,
		nameV:    security.NewStringValidator("Name", limits.NameMax, false),
		messageV: security.NewStringValidator("Message", limits.MessageMax, true),
		commentV: security.NewStringValidator("Comment", limits.CommentMax, true),
		reasonV:  security.NewStringValidator("Report reason", limits.ReasonMax, true),
	}
}

func requireCaller(callerID string) error {
	if !identity.IsUsable(callerID) {
		return apperr.Validation("User identifier is required")
	}
	return nil
}

func (s *postService) Create(ctx context.Context, in CreateInput) (*model.Post, error) {
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.nameV, Value: in.Name},
		security.ValidationRule{Validator: s.messageV, Value: in.Message},
	); err != nil {
		return nil, err
	}

	name, message := strings.TrimSpace(in.Name), in.Message
	s.cleaner.CleanAll(ctx, &name, &message)
	if name == "" {
		name = model.DefaultName
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("Message cannot be empty")
	}

	post := &model.Post{
		Name:            name,
		Message:         message,
		OriginIP:        in.Origin.IP,
		OriginUserAgent: in.Origin.UserAgent,
		OriginSessionID: in.Origin.SessionID,
	}
	post.Recompute()

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperr.Internal("create post", err)
	}

	s.notifier.Notify(notify.NewPost, post)
	return post, nil
}

func (s *postService) List(ctx context.Context, in ListInput) (*ListResult, error) {
	p := utils.Pagination{Page: in.Page, Limit: in.Limit}
	offset, limit := p.GetPageOffset()

	posts, total, err := s.repo.List(ctx, repository.ListQuery{
		Offset: offset,
		Limit:  limit,
		Sort:   in.Sort,
	})
	if err != nil {
		return nil, apperr.Internal("list posts", err)
	}

	if identity.IsUsable(in.CallerID) {
		for i := range posts {
			liked := posts[i].HasLiked(in.CallerID)
			posts[i].UserLiked = &liked
		}
	}

	return &ListResult{
		Posts:       posts,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		HasMore:     p.HasMore(total),
		TotalPosts:  total,
	}, nil
}

func (s *postService) ListAdmin(ctx context.Context, page, limit int) (*AdminListResult, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, size := p.GetPageOffset()

	posts, total, err := s.repo.List(ctx, repository.ListQuery{
		Offset:        offset,
		Limit:         size,
		Sort:          repository.SortLatest,
		IncludeHidden: true,
	})
	if err != nil {
		return nil, apperr.Internal("list posts", err)
	}

	views := make([]model.AdminPost, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].AdminView())
	}
	return &AdminListResult{
		Posts:       views,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		HasMore:     p.HasMore(total),
		TotalPosts:  total,
	}, nil
}

// mutate 读取-修改-条件写入，版本冲突时重新读取再试
func (s *postService) mutate(ctx context.Context, id string, fn func(p *model.Post) error) (*model.Post, error) {
	for attempt := 1; attempt <= MaxCASAttempts; attempt++ {
		post, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("Post not found")
			}
			return nil, apperr.Internal("load post", err)
		}

		if err := fn(post); err != nil {
			return nil, err
		}
		post.Recompute()

		ok, err := s.repo.UpdateCAS(ctx, post)
		if err != nil {
			return nil, apperr.Internal("update post", err)
		}
		if ok {
			return post, nil
		}

		metrics.GetGlobalCollector().RecordCASRetry("post")
		logger.Log.Debug("post version conflict",
			zap.String("post_id", id),
			zap.Int("attempt", attempt),
		)
	}
	return nil, apperr.Internal("update post", ErrTooManyConflicts)
}

func (s *postService) ToggleLike(ctx context.Context, id, callerID string) (*LikeResult, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	var liked bool
	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		if p.IsHidden {
			return apperr.Validation("Cannot like hidden posts")
		}
		var err error
		liked, err = p.ToggleLike(callerID, s.limits.DeviceCheck)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := "removed"
	if liked {
		result = "added"
		s.notifier.Notify(notify.PostLike, map[string]interface{}{
			"postId": post.ID,
			"likes":  post.Likes,
		})
	}
	metrics.GetGlobalCollector().RecordReaction("like", result)
	return &LikeResult{Likes: post.Likes, Liked: liked}, nil
}

func (s *postService) AddComment(ctx context.Context, id, name, message string) (*model.Post, error) {
	if err := security.ValidateAll(
		security.ValidationRule{Validator: s.nameV, Value: name},
		security.ValidationRule{Validator: s.commentV, Value: message},
	); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	s.cleaner.CleanAll(ctx, &name, &message)
	if strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("Comment cannot be empty")
	}

	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		if p.IsHidden {
			return apperr.Validation("Cannot comment on hidden posts")
		}
		p.AddComment(name, message, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.NewComment, map[string]interface{}{
		"postId":  post.ID,
		"comment": post.Comments[len(post.Comments)-1],
	})
	return post, nil
}

func (s *postService) React(ctx context.Context, id string, index int, callerID string, r model.Reaction) (*ReactResult, error) {
	if !r.Valid() {
		return nil, apperr.Validation("Invalid reaction. Must be 'thumbsUp' or 'thumbsDown'")
	}
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	var out ReactResult
	_, err := s.mutate(ctx, id, func(p *model.Post) error {
		comment, err := p.CommentAt(index)
		if err != nil {
			return err
		}
		out.Result = comment.React(callerID, r)
		out.Comment = CommentReactions{
			ThumbsUp:      comment.ThumbsUp,
			ThumbsDown:    comment.ThumbsDown,
			UserReactions: append([]model.UserReaction{}, comment.UserReactions...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordReaction("comment_"+string(r), string(out.Result))
	return &out, nil
}

func (s *postService) Report(ctx context.Context, id, callerID, reason string) (*ReportResult, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("Report reason is required")
	}
	if err := s.reasonV.Validate(reason); err != nil {
		return nil, err
	}
	reason = s.cleaner.Clean(ctx, strings.TrimSpace(reason))

	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		return p.AddReport(callerID, reason, s.now())
	})
	if err != nil {
		return nil, err
	}

	if post.IsFlagged {
		logger.Log.Info("post flagged by reports",
			zap.String("post_id", post.ID),
			zap.Int("report_count", post.ReportCount),
		)
	}
	s.notifier.Notify(notify.PostReport, map[string]interface{}{
		"postId":      post.ID,
		"reportCount": post.ReportCount,
		"isFlagged":   post.IsFlagged,
	})
	return &ReportResult{ReportCount: post.ReportCount, IsFlagged: post.IsFlagged}, nil
}

func (s *postService) Moderate(ctx context.Context, id string, action model.ModerationAction) (*model.Post, error) {
	if action == model.ActionDelete {
		return nil, s.Delete(ctx, id)
	}
	post, err := s.mutate(ctx, id, func(p *model.Post) error {
		return p.Moderate(action)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("post moderated",
		zap.String("post_id", id),
		zap.String("action", string(action)),
	)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete post", err)
	}
	if !ok {
		return apperr.NotFound("Post not found")
	}
	logger.Log.Info("post deleted", zap.String("post_id", id))
	return nil
}

func (s *postService) DeleteComment(ctx context.Context, id string, index int) (*model.Post, error) {
	return s.mutate(ctx, id, func(p *model.Post) error {
		return p.DeleteComment(index)
	})
}

func (s *postService) Rescore(ctx context.Context) (int, error) {
	fixed := 0
	err := s.repo.ScanBatches(ctx, 100, func(posts []model.Post) error {
		for i := range posts {
			p := &posts[i]
			want := model.Score(len(p.LikedBy), len(p.Comments))
			if p.EngagementScore == want {
				continue
			}
			// 扫描后被并发修改的帖子已由那次写入重新计分，跳过即可
			ok, err := s.repo.UpdateScore(ctx, p.ID, p.Version, want)
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
		return fixed, apperr.Internal("rescore posts", err)
	}
	return fixed, nil
}
