package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"freedom_wall/internal/domain/post/model"
	"freedom_wall/internal/domain/post/repository"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeRepo 内存版仓库，按版本号做条件写入
type fakeRepo struct {
	mu     sync.Mutex
	posts  map[string]model.Post
	seq    int
	casErr error
	// conflicts 前 N 次条件写入直接返回冲突
	conflicts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]model.Post)}
}

func clone(p model.Post) model.Post {
	out := p
	out.LikedBy = append([]string{}, p.LikedBy...)
	out.Reports = append([]model.Report{}, p.Reports...)
	out.Comments = make([]model.Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.UserReactions = append([]model.UserReaction{}, c.UserReactions...)
		out.Comments[i] = c
	}
	out.UserLiked = nil
	return out
}

func (r *fakeRepo) Create(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	p.Version = 1
	p.CreatedAt = time.Unix(int64(r.seq), 0)
	r.posts[p.ID] = clone(*p)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *fakeRepo) List(_ context.Context, q repository.ListQuery) ([]model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Post
	for _, p := range r.posts {
		if p.IsHidden && !q.IncludeHidden {
			continue
		}
		all = append(all, clone(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if q.Offset >= len(all) {
		return []model.Post{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (r *fakeRepo) UpdateCAS(_ context.Context, p *model.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.casErr != nil {
		return false, r.casErr
	}
	if r.conflicts > 0 {
		r.conflicts--
		return false, nil
	}
	cur, ok := r.posts[p.ID]
	if !ok || cur.Version != p.Version {
		return false, nil
	}
	p.Version++
	r.posts[p.ID] = clone(*p)
	return true, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.posts[id]
	delete(r.posts, id)
	return ok, nil
}

func (r *fakeRepo) ScanBatches(_ context.Context, size int, fn func([]model.Post) error) error {
	r.mu.Lock()
	var all []model.Post
	for _, p := range r.posts {
		all = append(all, clone(p))
	}
	r.mu.Unlock()
	for i := 0; i < len(all); i += size {
		end := i + size
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepo) UpdateScore(_ context.Context, id string, version int64, score int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.Version != version {
		return false, nil
	}
	p.EngagementScore = score
	r.posts[id] = p
	return true, nil
}

type mockWords struct {
	mock.Mock
}

func (m *mockWords) ActiveWords(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

var testLimits = Limits{NameMax: 100, MessageMax: 1000, CommentMax: 200, ReasonMax: 200}

func newService(repo repository.PostRepository) PostService {
	cleaner := content.NewCleaner(security.NewSanitizer(security.SanitizerConfig{EscapeHTML: true}), nil)
	return NewPostService(repo, cleaner, nil, testLimits)
}

func seed(t *testing.T, svc PostService) *model.Post {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateInput{Message: "hello"})
	require.NoError(t, err)
	return p
}

func TestEndToEndScenario(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()

	p := seed(t, svc)
	assert.Equal(t, 0, p.Likes)
	assert.Equal(t, 0, p.EngagementScore)
	assert.Equal(t, model.DefaultName, p.Name)

	res, err := svc.ToggleLike(ctx, p.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Likes: 1, Liked: true}, *res)

	res, err = svc.ToggleLike(ctx, p.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Likes: 0, Liked: false}, *res)

	updated, err := svc.AddComment(ctx, p.ID, "", "nice")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.EngagementScore)
	assert.Equal(t, model.DefaultName, updated.Comments[0].Name)
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	cases := map[string]struct {
		in   CreateInput
		want string
	}{
		"empty":      {CreateInput{Message: ""}, "Message is required"},
		"whitespace": {CreateInput{Message: "   "}, "Message cannot be empty"},
		"too long":   {CreateInput{Message: strings.Repeat("a", 1001)}, "Message must be 1000 characters or less"},
		"name long":  {CreateInput{Name: strings.Repeat("n", 101), Message: "x"}, "Name must be 100 characters or less"},
		"script":     {CreateInput{Message: "<script>alert(1)</script>"}, "Content contains suspicious patterns"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, tc.want, apperr.As(err).Message)
		})
	}
	assert.Empty(t, repo.posts)
}

func TestCreateSanitizesAndKeepsOrigin(t *testing.T) {
	repo := newFakeRepo()
	words := new(mockWords)
	words.On("ActiveWords", mock.Anything).Return([]string{"bad"}, nil).Once()
	cleaner := content.NewCleaner(security.NewSanitizer(security.SanitizerConfig{EscapeHTML: true}), words)
	svc := NewPostService(repo, cleaner, nil, testLimits)

	p, err := svc.Create(context.Background(), CreateInput{
		Name:    " Juan ",
		Message: "a bad <b>day</b>",
		Origin:  model.Origin{IP: "1.2.3.4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Juan", p.Name)
	assert.Equal(t, "a *** &lt;b&gt;day&lt;/b&gt;", p.Message)
	assert.Equal(t, "1.2.3.4", repo.posts[p.ID].OriginIP)
	words.AssertExpectations(t)
}

func TestCallerRequired(t *testing.T) {
	svc := newService(newFakeRepo())
	p := seed(t, svc)
	ctx := context.Background()

	for _, caller := range []string{"", "  ", "unknown"} {
		_, err := svc.ToggleLike(ctx, p.ID, caller)
		assert.True(t, apperr.Is(err, apperr.KindValidation))

		_, err = svc.Report(ctx, p.ID, caller, "r")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	}
}

func TestNotFound(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "nope", "A")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.AddComment(ctx, "nope", "", "x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, "nope"), apperr.KindNotFound))
}

func TestHiddenPostRejectsEngagement(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	p := seed(t, svc)

	_, err := svc.Moderate(ctx, p.ID, model.ActionHide)
	require.NoError(t, err)

	_, err = svc.ToggleLike(ctx, p.ID, "A")
	assert.Equal(t, "Cannot like hidden posts", apperr.As(err).Message)
	_, err = svc.AddComment(ctx, p.ID, "", "x")
	assert.Equal(t, "Cannot comment on hidden posts", apperr.As(err).Message)

	list, err := svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Empty(t, list.Posts)

	admin, err := svc.ListAdmin(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, admin.Posts, 1)
}

func TestReact(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	p := seed(t, svc)
	_, err := svc.AddComment(ctx, p.ID, "c", "first")
	require.NoError(t, err)

	res, err := svc.React(ctx, p.ID, 0, "A", model.ReactionUp)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionAdded, res.Result)
	assert.Equal(t, 1, res.Comment.ThumbsUp)

	res, err = svc.React(ctx, p.ID, 0, "A", model.ReactionDown)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionChanged, res.Result)
	assert.Equal(t, 0, res.Comment.ThumbsUp)
	assert.Equal(t, 1, res.Comment.ThumbsDown)

	res, err = svc.React(ctx, p.ID, 0, "A", model.ReactionDown)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionRemoved, res.Result)
	assert.Empty(t, res.Comment.UserReactions)

	_, err = svc.React(ctx, p.ID, 5, "A", model.ReactionUp)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.React(ctx, p.ID, 0, "A", "sideways")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestReportFlow(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	p := seed(t, svc)

	var res *ReportResult
	var err error
	for _, caller := range []string{"A", "B", "C"} {
		res, err = svc.Report(ctx, p.ID, caller, "spam")
		require.NoError(t, err)
	}
	assert.Equal(t, ReportResult{ReportCount: 3, IsFlagged: true}, *res)

	_, err = svc.Report(ctx, p.ID, "A", "again")
	require.Error(t, err)
	assert.Equal(t, "You have already reported this post", apperr.As(err).Message)

	post, err := svc.Moderate(ctx, p.ID, model.ActionUnflag)
	require.NoError(t, err)
	assert.False(t, post.IsFlagged)
	assert.Equal(t, 0, post.ReportCount)

	res, err = svc.Report(ctx, p.ID, "A", "again")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ReportCount)
}

func TestReportRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()
	p := seed(t, svc)

	for _, reason := range []string{"", "   "} {
		_, err := svc.Report(ctx, p.ID, "A", reason)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, "Report reason is required", apperr.As(err).Message)
	}
	assert.Equal(t, 0, repo.posts[p.ID].ReportCount)

	_, err := svc.Report(ctx, p.ID, "A", strings.Repeat("x", testLimits.ReasonMax+1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestModerateDeleteAndComments(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	p := seed(t, svc)
	_, _ = svc.AddComment(ctx, p.ID, "", "one")
	_, _ = svc.AddComment(ctx, p.ID, "", "two")

	post, err := svc.DeleteComment(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "two", post.Comments[0].Message)
	assert.Equal(t, 2, post.EngagementScore)

	_, err = svc.DeleteComment(ctx, p.ID, 3)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Moderate(ctx, p.ID, "explode")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	deleted, err := svc.Moderate(ctx, p.ID, model.ActionDelete)
	require.NoError(t, err)
	assert.Nil(t, deleted)
	_, err = svc.ToggleLike(ctx, p.ID, "A")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListAnnotatesUserLiked(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	liked := seed(t, svc)
	seed(t, svc)
	_, err := svc.ToggleLike(ctx, liked.ID, "A")
	require.NoError(t, err)

	res, err := svc.List(ctx, ListInput{Page: 1, Limit: 1, CallerID: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalPosts)
	assert.Equal(t, 2, res.TotalPages)
	assert.True(t, res.HasMore)
	assert.Equal(t, 1, res.CurrentPage)
	require.Len(t, res.Posts, 1)
	require.NotNil(t, res.Posts[0].UserLiked)
	assert.False(t, *res.Posts[0].UserLiked)

	res, err = svc.List(ctx, ListInput{Page: 2, Limit: 1, CallerID: "A"})
	require.NoError(t, err)
	assert.True(t, *res.Posts[0].UserLiked)
	assert.False(t, res.HasMore)

	res, err = svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Nil(t, res.Posts[0].UserLiked)
}

func TestConcurrentLikesLoseNothing(t *testing.T) {
	svc := newService(newFakeRepo())
	ctx := context.Background()
	p := seed(t, svc)

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// 冲突重试次数有限，失败的调用方重新提交
			for {
				_, err := svc.ToggleLike(ctx, p.ID, fmt.Sprintf("caller-%d", i))
				if err == nil || !errors.Is(err, ErrTooManyConflicts) {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.ListAdmin(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, callers, list.Posts[0].Likes)
	assert.Len(t, list.Posts[0].LikedBy, callers)
}

func TestCASRetriesThenGivesUp(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()
	p := seed(t, svc)

	repo.conflicts = MaxCASAttempts - 1
	res, err := svc.ToggleLike(ctx, p.ID, "A")
	require.NoError(t, err)
	assert.True(t, res.Liked)

	repo.conflicts = MaxCASAttempts
	_, err = svc.ToggleLike(ctx, p.ID, "B")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.ErrorIs(t, err, ErrTooManyConflicts)

	got, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, []string{"A"}, got.LikedBy)
}

func TestPersistenceFailureIsInternal(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	p := seed(t, svc)

	repo.casErr = errors.New("disk full")
	_, err := svc.ToggleLike(context.Background(), p.ID, "A")
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	got, _ := repo.GetByID(context.Background(), p.ID)
	assert.Empty(t, got.LikedBy)
}

func TestRescoreFixesDrift(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()
	a := seed(t, svc)
	seed(t, svc)
	_, err := svc.ToggleLike(ctx, a.ID, "A")
	require.NoError(t, err)

	ok, err := repo.UpdateScore(ctx, a.ID, repo.posts[a.ID].Version, 99)
	require.NoError(t, err)
	require.True(t, ok)

	fixed, err := svc.Rescore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 1, repo.posts[a.ID].EngagementScore)
}
