package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freedom_wall/internal/domain/post/model"
	"freedom_wall/internal/domain/post/service"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, in service.CreateInput) (*model.Post, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockService) List(ctx context.Context, in service.ListInput) (*service.ListResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

func (m *mockService) ListAdmin(ctx context.Context, page, limit int) (*service.AdminListResult, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminListResult), args.Error(1)
}

func (m *mockService) ToggleLike(ctx context.Context, id, callerID string) (*service.LikeResult, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LikeResult), args.Error(1)
}

func (m *mockService) AddComment(ctx context.Context, id, name, message string) (*model.Post, error) {
	args := m.Called(ctx, id, name, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockService) React(ctx context.Context, id string, index int, callerID string, r model.Reaction) (*service.ReactResult, error) {
	args := m.Called(ctx, id, index, callerID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReactResult), args.Error(1)
}

func (m *mockService) Report(ctx context.Context, id, callerID, reason string) (*service.ReportResult, error) {
	args := m.Called(ctx, id, callerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportResult), args.Error(1)
}

func (m *mockService) Moderate(ctx context.Context, id string, action model.ModerationAction) (*model.Post, error) {
	args := m.Called(ctx, id, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) DeleteComment(ctx context.Context, id string, index int) (*model.Post, error) {
	args := m.Called(ctx, id, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockService) Rescore(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func setupRouter(svc service.PostService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPostHandler(svc)
	r := gin.New()
	g := r.Group("/posts")
	g.GET("", h.ListPosts)
	g.POST("", h.CreatePost)
	g.POST("/:id/like", h.ToggleLike)
	g.POST("/:id/comment", h.AddComment)
	g.POST("/:id/comments/:commentIndex/react", h.ReactToComment)
	g.POST("/:id/report", h.ReportPost)
	g.POST("/:id/moderate", h.ModeratePost)
	g.PUT("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.DeletePost)
	g.DELETE("/:id/comment/:commentIndex", h.DeleteComment)
	return r
}

func do(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePost(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateInput) bool {
			return in.Message == "hi" && in.Origin.IP == "9.9.9.9" && in.Origin.UserAgent == "ua"
		})).Return(&model.Post{Name: model.DefaultName, Message: "hi"}, nil)

		w := do(setupRouter(svc), http.MethodPost, "/posts", `{"message":"hi"}`,
			map[string]string{"X-Forwarded-For": "9.9.9.9", "User-Agent": "ua"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"hi"`)
		assert.NotContains(t, w.Body.String(), "9.9.9.9")
		svc.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, apperr.Validation("Message is required"))

		w := do(setupRouter(svc), http.MethodPost, "/posts", `{}`, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Message is required", body.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(mockService)
		w := do(setupRouter(svc), http.MethodPost, "/posts", `{"message":`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestToggleLikeResolvesCaller(t *testing.T) {
	svc := new(mockService)
	svc.On("ToggleLike", mock.Anything, "p1", "body-user").Return(&service.LikeResult{Likes: 1, Liked: true}, nil).Once()
	svc.On("ToggleLike", mock.Anything, "p1", "header-user").Return(&service.LikeResult{Likes: 0, Liked: false}, nil).Once()
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/posts/p1/like", `{"userId":"body-user"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":1,"liked":true}`, w.Body.String())

	w = do(r, http.MethodPost, "/posts/p1/like", "", map[string]string{"x-user-id": "header-user"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"likes":0,"liked":false}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestToggleLikeNotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("ToggleLike", mock.Anything, "missing", mock.Anything).Return(nil, apperr.NotFound("Post not found"))

	w := do(setupRouter(svc), http.MethodPost, "/posts/missing/like", `{"userId":"a"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReactCommentIndex(t *testing.T) {
	svc := new(mockService)
	svc.On("React", mock.Anything, "p1", 2, "u", model.ReactionUp).
		Return(&service.ReactResult{Result: model.ReactionAdded, Comment: service.CommentReactions{ThumbsUp: 1}}, nil)
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/posts/p1/comments/2/react", `{"reaction":"thumbsUp","userId":"u"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"added"`)

	w = do(r, http.MethodPost, "/posts/p1/comments/abc/react", `{"reaction":"thumbsUp","userId":"u"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "React", 1)
}

func TestReactThumbsDown(t *testing.T) {
	svc := new(mockService)
	svc.On("React", mock.Anything, "p1", 0, "u", model.ReactionDown).
		Return(&service.ReactResult{Result: model.ReactionAdded, Comment: service.CommentReactions{ThumbsDown: 1}}, nil)

	w := do(setupRouter(svc), http.MethodPost, "/posts/p1/comments/0/react", `{"reaction":"thumbsDown","userId":"u"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"thumbsDown":1`)
	svc.AssertExpectations(t)
}

func TestReportDuplicate(t *testing.T) {
	svc := new(mockService)
	svc.On("Report", mock.Anything, "p1", "u", "spam").
		Return(nil, apperr.Conflict("You have already reported this post", "ALREADY_REPORTED"))

	w := do(setupRouter(svc), http.MethodPost, "/posts/p1/report", `{"userId":"u","reason":"spam"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ALREADY_REPORTED", body.Error)
}

func TestModerateAndStatus(t *testing.T) {
	svc := new(mockService)
	hidden := &model.Post{IsHidden: true, OriginIP: "1.1.1.1"}
	svc.On("Moderate", mock.Anything, "p1", model.ActionHide).Return(hidden, nil)
	svc.On("Moderate", mock.Anything, "p1", model.ActionDelete).Return(nil, nil)
	r := setupRouter(svc)

	w := do(r, http.MethodPost, "/posts/p1/moderate", `{"action":"hide"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isHidden":true`)
	assert.Contains(t, w.Body.String(), "1.1.1.1")

	w = do(r, http.MethodPost, "/posts/p1/moderate", `{"action":"delete"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post deleted successfully")

	w = do(r, http.MethodPut, "/posts/p1/status", `{"action":"delete"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/posts/p1/status", `{"action":"hide"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteComment(t *testing.T) {
	svc := new(mockService)
	svc.On("DeleteComment", mock.Anything, "p1", 0).Return(&model.Post{}, nil)
	svc.On("DeleteComment", mock.Anything, "p1", 7).Return(nil, apperr.NotFound("Comment not found"))
	r := setupRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/posts/p1/comment/0", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/posts/p1/comment/7", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/posts/p1/comment/x", "", nil).Code)
}

func TestListPostsPassesQuery(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, service.ListInput{Page: 2, Limit: 5, Sort: "popular", CallerID: "u1"}).
		Return(&service.ListResult{Posts: []model.Post{}, CurrentPage: 2}, nil)

	w := do(setupRouter(svc), http.MethodGet, "/posts?page=2&limit=5&sort=popular&userId=u1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"currentPage":2`)
	svc.AssertExpectations(t)
}
