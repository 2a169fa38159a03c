package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freedom_wall/internal/pkg/config"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/response"
	"freedom_wall/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, class, key string) (security.Decision, error) {
	args := m.Called(ctx, class, key)
	return args.Get(0).(security.Decision), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitAllowsAndSetsHeaders(t *testing.T) {
	limiter := new(mockLimiter)
	reset := time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)
	limiter.On("Allow", mock.Anything, ClassPost, "post:Juan:1.2.3.4").
		Return(security.Decision{Allowed: true, Limit: 5, Remaining: 4, ResetAt: reset}, nil).Once()

	var seenBody string
	r := gin.New()
	r.POST("/posts", NewRateLimit(limiter, nil).Middleware(ClassPost, PostKey), func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		seenBody = string(raw)
		c.Status(http.StatusCreated)
	})

	body := `{"name":" Juan ","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, body, seenBody, "handler must see the full body")
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2024-01-01T00:01:00Z", w.Header().Get("X-RateLimit-Reset"))
	limiter.AssertExpectations(t)
}

func TestRateLimitRejects(t *testing.T) {
	limiter := new(mockLimiter)
	limiter.On("Allow", mock.Anything, ClassComment, "comment:anonymous:5.5.5.5").
		Return(security.Decision{Allowed: false, Limit: 10, RetryAfter: 42, ResetAt: time.Now()}, nil)

	r := gin.New()
	r.POST("/c", NewRateLimit(limiter, nil).Middleware(ClassComment, CommentKey), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/c", strings.NewReader(`{"message":"x"}`))
	req.Header.Set("X-Real-IP", "5.5.5.5")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded. Try again in 42 seconds.", body.Message)
	assert.Equal(t, "RATE_LIMITED", body.Error)
	assert.Equal(t, 42, body.RetryAfter)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsClosed(t *testing.T) {
	limiter := new(mockLimiter)
	limiter.On("Allow", mock.Anything, ClassRead, mock.Anything).
		Return(security.Decision{}, errors.New("redis down"))

	r := gin.New()
	r.GET("/r", NewRateLimit(limiter, nil).Middleware(ClassRead, ReadKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/r", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitAdminBypass(t *testing.T) {
	limiter := new(mockLimiter)
	auth := security.NewAdminAuthorizer("secret", nil)

	r := gin.New()
	r.POST("/x", NewRateLimit(limiter, auth).Middleware(ClassLike, LikeKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set("admin-key", "secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything, mock.Anything)
}

func TestKeyFunctions(t *testing.T) {
	newCtx := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "7.7.7.7")
	c := newCtx(req)

	assert.Equal(t, "like:u1", LikeKey(c, map[string]interface{}{"userId": "u1"}))
	assert.Equal(t, "like:7.7.7.7", LikeKey(c, nil))
	assert.Equal(t, "report:u2", ReportKey(c, map[string]interface{}{"userId": "u2"}))
	assert.Equal(t, "contact:a@b.co", ContactKey(c, map[string]interface{}{"email": "A@B.co"}))
	assert.Equal(t, "contact:7.7.7.7", ContactKey(c, nil))
	assert.Equal(t, "get:7.7.7.7", ReadKey(c, nil))
	assert.Equal(t, "post:anonymous:7.7.7.7", PostKey(c, map[string]interface{}{"name": 12}))
}

func TestAdminMiddleware(t *testing.T) {
	auth := security.NewAdminAuthorizer("secret", nil)
	r := gin.New()
	r.GET("/admin", AdminMiddleware(auth), func(c *gin.Context) {
		assert.True(t, IsAdmin(c))
		c.Status(http.StatusOK)
	})

	cases := map[string]struct {
		header, value string
		want          int
	}{
		"missing":     {"", "", http.StatusUnauthorized},
		"wrong":       {"admin-key", "nope", http.StatusForbidden},
		"admin-key":   {"admin-key", "secret", http.StatusOK},
		"x-admin-key": {"x-admin-key", "secret", http.StatusOK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAdminMiddlewareSessionFlag(t *testing.T) {
	sessions := identity.NewSessionManager(config.SessionConfig{Secret: "s"}, false)
	auth := security.NewAdminAuthorizer("secret", nil)

	r := gin.New()
	r.Use(SessionMiddleware(sessions))
	r.GET("/admin", AdminMiddleware(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.Save(rec, &identity.Session{ID: "abc", IsAdmin: true}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerMiddlewareRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
