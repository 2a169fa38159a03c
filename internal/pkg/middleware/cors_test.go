package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"freedom_wall/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOriginPolicy(t *testing.T) {
	p := NewOriginPolicy(config.CORSConfig{
		AllowedOrigins: []string{"https://wall.example.com/"},
		FrontendURL:    "https://front.example.com",
		AllowVercel:    true,
	})

	cases := map[string]bool{
		"":                               true,
		"http://localhost:5173":          true,
		"https://wall.example.com":       true,
		"https://front.example.com":      true,
		"https://preview-1.vercel.app":   true,
		"http://preview-1.vercel.app":    false,
		"https://evil.example.com":       false,
		"https://vercel.app.evil.com":    false,
		"https://front.example.com.evil": false,
	}
	for origin, want := range cases {
		assert.Equal(t, want, p.Allowed(origin), origin)
	}

	strict := NewOriginPolicy(config.CORSConfig{})
	assert.False(t, strict.Allowed("https://preview-1.vercel.app"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(NewOriginPolicy(config.CORSConfig{FrontendURL: "https://front.example.com"})))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://front.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://front.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
