package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"freedom_wall/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

const sessionContextKey = "session"

// Session 签名 cookie 中保存的会话
type Session struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
}

// SessionManager 基于 securecookie 的无状态会话
type SessionManager struct {
	codec  *securecookie.SecureCookie
	name   string
	maxAge time.Duration
	secure bool
}

// NewSessionManager secure 为 true 时仅通过 HTTPS 发送 cookie
func NewSessionManager(cfg config.SessionConfig, secure bool) *SessionManager {
	hashKey := sha256.Sum256([]byte(cfg.Secret))
	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	name := cfg.CookieName
	if name == "" {
		name = "freedomwall_session"
	}

	codec := securecookie.New(hashKey[:], nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(maxAge.Seconds()))

	return &SessionManager{
		codec:  codec,
		name:   name,
		maxAge: maxAge,
		secure: secure,
	}
}

// NewSessionID 32 字节随机数的十六进制表示
func NewSessionID() string {
	return hex.EncodeToString(securecookie.GenerateRandomKey(32))
}

// Load 读取并校验 cookie，签名无效或过期时返回 false
func (m *SessionManager) Load(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(m.name)
	if err != nil {
		return nil, false
	}
	var s Session
	if err := m.codec.Decode(m.name, cookie.Value, &s); err != nil || s.ID == "" {
		return nil, false
	}
	return &s, true
}

// Save 写入签名 cookie
func (m *SessionManager) Save(w http.ResponseWriter, s *Session) error {
	encoded, err := m.codec.Encode(m.name, s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Ensure 读取会话，不存在时创建并下发
func (m *SessionManager) Ensure(c *gin.Context) (*Session, error) {
	if s, ok := m.Load(c.Request); ok {
		return s, nil
	}
	s := &Session{ID: NewSessionID()}
	if err := m.Save(c.Writer, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSession 将会话放入请求上下文
func SetSession(c *gin.Context, s *Session) {
	c.Set(sessionContextKey, s)
}

// SessionFrom 从请求上下文读取会话
func SessionFrom(c *gin.Context) *Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
