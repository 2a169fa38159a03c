package handler

import (
	"net/http"

	"freedom_wall/internal/domain/admin/service"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionStore 写回签名会话
type SessionStore interface {
	Save(w http.ResponseWriter, s *identity.Session) error
}

type AdminHandler struct {
	service  service.AdminService
	sessions SessionStore
}

// NewAdminHandler sessions 为 nil 时不写会话标记
func NewAdminHandler(s service.AdminService, sessions SessionStore) *AdminHandler {
	return &AdminHandler{service: s, sessions: sessions}
}

// LoginInput 管理员登录
type LoginInput struct {
	AdminKey string `json:"adminKey"`
}

func (h *AdminHandler) markSession(c *gin.Context, isAdmin bool) {
	s := identity.SessionFrom(c)
	if s == nil {
		s = &identity.Session{ID: identity.NewSessionID()}
	}
	updated := &identity.Session{ID: s.ID, IsAdmin: isAdmin}
	identity.SetSession(c, updated)
	if h.sessions == nil {
		return
	}
	if err := h.sessions.Save(c.Writer, updated); err != nil {
		logger.Log.Warn("save admin session failed", zap.Error(err))
	}
}

// Login 管理员登录
// @Summary 管理员登录
// @Description 校验共享密钥，返回管理员 JWT 并在会话中标记 isAdmin
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body LoginInput true "管理员密钥"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} response.ErrorBody
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	sessionID := ""
	if s := identity.SessionFrom(c); s != nil {
		sessionID = s.ID
	}
	res, err := h.service.Login(c.Request.Context(), input.AdminKey, sessionID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.markSession(c, true)
	response.Success(c, res)
}

// Logout 清除会话中的管理员标记
// @Summary 管理员退出
// @Tags Admin
// @Success 200 {object} map[string]string
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	h.markSession(c, false)
	response.Message(c, "Logged out")
}

// Stats 后台概览
// @Summary 统计数据
// @Tags Admin
// @Produce json
// @Success 200 {object} service.Stats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, st)
}

// Rescore 重新计算热度分
// @Summary 重算热度分
// @Tags Admin
// @Produce json
// @Success 200 {object} service.RescoreResult
// @Router /admin/rescore [post]
func (h *AdminHandler) Rescore(c *gin.Context) {
	res, err := h.service.Rescore(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}
