package handler

import (
	"encoding/json"
	"time"

	"freedom_wall/internal/domain/announcement/service"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	service service.AnnouncementService
}

func NewAnnouncementHandler(s service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: s}
}

// CreateInput 创建公告
type CreateInput struct {
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Type       string     `json:"type"`
	Priority   int        `json:"priority"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	AdminNotes string     `json:"adminNotes"`
}

// UpdateInput 修改公告，expiresAt 传 null 表示取消过期时间
type UpdateInput struct {
	Title      *string         `json:"title"`
	Message    *string         `json:"message"`
	Type       *string         `json:"type"`
	Priority   *int            `json:"priority"`
	ExpiresAt  json.RawMessage `json:"expiresAt" swaggertype:"string"`
	IsActive   *bool           `json:"isActive"`
	AdminNotes *string         `json:"adminNotes"`
}

func (in UpdateInput) toService() (service.UpdateInput, error) {
	out := service.UpdateInput{
		Title:      in.Title,
		Message:    in.Message,
		Type:       in.Type,
		Priority:   in.Priority,
		IsActive:   in.IsActive,
		AdminNotes: in.AdminNotes,
	}
	switch {
	case len(in.ExpiresAt) == 0:
	case string(in.ExpiresAt) == "null":
		out.ClearExpiry = true
	default:
		var t time.Time
		if err := json.Unmarshal(in.ExpiresAt, &t); err != nil {
			return out, apperr.Validation("Invalid expiresAt")
		}
		out.ExpiresAt = &t
	}
	return out, nil
}

// ListVisible 公开公告列表
// @Summary 获取当前生效的公告
// @Tags Announcement
// @Produce json
// @Success 200 {array} model.Announcement
// @Router /announcements [get]
func (h *AnnouncementHandler) ListVisible(c *gin.Context) {
	list, err := h.service.ListVisible(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// ListAll 全部公告
// @Summary 管理员获取全部公告
// @Tags Announcement
// @Produce json
// @Success 200 {array} model.Announcement
// @Router /announcements/admin [get]
func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Create 发布公告
// @Summary 发布公告
// @Tags Announcement
// @Accept json
// @Produce json
// @Param input body CreateInput true "公告"
// @Success 201 {object} model.Announcement
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	a, err := h.service.Create(c.Request.Context(), service.CreateInput{
		Title:      input.Title,
		Message:    input.Message,
		Type:       input.Type,
		Priority:   input.Priority,
		ExpiresAt:  input.ExpiresAt,
		AdminNotes: input.AdminNotes,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, a)
}

// Update 修改公告
// @Summary 修改公告
// @Tags Announcement
// @Accept json
// @Produce json
// @Param id path string true "公告ID"
// @Param input body UpdateInput true "修改内容"
// @Success 200 {object} model.Announcement
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}
	in, err := input.toService()
	if err != nil {
		response.Fail(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

// Delete 删除公告
// @Summary 删除公告
// @Tags Announcement
// @Param id path string true "公告ID"
// @Success 200 {object} map[string]string
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Announcement deleted successfully")
}
