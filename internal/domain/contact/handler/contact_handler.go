package handler

import (
	"freedom_wall/internal/domain/contact/model"
	"freedom_wall/internal/domain/contact/service"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	service service.ContactService
}

func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// SubmitInput 联系表单
type SubmitInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// StatusInput 处理状态
type StatusInput struct {
	Status     *string `json:"status"`
	IsRead     *bool   `json:"isRead"`
	AdminNotes *string `json:"adminNotes"`
}

// ContactResult 带提示信息的联系消息
type ContactResult struct {
	Message string         `json:"message"`
	Contact *model.Contact `json:"contact"`
}

// Submit 提交联系表单
// @Summary 提交联系表单
// @Tags Contact
// @Accept json
// @Produce json
// @Param input body SubmitInput true "联系内容"
// @Success 201 {object} ContactResult
// @Failure 429 {object} response.ErrorBody
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	contact, err := h.service.Submit(c.Request.Context(), service.SubmitInput{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, ContactResult{Message: "Message sent successfully", Contact: contact})
}

// List 联系消息列表
// @Summary 管理员获取联系消息
// @Tags Contact
// @Produce json
// @Param status query string false "new | in-progress | resolved | archived"
// @Success 200 {array} model.Contact
// @Router /contact/admin [get]
func (h *ContactHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// UpdateStatus 更新处理状态
// @Summary 更新联系消息状态
// @Tags Contact
// @Accept json
// @Produce json
// @Param id path string true "消息ID"
// @Param input body StatusInput true "状态"
// @Success 200 {object} ContactResult
// @Router /contact/{id}/status [put]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	contact, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), service.StatusInput{
		Status:     input.Status,
		IsRead:     input.IsRead,
		AdminNotes: input.AdminNotes,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, ContactResult{Message: "Contact status updated successfully", Contact: contact})
}

// Delete 删除联系消息
// @Summary 删除联系消息
// @Tags Contact
// @Param id path string true "消息ID"
// @Success 200 {object} map[string]string
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Contact message deleted successfully")
}
