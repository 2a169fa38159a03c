package handler

import (
	"freedom_wall/internal/domain/bannedword/service"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
)

type BannedWordHandler struct {
	service service.BannedWordService
}

func NewBannedWordHandler(s service.BannedWordService) *BannedWordHandler {
	return &BannedWordHandler{service: s}
}

// CreateInput 添加屏蔽词
type CreateInput struct {
	Word    string `json:"word"`
	Reason  string `json:"reason"`
	AddedBy string `json:"addedBy"`
}

// UpdateInput 修改屏蔽词，缺省字段不变
type UpdateInput struct {
	Word     *string `json:"word"`
	Reason   *string `json:"reason"`
	IsActive *bool   `json:"isActive"`
}

// ActiveWords 公开的屏蔽词列表，前端用于本地过滤
// @Summary 获取生效的屏蔽词
// @Tags BannedWord
// @Produce json
// @Success 200 {array} string
// @Router /banned-words [get]
func (h *BannedWordHandler) ActiveWords(c *gin.Context) {
	words, err := h.service.ActiveWords(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, words)
}

// List 全部屏蔽词
// @Summary 管理员获取全部屏蔽词
// @Tags BannedWord
// @Produce json
// @Success 200 {array} model.BannedWord
// @Router /banned-words/admin [get]
func (h *BannedWordHandler) List(c *gin.Context) {
	words, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, words)
}

// Create 添加屏蔽词
// @Summary 添加屏蔽词
// @Tags BannedWord
// @Accept json
// @Produce json
// @Param input body CreateInput true "屏蔽词"
// @Success 201 {object} model.BannedWord
// @Router /banned-words [post]
func (h *BannedWordHandler) Create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	bw, err := h.service.Create(c.Request.Context(), input.Word, input.Reason, input.AddedBy)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, bw)
}

// Update 修改屏蔽词
// @Summary 修改屏蔽词
// @Tags BannedWord
// @Accept json
// @Produce json
// @Param id path string true "屏蔽词ID"
// @Param input body UpdateInput true "修改内容"
// @Success 200 {object} model.BannedWord
// @Router /banned-words/{id} [put]
func (h *BannedWordHandler) Update(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return
	}

	bw, err := h.service.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Word:     input.Word,
		Reason:   input.Reason,
		IsActive: input.IsActive,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, bw)
}

// Delete 删除屏蔽词
// @Summary 删除屏蔽词
// @Tags BannedWord
// @Param id path string true "屏蔽词ID"
// @Success 200 {object} map[string]string
// @Router /banned-words/{id} [delete]
func (h *BannedWordHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Banned word deleted successfully")
}
