package handler

import (
	"errors"
	"io"
	"strconv"
	"time"

	"freedom_wall/internal/domain/poll/service"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	service service.PollService
}

func NewPollHandler(s service.PollService) *PollHandler {
	return &PollHandler{service: s}
}

// CreatePollInput 创建投票输入
type CreatePollInput struct {
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Topics    []string   `json:"topics"`
	Name      string     `json:"name"`
}

// VoteInput optionIndex 与 optionIndexes 二选一
type VoteInput struct {
	OptionIndex   *int   `json:"optionIndex"`
	OptionIndexes []int  `json:"optionIndexes"`
	UserID        string `json:"userId"`
}

// StatusInput 启用/停用投票
type StatusInput struct {
	IsActive *bool `json:"isActive"`
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(c, apperr.Validation("Invalid request body"))
		return false
	}
	return true
}

// ListPolls 进行中的投票
// @Summary 获取进行中的投票
// @Tags Poll
// @Produce json
// @Param userId query string false "调用方标识，用于标注 userVoted"
// @Success 200 {array} model.Poll
// @Router /polls [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.service.ListActive(c.Request.Context(), identity.Resolve(c, c.Query("userId")))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, polls)
}

// Trending 热门投票
// @Summary 获取热门投票
// @Tags Poll
// @Produce json
// @Success 200 {array} model.Poll
// @Router /polls/trending [get]
func (h *PollHandler) Trending(c *gin.Context) {
	polls, err := h.service.Trending(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, polls)
}

// CreatePoll 发起投票
// @Summary 发起投票
// @Tags Poll
// @Accept json
// @Produce json
// @Param input body CreatePollInput true "投票内容"
// @Success 201 {object} model.Poll
// @Failure 400 {object} response.ErrorBody
// @Router /polls [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var input CreatePollInput
	if !bindJSON(c, &input) {
		return
	}

	poll, err := h.service.Create(c.Request.Context(), service.CreateInput{
		Question:  input.Question,
		Options:   input.Options,
		ExpiresAt: input.ExpiresAt,
		Topics:    input.Topics,
		Name:      input.Name,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, poll)
}

// Vote 投票
// @Summary 投票
// @Tags Poll
// @Accept json
// @Produce json
// @Param id path string true "投票ID"
// @Param input body VoteInput true "选项"
// @Success 200 {object} model.Poll
// @Failure 400 {object} response.ErrorBody
// @Router /polls/{id}/vote [post]
func (h *PollHandler) Vote(c *gin.Context) {
	var input VoteInput
	if !bindJSON(c, &input) {
		return
	}

	indexes := input.OptionIndexes
	if input.OptionIndex != nil {
		indexes = append([]int{*input.OptionIndex}, indexes...)
	}

	poll, err := h.service.Vote(c.Request.Context(), c.Param("id"), identity.Resolve(c, input.UserID), indexes)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, poll)
}

// Results 投票结果
// @Summary 获取投票结果
// @Tags Poll
// @Produce json
// @Param id path string true "投票ID"
// @Success 200 {object} model.Results
// @Router /polls/{id}/results [get]
func (h *PollHandler) Results(c *gin.Context) {
	res, err := h.service.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// ListAdmin 管理员投票列表
// @Summary 管理员获取全部投票
// @Tags Poll
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} service.AdminListResult
// @Router /polls/admin [get]
func (h *PollHandler) ListAdmin(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.service.ListAdmin(c.Request.Context(), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateStatus 启用/停用投票
// @Summary 启用/停用投票
// @Tags Poll
// @Accept json
// @Produce json
// @Param id path string true "投票ID"
// @Param input body StatusInput true "状态"
// @Success 200 {object} model.Poll
// @Router /polls/{id}/status [put]
func (h *PollHandler) UpdateStatus(c *gin.Context) {
	var input StatusInput
	if !bindJSON(c, &input) {
		return
	}
	if input.IsActive == nil {
		response.Fail(c, apperr.Validation("isActive is required"))
		return
	}

	poll, err := h.service.SetActive(c.Request.Context(), c.Param("id"), *input.IsActive)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, poll)
}

// DeletePoll 删除投票
// @Summary 删除投票
// @Tags Poll
// @Param id path string true "投票ID"
// @Success 200 {object} map[string]string
// @Router /polls/{id} [delete]
func (h *PollHandler) DeletePoll(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Poll deleted successfully")
}
