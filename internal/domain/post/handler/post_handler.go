package handler

import (
	"errors"
	"io"
	"strconv"

	"freedom_wall/internal/domain/post/model"
	"freedom_wall/internal/domain/post/service"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// CreatePostInput 发帖输入
type CreatePostInput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CallerInput 只携带调用方标识的请求体
type CallerInput struct {
	UserID string `json:"userId"`
}

// CommentInput 评论输入
type CommentInput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ReactInput 评论表态输入
type ReactInput struct {
	Reaction string `json:"reaction" enums:"thumbsUp,thumbsDown"`
	UserID   string `json:"userId"`
}

// ReportInput 举报输入
type ReportInput struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// ModerateInput 管理操作输入
type ModerateInput struct {
	Action string `json:"action"`
}

// bindJSON 请求体可以为空，格式错误时返回 400
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

func commentIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("commentIndex"))
	if err != nil {
		response.Fail(c, apperr.Validation("Invalid comment index"))
		return 0, false
	}
	return idx, true
}

// ListPosts 帖子列表
// @Summary 获取帖子列表
// @Tags Post
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Param sort query string false "latest | oldest | popular"
// @Param userId query string false "调用方标识，用于标注 userLiked"
// @Success 200 {object} service.ListResult
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.service.List(c.Request.Context(), service.ListInput{
		Page:     page,
		Limit:    limit,
		Sort:     c.Query("sort"),
		CallerID: identity.Resolve(c, c.Query("userId")),
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// ListAdmin 管理员帖子列表（含隐藏帖子）
// @Summary 管理员获取全部帖子
// @Tags Post
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} service.AdminListResult
// @Router /posts/admin [get]
func (h *PostHandler) ListAdmin(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.service.ListAdmin(c.Request.Context(), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags Post
// @Accept json
// @Produce json
// @Param input body CreatePostInput true "帖子内容"
// @Success 201 {object} model.Post
// @Failure 400 {object} response.ErrorBody
// @Failure 429 {object} response.ErrorBody
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if !bindJSON(c, &input) {
		return
	}

	origin := model.Origin{
		IP:        identity.ClientIP(c.Request),
		UserAgent: c.Request.UserAgent(),
	}
	if s := identity.SessionFrom(c); s != nil {
		origin.SessionID = s.ID
	}

	post, err := h.service.Create(c.Request.Context(), service.CreateInput{
		Name:    input.Name,
		Message: input.Message,
		Origin:  origin,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, post)
}

// ToggleLike 点赞 / 取消点赞
// @Summary 切换点赞状态
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body CallerInput false "调用方标识"
// @Success 200 {object} service.LikeResult
// @Router /posts/{id}/like [post]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	var input CallerInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.service.ToggleLike(c.Request.Context(), c.Param("id"), identity.Resolve(c, input.UserID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// AddComment 评论
// @Summary 发表评论
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body CommentInput true "评论内容"
// @Success 200 {object} model.Post
// @Router /posts/{id}/comment [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}

	post, err := h.service.AddComment(c.Request.Context(), c.Param("id"), input.Name, input.Message)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, post)
}

// ReactToComment 评论表态
// @Summary 对评论点赞或点踩
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param commentIndex path int true "评论下标"
// @Param input body ReactInput true "表态"
// @Success 200 {object} service.ReactResult
// @Router /posts/{id}/comments/{commentIndex}/react [post]
func (h *PostHandler) ReactToComment(c *gin.Context) {
	idx, ok := commentIndex(c)
	if !ok {
		return
	}
	var input ReactInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.service.React(c.Request.Context(), c.Param("id"), idx,
		identity.Resolve(c, input.UserID), model.Reaction(input.Reaction))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// ReportPost 举报
// @Summary 举报帖子
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body ReportInput true "举报理由"
// @Success 200 {object} service.ReportResult
// @Router /posts/{id}/report [post]
func (h *PostHandler) ReportPost(c *gin.Context) {
	var input ReportInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.service.Report(c.Request.Context(), c.Param("id"), identity.Resolve(c, input.UserID), input.Reason)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// ModeratePost 管理操作（含删除）
// @Summary 审核帖子
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body ModerateInput true "hide | unhide | flag | unflag | delete"
// @Success 200 {object} model.AdminPost
// @Router /posts/{id}/moderate [post]
func (h *PostHandler) ModeratePost(c *gin.Context) {
	var input ModerateInput
	if !bindJSON(c, &input) {
		return
	}

	post, err := h.service.Moderate(c.Request.Context(), c.Param("id"), model.ModerationAction(input.Action))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if post == nil {
		response.Message(c, "Post deleted successfully")
		return
	}
	response.Success(c, post.AdminView())
}

// UpdateStatus 修改帖子状态
// @Summary 隐藏/显示/标记/取消标记
// @Tags Post
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param input body ModerateInput true "hide | unhide | flag | unflag"
// @Success 200 {object} model.AdminPost
// @Router /posts/{id}/status [put]
func (h *PostHandler) UpdateStatus(c *gin.Context) {
	var input ModerateInput
	if !bindJSON(c, &input) {
		return
	}
	action := model.ModerationAction(input.Action)
	if action == model.ActionDelete {
		response.Fail(c, apperr.Validation("Invalid action"))
		return
	}

	post, err := h.service.Moderate(c.Request.Context(), c.Param("id"), action)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, post.AdminView())
}

// DeletePost 删除帖子
// @Summary 删除帖子
// @Tags Post
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]string
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Post deleted successfully")
}

// DeleteComment 删除评论
// @Summary 按下标删除评论
// @Tags Post
// @Param id path string true "帖子ID"
// @Param commentIndex path int true "评论下标"
// @Success 200 {object} model.AdminPost
// @Router /posts/{id}/comment/{commentIndex} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	idx, ok := commentIndex(c)
	if !ok {
		return
	}

	post, err := h.service.DeleteComment(c.Request.Context(), c.Param("id"), idx)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, post.AdminView())
}
