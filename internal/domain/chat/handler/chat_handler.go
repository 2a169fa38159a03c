package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"freedom_wall/internal/domain/chat/service"
	"freedom_wall/internal/pkg/identity"
	"freedom_wall/internal/pkg/realtime"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 聊天室 websocket 事件类型
const (
	EventChat        = "chat"
	EventChatMessage = "chatMessage"
	EventError       = "error"
)

// Room 聊天室所依赖的 websocket hub 能力
type Room interface {
	Broadcast(msg realtime.Message) error
	ClientCount() int
	ServeWS(w http.ResponseWriter, r *http.Request, callerID string)
}

// Replier 向单个连接回写消息
type Replier interface {
	Send(msg realtime.Message)
}

type ChatHandler struct {
	service service.ChatService
	room    Room
}

func NewChatHandler(s service.ChatService, room Room) *ChatHandler {
	return &ChatHandler{service: s, room: room}
}

// PenNameInput 笔名检查
type PenNameInput struct {
	PenName string `json:"penName"`
}

// OnlineCount 在线人数
type OnlineCount struct {
	OnlineCount int `json:"onlineCount"`
}

// inbound 客户端发来的聊天消息
type inbound struct {
	Type    string `json:"type"`
	PenName string `json:"penName"`
	Content string `json:"content"`
}

// CheckPenName 检查笔名是否可用
// @Summary 检查笔名
// @Tags Chat
// @Accept json
// @Produce json
// @Param input body PenNameInput true "笔名"
// @Success 200 {object} service.Availability
// @Failure 400 {object} service.Availability
// @Router /chat/check-penname [post]
func (h *ChatHandler) CheckPenName(c *gin.Context) {
	var input PenNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, service.Availability{Message: "Pen name is required"})
		return
	}

	res, err := h.service.CheckPenName(c.Request.Context(), input.PenName)
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindValidation || e.Kind == apperr.KindConflict {
			c.JSON(http.StatusBadRequest, service.Availability{Message: e.Message})
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

// History 最近聊天记录
// @Summary 聊天记录
// @Tags Chat
// @Produce json
// @Param limit query int false "条数，最多 50"
// @Success 200 {array} model.ChatMessage
// @Router /chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// OnlineCount 当前 websocket 连接数
// @Summary 在线人数
// @Tags Chat
// @Produce json
// @Success 200 {object} OnlineCount
// @Router /chat/online-count [get]
func (h *ChatHandler) OnlineCount(c *gin.Context) {
	response.Success(c, OnlineCount{OnlineCount: h.room.ClientCount()})
}

// ServeWS 升级为 websocket 连接
// @Summary websocket 入口
// @Tags Chat
// @Router /ws [get]
func (h *ChatHandler) ServeWS(c *gin.Context) {
	h.room.ServeWS(c.Writer, c.Request, identity.Resolve(c, ""))
}

// HandleSocket 处理 websocket 上行消息，非 chat 类型忽略
func (h *ChatHandler) HandleSocket(ctx context.Context, client *realtime.Client, raw []byte) {
	h.handle(ctx, client, raw)
}

func (h *ChatHandler) handle(ctx context.Context, client Replier, raw []byte) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		client.Send(realtime.Message{Type: EventError, Data: gin.H{"message": "Invalid message format"}})
		return
	}
	if in.Type != EventChat {
		return
	}

	msg, err := h.service.Send(ctx, in.PenName, in.Content)
	if err != nil {
		e := apperr.As(err)
		text := e.Message
		if e.Kind == apperr.KindInternal {
			logger.Log.Error("chat message failed", zap.Error(err))
			text = "Failed to send message"
		}
		client.Send(realtime.Message{Type: EventError, Data: gin.H{"message": text}})
		return
	}

	if err := h.room.Broadcast(realtime.Message{Type: EventChatMessage, Data: msg}); err != nil {
		logger.Log.Warn("chat broadcast failed", zap.Error(err))
	}
}
