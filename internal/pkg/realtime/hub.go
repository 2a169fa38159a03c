package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"freedom_wall/pkg/logger"
	"freedom_wall/pkg/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Message 推送给前端的统一结构
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InboundHandler 处理客户端发来的原始消息
type InboundHandler func(ctx context.Context, c *Client, raw []byte)

// Options 每个连接的消息节流配置
type Options struct {
	MessagesPerSecond float64
	Burst             int
	CheckOrigin       func(r *http.Request) bool
}

// Hub 维护所有连接，广播是 fire-and-forget：慢客户端直接断开
type Hub struct {
	opts     Options
	upgrader websocket.Upgrader

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]struct{}
	handler InboundHandler
}

// NewHub 创建 Hub，需要调用 Run 启动
func NewHub(opts Options) *Hub {
	if opts.MessagesPerSecond <= 0 {
		opts.MessagesPerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// SetHandler 设置入站消息处理器
func (h *Hub) SetHandler(fn InboundHandler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

// Run 事件循环，ctx 取消后关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			metrics.GetGlobalCollector().SetWSConnections(0)
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.GetGlobalCollector().SetWSConnections(n)
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.GetGlobalCollector().SetWSConnections(n)
		case payload := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					h.drop(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop 移除连接并关闭其发送队列，调用方需持有写锁
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	c.closed = true
	close(c.send)
}

// Broadcast 推送给所有连接，队列满时丢弃
func (h *Hub) Broadcast(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- payload:
	default:
		logger.Log.Warn("broadcast queue full, dropping message", zap.String("type", msg.Type))
	}
	return nil
}

// ClientCount 当前在线连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS 升级连接并启动读写协程
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, callerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &Client{
		ID:      callerID,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.Burst),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Client 单个 websocket 连接
type Client struct {
	ID      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	// closed 由 hub.mu 保护
	closed bool
}

// Send 只发给当前连接
func (c *Client) Send(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		if !c.limiter.Allow() {
			c.Send(Message{Type: "error", Data: map[string]string{"message": "You are sending messages too fast"}})
			continue
		}

		c.hub.mu.RLock()
		handler := c.hub.handler
		c.hub.mu.RUnlock()
		if handler != nil {
			handler(context.Background(), c, raw)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
