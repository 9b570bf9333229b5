package realtime

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(h *Hub, sessionID string) *Client {
	c := &Client{
		hub:       h,
		sessionID: sessionID,
		send:      make(chan []byte, sendBufferSize),
	}
	h.add(c)
	return c
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case msg := <-c.send:
		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("解析信封失败: %v", err)
		}
		return env
	default:
		t.Fatal("期望收到消息，但缓冲为空")
		return Envelope{}
	}
}

func TestHub_PublishToSubscribers(t *testing.T) {
	h := NewHub(zap.NewNop())
	c1 := newTestClient(h, "sess-001")
	c2 := newTestClient(h, "sess-001")
	other := newTestClient(h, "sess-002")

	h.Publish("sess-001", "presence.created", map[string]string{"presence_id": "p-001"})

	for _, c := range []*Client{c1, c2} {
		env := recvEnvelope(t, c)
		if env.Event != "presence.created" {
			t.Errorf("期望事件presence.created，实际=%s", env.Event)
		}
		if env.SessionID != "sess-001" {
			t.Errorf("期望会话sess-001，实际=%s", env.SessionID)
		}
	}

	// 其他会话的订阅者不应收到
	select {
	case <-other.send:
		t.Error("其他会话的订阅者不应收到消息")
	default:
	}
}

func TestHub_DeliveryOrderPerSession(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "sess-001")

	h.Publish("sess-001", "presence.created", map[string]int{"seq": 1})
	h.Publish("sess-001", "presence.decided", map[string]int{"seq": 2})

	first := recvEnvelope(t, c)
	second := recvEnvelope(t, c)
	if first.Event != "presence.created" || second.Event != "presence.decided" {
		t.Errorf("投递顺序应与发布顺序一致，实际: %s, %s", first.Event, second.Event)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "sess-001")

	if got := h.SubscriberCount("sess-001"); got != 1 {
		t.Fatalf("期望订阅者数=1，实际=%d", got)
	}

	h.remove(c)

	if got := h.SubscriberCount("sess-001"); got != 0 {
		t.Errorf("期望订阅者数=0，实际=%d", got)
	}

	// 取消订阅后发布不应 panic，也不应有残留投递
	h.Publish("sess-001", "presence.created", nil)

	// 重复取消订阅应为无操作
	h.remove(c)
}

func TestHub_FullBufferDropsMessage(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "sess-001")

	// 填满缓冲后再发布：发布方不阻塞，消息被丢弃
	for i := 0; i < sendBufferSize; i++ {
		h.Publish("sess-001", "presence.created", map[string]int{"seq": i})
	}
	h.Publish("sess-001", "presence.created", map[string]int{"seq": sendBufferSize})

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("期望缓冲长度=%d，实际=%d", sendBufferSize, got)
	}
}
