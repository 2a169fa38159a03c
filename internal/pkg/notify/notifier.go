package notify

import (
	"context"
	"fmt"
	"time"

	"freedom_wall/internal/pkg/worker"
	"freedom_wall/pkg/metrics"
)

// Type 通知类型
type Type string

const (
	NewPost         Type = "newPost"
	NewComment      Type = "newComment"
	NewPoll         Type = "newPoll"
	PollResults     Type = "pollResults"
	NewAnnouncement Type = "newAnnouncement"
	PostLike        Type = "postLike"
	PostReport      Type = "postReport"
	System          Type = "system"
)

// Event 通知事件
type Event struct {
	Type      Type        `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher 通知投递目标
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event Event) error
}

// Notifier 事件通过 worker pool 异步投递，每个 Publisher 单独重试
type Notifier struct {
	pool       *worker.WorkerPool
	publishers map[string]Publisher
	now        func() time.Time
}

type delivery struct {
	publisher string
	event     Event
}

// NewNotifier 创建通知器，Start 之前不会投递
func NewNotifier(cfg PoolConfig, publishers ...Publisher) *Notifier {
	n := &Notifier{
		publishers: make(map[string]Publisher, len(publishers)),
		now:        time.Now,
	}
	for _, p := range publishers {
		if p != nil {
			n.publishers[p.Name()] = p
		}
	}
	n.pool = worker.NewWorkerPool(n.deliver, cfg.Workers, cfg.QueueSize, cfg.MaxRetry)
	return n
}

// PoolConfig 投递协程池配置
type PoolConfig struct {
	Workers   int
	QueueSize int
	MaxRetry  int
}

func (n *Notifier) Start(ctx context.Context) {
	n.pool.Start(ctx)
}

func (n *Notifier) Stop() {
	n.pool.Stop()
}

// Notify 投递事件，从不阻塞调用方
func (n *Notifier) Notify(t Type, data interface{}) {
	if n == nil {
		return
	}
	event := Event{Type: t, Data: data, Timestamp: n.now()}
	for name := range n.publishers {
		ok := n.pool.AddTask(worker.Task{
			Name:    string(t) + "->" + name,
			Payload: delivery{publisher: name, event: event},
		})
		if !ok {
			metrics.GetGlobalCollector().RecordNotification(string(t), "dropped")
		}
	}
}

// Publishers 已注册的投递目标名称
func (n *Notifier) Publishers() []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.publishers))
	for name := range n.publishers {
		names = append(names, name)
	}
	return names
}

func (n *Notifier) deliver(ctx context.Context, task worker.Task) error {
	d, ok := task.Payload.(delivery)
	if !ok {
		return nil
	}
	p, ok := n.publishers[d.publisher]
	if !ok {
		return fmt.Errorf("unknown publisher %q", d.publisher)
	}
	if err := p.Publish(ctx, d.event); err != nil {
		metrics.GetGlobalCollector().RecordNotification(string(d.event.Type), "failed")
		return fmt.Errorf("publish %s via %s: %w", d.event.Type, d.publisher, err)
	}
	metrics.GetGlobalCollector().RecordNotification(string(d.event.Type), "sent")
	return nil
}
