package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	name string
	mu   sync.Mutex
	got  []Event
	fail int
}

func (p *recordingPublisher) Name() string { return p.name }

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail > 0 {
		p.fail--
		return errors.New("unavailable")
	}
	p.got = append(p.got, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func TestNotifierFansOutToEveryPublisher(t *testing.T) {
	a := &recordingPublisher{name: "a"}
	b := &recordingPublisher{name: "b"}
	n := NewNotifier(PoolConfig{Workers: 2, QueueSize: 16, MaxRetry: 1}, a, b)
	n.Start(context.Background())
	defer n.Stop()

	n.Notify(NewPost, map[string]string{"id": "1"})

	assert.Eventually(t, func() bool { return a.count() == 1 && b.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, NewPost, a.got[0].Type)
	assert.ElementsMatch(t, []string{"a", "b"}, n.Publishers())
}

func TestNotifierRetriesOnlyFailedPublisher(t *testing.T) {
	ok := &recordingPublisher{name: "ok"}
	flaky := &recordingPublisher{name: "flaky", fail: 1}
	n := NewNotifier(PoolConfig{Workers: 1, QueueSize: 16, MaxRetry: 3}, ok, flaky)
	n.Start(context.Background())
	defer n.Stop()

	n.Notify(System, "hello")

	assert.Eventually(t, func() bool { return flaky.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, ok.count())
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Notify(NewPost, nil) })
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher(t *testing.T) {
	w := new(mockWriter)
	p := &KafkaPublisher{writer: w}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "newPoll" {
			return false
		}
		var e Event
		return json.Unmarshal(msgs[0].Value, &e) == nil && e.Type == NewPoll
	})).Return(nil).Once()
	w.On("Close").Return(nil)

	require.NoError(t, p.Publish(context.Background(), Event{Type: NewPoll, Data: "q", Timestamp: ts}))
	require.NoError(t, p.Close())
	assert.Equal(t, "kafka", p.Name())
	w.AssertExpectations(t)
}
