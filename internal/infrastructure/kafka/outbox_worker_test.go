package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memOutbox struct {
	mu     sync.Mutex
	events []*usecase.OutboxEvent
	resets int
}

func (m *memOutbox) add(id int64, aggregate string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, &usecase.OutboxEvent{
		ID:          id,
		EventID:     aggregate + "-evt",
		AggregateID: aggregate,
		Payload:     []byte(aggregate),
		Status:      usecase.Pending,
	})
}

func (m *memOutbox) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return event, nil
}

func (m *memOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*usecase.OutboxEvent
	for _, ev := range m.events {
		if ev.Status == usecase.Pending && len(out) < limit {
			ev.Status = usecase.Processing
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = usecase.Processed
		}
	}
	return nil
}

func (m *memOutbox) ResetStale(_ context.Context, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	var n int64
	for _, ev := range m.events {
		if ev.Status == usecase.Processing {
			ev.Status = usecase.Pending
			n++
		}
	}
	return n, nil
}

func (m *memOutbox) statuses() map[int64]usecase.OutboxStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]usecase.OutboxStatus, len(m.events))
	for _, ev := range m.events {
		out[ev.ID] = ev.Status
	}
	return out
}

type recordingProducer struct {
	mu    sync.Mutex
	keys  []string
	fails map[string]int // ключ -> сколько раз отказать
}

func (p *recordingProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fails[req.Key] > 0 {
		p.fails[req.Key]--
		return errors.New("dial tcp: connection refused")
	}
	p.keys = append(p.keys, req.Key)
	return nil
}

func (p *recordingProducer) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func TestOutboxWorker_DrainsInBatches(t *testing.T) {
	repo := &memOutbox{}
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		repo.add(int64(i+1), id)
	}
	producer := &recordingProducer{}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, &cfg.OutboxCfg{BatchSize: 2, PollInterval: time.Hour}, "")
	w.drain(context.Background())

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, producer.sent())
	for id, status := range repo.statuses() {
		assert.Equal(t, usecase.Processed, status, "event %d", id)
	}
}

func TestOutboxWorker_RetriesFailedEventsOnPoll(t *testing.T) {
	repo := &memOutbox{}
	repo.add(1, "a")
	repo.add(2, "b")
	producer := &recordingProducer{fails: map[string]int{"b": 1}}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, &cfg.OutboxCfg{BatchSize: 10, PollInterval: 10 * time.Millisecond}, "")
	w.Start(context.Background())

	require.Eventually(t, func() bool {
		st := repo.statuses()
		return st[1] == usecase.Processed && st[2] == usecase.Processed
	}, 2*time.Second, 5*time.Millisecond)

	w.Stop()
	w.Stop()

	assert.ElementsMatch(t, []string{"a", "b"}, producer.sent())
}

func TestOutboxWorker_StopWithoutEvents(t *testing.T) {
	w := NewOutboxWorker(&memOutbox{}, logger.NewNopLogger(), &recordingProducer{}, &cfg.OutboxCfg{BatchSize: 1, PollInterval: time.Hour}, "")

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Stop()
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read tcp: i/o timeout")))
	assert.True(t, isRetryableError(errors.New("Broker Not Available")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}
