package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	pending []*EventDocument
	sent    []string
	failed  map[string]string
}

func (s *fakeStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, nil
	}
	doc := s.pending[0]
	s.pending = s.pending[1:]
	return doc, nil
}

func (s *fakeStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed == nil {
		s.failed = map[string]string{}
	}
	s.failed[id] = errMsg
	return nil
}

type published struct {
	topic, key string
	payload    []byte
	headers    map[string]string
}

type fakeProducer struct {
	msgs []published
	err  error
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic, key, payload, headers})
	return nil
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{pending: []*EventDocument{
		{ID: "ev-1", Name: "villa.viewed", Aggregate: "v1", Payload: []byte(`{"villa_id":"v1"}`), OccurredAt: at, Headers: map[string]string{"traceparent": "00-abc"}},
		{ID: "ev-2", Name: "scoop.viewed", Aggregate: "s1", Payload: []byte(`{"scoop_id":"s1"}`), OccurredAt: at},
	}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer, TopicPrefix: "test.", ID: "w1"}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"ev-1", "ev-2"}, store.sent)

	require.Len(t, producer.msgs, 2)
	assert.Equal(t, "test.villa.events.v1", producer.msgs[0].topic)
	assert.Equal(t, "v1", producer.msgs[0].key)
	assert.Equal(t, cloudEventsMedia, producer.msgs[0].headers["content-type"])
	assert.Equal(t, "test.scoop.events.v1", producer.msgs[1].topic)

	rec, err := Decode(producer.msgs[0].payload)
	require.NoError(t, err)
	assert.Equal(t, "ev-1", rec.ID)
	assert.Equal(t, "villa.viewed", rec.Name)
	assert.Equal(t, "v1", rec.Aggregate)
	assert.Equal(t, "00-abc", rec.Headers["traceparent"])
	assert.JSONEq(t, `{"villa_id":"v1"}`, string(rec.Payload))
	assert.True(t, at.Equal(rec.OccurredAt))
}

func TestWorkerPublishFailureReschedules(t *testing.T) {
	store := &fakeStore{pending: []*EventDocument{
		{ID: "ev-1", Name: "villa.viewed", Payload: []byte(`{}`)},
	}}
	w := &Worker{Store: store, Producer: &fakeProducer{err: errors.New("broker down")}, Backoff: []time.Duration{time.Second}}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, store.sent)
	assert.Equal(t, "broker down", store.failed["ev-1"])
}

func TestWorkerMalformedPayloadFails(t *testing.T) {
	store := &fakeStore{pending: []*EventDocument{{ID: "bad", Name: "villa.viewed", Payload: []byte("{")}}}
	producer := &fakeProducer{}
	w := &Worker{Store: store, Producer: producer}

	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Empty(t, producer.msgs)
	assert.Contains(t, store.failed, "bad")
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{Store: &fakeStore{}, Producer: &fakeProducer{}, Interval: time.Millisecond}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedEnvelope)

	_, err = Decode([]byte(`{"specversion":"1.0"}`))
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestNextRetryUsesLastBackoff(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, time.Minute}}
	assert.WithinDuration(t, time.Now().Add(time.Minute), w.nextRetry(5), time.Second)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), (&Worker{}).nextRetry(0), time.Second)
}
