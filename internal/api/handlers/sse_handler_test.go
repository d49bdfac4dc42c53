package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/api/handlers"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
)

// MockEventBus fans published events out to in-process subscribers
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.ReferralEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.ReferralEvent)}
}

func (m *MockEventBus) Publish(_ context.Context, channel string, event *entities.ReferralEvent) error {
	m.mu.RLock()
	channels := append([]chan *entities.ReferralEvent(nil), m.subscribers[channel]...)
	m.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(_ context.Context, channel string) (<-chan *entities.ReferralEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.ReferralEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Close() error { return nil }

// syncRecorder is a flushable ResponseWriter whose body can be read while the handler runs
type syncRecorder struct {
	header http.Header
	mu     sync.Mutex
	body   bytes.Buffer
	code   int
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *syncRecorder) Header() http.Header { return r.header }

func (r *syncRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(b)
}

func (r *syncRecorder) Flush() {}

func (r *syncRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func TestSSEHandler_StreamSpecialistUpdates(t *testing.T) {
	bus := NewMockEventBus()
	handler := handlers.NewSSEHandler(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream/specialists/petrova", nil).WithContext(ctx)
	req.SetPathValue("id", "petrova")
	w := newSyncRecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamSpecialistUpdates(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return handler.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	err := bus.Publish(context.Background(), providers.SpecialistChannel("petrova"), &entities.ReferralEvent{
		ID:           "evt-1",
		Type:         entities.ReferralEventCreated,
		ReferralID:   "r1",
		SpecialistID: "petrova",
		Status:       entities.ReferralStatusPending,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(w.String()), []byte("event: referral.created"))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}

	body := w.String()
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `"referral_id":"r1"`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, 0, handler.GetClientCount())
}

func TestSSEHandler_RequiresFlusher(t *testing.T) {
	handler := handlers.NewSSEHandler(NewMockEventBus())

	rec := httptest.NewRecorder()
	w := struct{ http.ResponseWriter }{rec}
	handler.StreamReferralUpdates(w, httptest.NewRequest(http.MethodGet, "/api/stream/referrals", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
