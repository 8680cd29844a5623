package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brastorne/lebo/internal/log"
)

type recordedEvent struct {
	eventType  string
	serviceTag string
	metadata   []byte
}

type mockExecer struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (m *mockExecer) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return pgconn.CommandTag{}, m.err
	}
	m.events = append(m.events, recordedEvent{
		eventType:  args[0].(string),
		serviceTag: args[1].(string),
		metadata:   args[2].([]byte),
	})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockExecer) last(t *testing.T) recordedEvent {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.events)
	return m.events[len(m.events)-1]
}

func TestLogQuery(t *testing.T) {
	db := &mockExecer{}
	logger := New(db, log.NewNop())

	logger.LogQuery(context.Background(), "What is mAgri?")
	logger.Close()

	event := db.last(t)
	assert.Equal(t, "query", event.eventType)
	assert.Equal(t, "magri", event.serviceTag)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(event.metadata, &metadata))
	assert.Equal(t, "What is mAgri?", metadata["query_preview"])
}

func TestLogQueryTruncatesPreview(t *testing.T) {
	db := &mockExecer{}
	logger := New(db, log.NewNop())

	long := strings.Repeat("a", 300)
	logger.LogQuery(context.Background(), long)
	logger.Close()

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(db.last(t).metadata, &metadata))
	assert.Len(t, metadata["query_preview"], previewLen)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Tell me about mAgri", "magri"},
		{"how do I dial *157#", "magri"},
		{"MPOTSA pricing", "mpotsa"},
		{"what is *152#?", "mpotsa"},
		{"is Vuka free?", "vuka"},
		{"*156# help", "vuka"},
		{"who founded Brastorne?", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.query), "query %q", tt.query)
	}
}

func TestLogQuerySwallowsWriteFailure(t *testing.T) {
	db := &mockExecer{err: errors.New("connection refused")}
	logger := New(db, log.NewNop())

	logger.LogQuery(context.Background(), "What is Vuka?")
	logger.Close()
}

func TestLogQueryNilDB(t *testing.T) {
	logger := New(nil, log.NewNop())
	logger.LogQuery(context.Background(), "anything")
	logger.Close()
}

func TestLogQueryCanceledCallerContext(t *testing.T) {
	db := &mockExecer{}
	logger := New(db, log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger.LogQuery(ctx, "mpotsa question")
	logger.Close()

	assert.Equal(t, "mpotsa", db.last(t).serviceTag)
}
