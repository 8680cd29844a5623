package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brastorne/lebo/internal/log"
)

// mockEmbedder implements ai.Embedder for testing.
type mockEmbedder struct {
	embeddings  []float32
	embedErr    error
	returnEmpty bool
	callCount   int
	lastInput   string
}

func (m *mockEmbedder) Name() string { return "mock-embedder" }

func (m *mockEmbedder) Register(api.Registry) {}

func (m *mockEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.callCount++
	if len(req.Input) > 0 && len(req.Input[0].Content) > 0 {
		m.lastInput = req.Input[0].Content[0].Text
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.returnEmpty {
		return &ai.EmbedResponse{Embeddings: []*ai.Embedding{{Embedding: []float32{}}}}, nil
	}
	emb := m.embeddings
	if emb == nil {
		emb = []float32{0.1, 0.2, 0.3}
	}
	return &ai.EmbedResponse{Embeddings: []*ai.Embedding{{Embedding: emb}}}, nil
}

// mockRows implements pgx.Rows over a fixed result set. Each row is
// (service_name string, content string, metadata []byte, similarity float64).
type mockRows struct {
	rows    [][]any
	idx     int
	rowsErr error
}

func (m *mockRows) Close()                                       {}
func (m *mockRows) Err() error                                   { return m.rowsErr }
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

func (m *mockRows) Next() bool {
	m.idx++
	return m.idx <= len(m.rows)
}

func (m *mockRows) Scan(dest ...any) error {
	row := m.rows[m.idx-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(*[]byte) = row[2].([]byte)
	*dest[3].(*float64) = row[3].(float64)
	return nil
}

// mockQuerier implements Querier.
type mockQuerier struct {
	rows     *mockRows
	queryErr error
	execErr  error
	execSQL  string
	execArgs []any
}

func (m *mockQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.rows, nil
}

func (m *mockQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execSQL = sql
	m.execArgs = args
	return pgconn.CommandTag{}, m.execErr
}

func TestFilter_ThresholdBoundary(t *testing.T) {
	results := []Result{
		{Entry: Entry{ServiceName: "mAgri"}, Similarity: 0.9},
		{Entry: Entry{ServiceName: "Mpotsa"}, Similarity: 0.5}, // exactly at threshold: kept
		{Entry: Entry{ServiceName: "Vuka"}, Similarity: 0.49},  // below threshold: dropped
	}

	got := Filter(results, 0.5, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "mAgri", got[0].Entry.ServiceName)
	assert.Equal(t, "Mpotsa", got[1].Entry.ServiceName)
}

func TestFilter_TruncatesToTopByScore(t *testing.T) {
	results := []Result{
		{Entry: Entry{ServiceName: "a"}, Similarity: 0.6},
		{Entry: Entry{ServiceName: "b"}, Similarity: 0.9},
		{Entry: Entry{ServiceName: "c"}, Similarity: 0.7},
		{Entry: Entry{ServiceName: "d"}, Similarity: 0.8},
	}

	got := Filter(results, 0.5, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Entry.ServiceName)
	assert.Equal(t, "d", got[1].Entry.ServiceName)
	assert.Equal(t, "c", got[2].Entry.ServiceName)
}

func TestFilter_Empty(t *testing.T) {
	assert.Empty(t, Filter(nil, 0.5, 3))
	assert.Empty(t, Filter([]Result{{Similarity: 0.1}}, 0.5, 3))
}

func TestEmbedText(t *testing.T) {
	ctx := context.Background()

	t.Run("returns embedding", func(t *testing.T) {
		emb := &mockEmbedder{embeddings: []float32{1, 2, 3}}
		got, err := EmbedText(ctx, emb, "what is mAgri")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2, 3}, got)
		assert.Equal(t, "what is mAgri", emb.lastInput)
	})

	t.Run("propagates embedder error", func(t *testing.T) {
		emb := &mockEmbedder{embedErr: errors.New("quota exceeded")}
		_, err := EmbedText(ctx, emb, "query")
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("empty embedding is an error", func(t *testing.T) {
		emb := &mockEmbedder{returnEmpty: true}
		_, err := EmbedText(ctx, emb, "query")
		assert.ErrorContains(t, err, "empty embedding")
	})
}

func TestStore_Match(t *testing.T) {
	ctx := context.Background()

	db := &mockQuerier{rows: &mockRows{rows: [][]any{
		{"mAgri", "mAgri (*157#) connects farmers to markets.", []byte(`{"ussd":"*157#"}`), 0.91},
		{"Vuka", "Vuka (*156#) low-bandwidth social network.", []byte(`{}`), 0.55},
		{"Mpotsa", "Mpotsa (*152#) SMS Q&A.", []byte(`{}`), 0.31},
	}}}
	store := New(db, &mockEmbedder{}, 0.5, 3, log.NewNop())

	results, err := store.Match(ctx, []float32{0.1, 0.2})
	require.NoError(t, err)
	require.Len(t, results, 2, "row below threshold must be dropped even if the database returned it")
	assert.Equal(t, "mAgri", results[0].Entry.ServiceName)
	assert.Equal(t, "*157#", results[0].Entry.Metadata["ussd"])
	assert.Equal(t, "Vuka", results[1].Entry.ServiceName)
}

func TestStore_Match_QueryError(t *testing.T) {
	db := &mockQuerier{queryErr: errors.New("connection refused")}
	store := New(db, &mockEmbedder{}, 0.5, 3, log.NewNop())

	_, err := store.Match(context.Background(), []float32{0.1})
	assert.ErrorContains(t, err, "similarity search failed")
}

func TestStore_Match_BadMetadataDegradesGracefully(t *testing.T) {
	db := &mockQuerier{rows: &mockRows{rows: [][]any{
		{"mAgri", "content", []byte(`not json`), 0.9},
	}}}
	store := New(db, &mockEmbedder{}, 0.5, 3, log.NewNop())

	results, err := store.Match(context.Background(), []float32{0.1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Entry.Metadata)
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds then writes", func(t *testing.T) {
		db := &mockQuerier{}
		emb := &mockEmbedder{}
		store := New(db, emb, 0.5, 3, log.NewNop())

		err := store.Upsert(ctx, Entry{
			ServiceName: "mAgri",
			Content:     "mAgri (*157#) flagship agricultural platform",
			Metadata:    map[string]string{"ussd": "*157#"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, emb.callCount)
		assert.Contains(t, db.execSQL, "ON CONFLICT (service_name) DO UPDATE")
		assert.Equal(t, "mAgri", db.execArgs[0])
	})

	t.Run("embedding failure aborts before write", func(t *testing.T) {
		db := &mockQuerier{}
		store := New(db, &mockEmbedder{embedErr: errors.New("boom")}, 0.5, 3, log.NewNop())

		err := store.Upsert(ctx, Entry{ServiceName: "mAgri", Content: "x"})
		assert.Error(t, err)
		assert.Empty(t, db.execSQL)
	})
}
