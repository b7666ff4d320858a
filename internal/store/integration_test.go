package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversant/threadstore/internal/testutil"
)

// setupIntegration provisions a disposable pgvector Postgres with a small
// embedding length so vector fixtures stay readable.
func setupIntegration(t *testing.T, dims int) (*Store, *testutil.TestDBContainer) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	s := New(db.Pool, Config{EmbeddingDimensions: dims}, testutil.DiscardLogger())
	t.Cleanup(s.Close)

	require.NoError(t, s.Setup(context.Background()), "Setup should provision the schema")
	return s, db
}

func TestIntegration_SetupIsIdempotent(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	// A second run must converge without error and leave a usable schema.
	require.NoError(t, s.Setup(ctx))

	rootID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})
	require.NoError(t, s.SaveTitle(ctx, rootID, "still works"))
}

func TestIntegration_TitleUpsertLastWriteWins(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	rootID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})

	require.NoError(t, s.SaveTitle(ctx, rootID, "A"))
	require.NoError(t, s.SaveTitle(ctx, rootID, "B"))

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM thread_metadata WHERE root_message_id = $1`, rootID).Scan(&count))
	assert.Equal(t, 1, count, "upsert must leave exactly one row per root")

	title, err := s.Title(ctx, rootID)
	require.NoError(t, err)
	assert.Equal(t, "B", title)
}

func TestIntegration_TitleCascadeDelete(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	rootID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})
	require.NoError(t, s.SaveTitle(ctx, rootID, "doomed"))

	_, err := db.Pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, rootID)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM thread_metadata WHERE root_message_id = $1`, rootID).Scan(&count))
	assert.Equal(t, 0, count, "metadata row must cascade with the root message")
}

func TestIntegration_SaveTitleAsync(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	rootID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})

	s.SaveTitleAsync(rootID, "async title")
	s.Close() // drains the writer

	title, err := s.Title(ctx, rootID)
	require.NoError(t, err)
	assert.Equal(t, "async title", title)
}

func TestIntegration_EmbeddingRoundTrip(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	msgID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})

	in := []float32{0.1, -0.25, 1.0 / 3.0, 42}
	require.NoError(t, s.SaveEmbedding(ctx, msgID, in))

	out, err := s.Embedding(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, in, out, "stored vector must round-trip exactly at float32 precision")

	// Upsert replaces the vector in place.
	replacement := []float32{1, 2, 3, 4}
	require.NoError(t, s.SaveEmbedding(ctx, msgID, replacement))

	out, err = s.Embedding(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, replacement, out)
}

func TestIntegration_EmbeddingLengthMismatch(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	msgID := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})

	// The column type enforces the provisioned length; the mismatch surfaces
	// as an execution error, not a silent truncation.
	err := s.SaveEmbedding(ctx, msgID, []float32{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgID)
}

func TestIntegration_NearestMessages(t *testing.T) {
	s, db := setupIntegration(t, 3)
	ctx := context.Background()

	vectors := map[string][]float32{
		"exact":      {1, 0, 0},
		"close":      {0.9, 0.1, 0},
		"orthogonal": {0, 1, 0},
	}
	ids := map[string]string{}
	for name, vec := range vectors {
		id := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", CreateAt: 100})
		require.NoError(t, s.SaveEmbedding(ctx, id, vec))
		ids[name] = id
	}

	neighbors, err := s.NearestMessages(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	assert.Equal(t, ids["exact"], neighbors[0].MessageID)
	assert.Equal(t, ids["close"], neighbors[1].MessageID)
	assert.Less(t, neighbors[0].Distance, neighbors[1].Distance)
}

func TestIntegration_ThreadsEndToEnd(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	// Channel c1: m1 (no reply, no title), m2 (2 live replies + 1 deleted,
	// cached title), m3 (deleted). Another channel holds a decoy root.
	m1 := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", Body: "m1 body", CreateAt: 100})
	m2 := testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", Body: "m2 body", CreateAt: 200})
	testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", Body: "m3 body", CreateAt: 300, DeleteAt: 301})
	testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c2", Body: "other channel", CreateAt: 400})

	testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", RootID: m2, Body: "reply 1", CreateAt: 210})
	testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", RootID: m2, Body: "reply 2", CreateAt: 220})
	testutil.SeedMessage(t, db.Pool, testutil.Message{ChannelID: "c1", RootID: m2, Body: "deleted reply", CreateAt: 230, DeleteAt: 231})

	require.NoError(t, s.SaveTitle(ctx, m2, "Sprint Planning"))

	threads, err := s.Threads(ctx, []string{"c1"})
	require.NoError(t, err)
	require.Len(t, threads, 2, "deleted roots, replies, and other channels must be excluded")

	assert.Equal(t, m2, threads[0].ID, "newest root first")
	assert.Equal(t, "Sprint Planning", threads[0].Title)
	assert.Equal(t, 2, threads[0].ReplyCount, "deleted replies must not count")

	assert.Equal(t, m1, threads[1].ID)
	assert.Equal(t, "", threads[1].Title, "uncached title defaults to empty string")
	assert.Equal(t, 0, threads[1].ReplyCount)
}

func TestIntegration_ThreadsPageCeiling(t *testing.T) {
	s, db := setupIntegration(t, 4)
	ctx := context.Background()

	for i := range 100 {
		testutil.SeedMessage(t, db.Pool, testutil.Message{
			ChannelID: "c1",
			Body:      fmt.Sprintf("root %d", i),
			CreateAt:  int64(1000 + i),
		})
	}

	threads, err := s.Threads(ctx, []string{"c1"})
	require.NoError(t, err)
	assert.Len(t, threads, ThreadPageLimit)

	// Newest first across the whole page.
	for i := 1; i < len(threads); i++ {
		assert.GreaterOrEqual(t, threads[i-1].UpdateAt, threads[i].UpdateAt)
	}
}
