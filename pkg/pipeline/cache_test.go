package pipeline

import (
	"context"
	"fmt"
	"testing"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

type fakeCacheRepo struct {
	scored *entity.ScoredCacheEntry
	err    error
}

func (f *fakeCacheRepo) Create(ctx context.Context, entry *entity.QueryCacheEntry) error {
	return nil
}

func (f *fakeCacheRepo) Nearest(ctx context.Context, embedding []float32) (*entity.ScoredCacheEntry, error) {
	return f.scored, f.err
}

func (f *fakeCacheRepo) Clear(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeCacheRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func scoredEntry(distance float64) *entity.ScoredCacheEntry {
	return &entity.ScoredCacheEntry{
		QueryCacheEntry: entity.QueryCacheEntry{
			Question: "Kaç çalışan var?",
			SqlQuery: "SELECT COUNT(*) FROM employees",
		},
		Distance: distance,
	}
}

func TestLookupHitAtThresholdBoundary(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	repo := &fakeCacheRepo{scored: scoredEntry(0.35)}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	hit := cache.Lookup(context.Background(), "Toplam çalışan?")
	require.NotNil(t, hit, "distance equal to threshold is a hit")
	assert.Equal(t, "SELECT COUNT(*) FROM employees", hit.Sql)
	assert.Equal(t, 0.35, hit.Distance)
}

func TestLookupMissAboveThreshold(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	repo := &fakeCacheRepo{scored: scoredEntry(0.36)}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	assert.Nil(t, cache.Lookup(context.Background(), "Toplam çalışan?"))
}

func TestLookupEmbeddingFailureFailsOpen(t *testing.T) {
	embedder := &fakeEmbedder{err: fmt.Errorf("embedding backend down")}
	repo := &fakeCacheRepo{scored: scoredEntry(0.01)}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	assert.Nil(t, cache.Lookup(context.Background(), "soru"))
}

func TestLookupBackendFailureFailsOpen(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.1}}
	repo := &fakeCacheRepo{err: fmt.Errorf("pgvector unreachable")}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	assert.Nil(t, cache.Lookup(context.Background(), "soru"))
}

func TestLookupEmptyCacheIsMiss(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.1}}
	repo := &fakeCacheRepo{}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	assert.Nil(t, cache.Lookup(context.Background(), "soru"))
}

func TestLookupMemoizesEmbeddings(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.1}}
	repo := &fakeCacheRepo{scored: scoredEntry(0.1)}
	cache := NewSemanticCache(embedder, repo, memory.NewEmbeddingCache(), 0.35, nopLogger{})

	cache.Lookup(context.Background(), "aynı soru")
	cache.Lookup(context.Background(), "aynı soru")
	assert.Equal(t, 1, embedder.calls, "second lookup of the same text must reuse the memoized embedding")
}
