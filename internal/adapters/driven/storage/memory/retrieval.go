package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
)

// Ensure RetrievalStore implements the interface.
var _ driven.RetrievalStore = (*RetrievalStore)(nil)

// DefaultTopK is used when Search is called with topK <= 0.
const DefaultTopK = 5

// tenantCorpus keeps chunks and embeddings in lockstep: chunks[i] pairs with embeddings[i].
type tenantCorpus struct {
	chunks     []string
	embeddings [][]float32
	dimensions int
}

// RetrievalStore is an in-memory, append-only, per-tenant store of chunks and
// their embeddings. Nothing is persisted; contents are lost on restart.
type RetrievalStore struct {
	mu      sync.RWMutex
	tenants map[domain.TenantID]*tenantCorpus
}

// NewRetrievalStore creates an empty retrieval store.
func NewRetrievalStore() *RetrievalStore {
	return &RetrievalStore{
		tenants: make(map[domain.TenantID]*tenantCorpus),
	}
}

// Ingest appends chunks and embeddings for the tenant, creating it if absent.
// Identical content ingested twice is stored twice.
func (s *RetrievalStore) Ingest(_ context.Context, tenant domain.TenantID, chunks []string, embeddings [][]float32) error {
	if tenant.IsZero() {
		return fmt.Errorf("empty tenant id: %w", domain.ErrInvalidInput)
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%d chunks but %d embeddings: %w", len(chunks), len(embeddings), domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	corpus, exists := s.tenants[tenant]
	dims := 0
	if exists {
		dims = corpus.dimensions
	}
	for i, emb := range embeddings {
		if len(emb) == 0 {
			return fmt.Errorf("embedding %d is empty: %w", i, domain.ErrInvalidInput)
		}
		if dims == 0 {
			dims = len(emb)
		}
		if len(emb) != dims {
			return fmt.Errorf("embedding %d has %d dimensions, want %d: %w", i, len(emb), dims, domain.ErrInvalidInput)
		}
		if !finite(emb) {
			return fmt.Errorf("embedding %d has non-finite values: %w", i, domain.ErrInvalidInput)
		}
	}

	if !exists {
		corpus = &tenantCorpus{dimensions: dims}
		s.tenants[tenant] = corpus
	}
	for i := range chunks {
		corpus.chunks = append(corpus.chunks, chunks[i])
		corpus.embeddings = append(corpus.embeddings, append([]float32(nil), embeddings[i]...))
	}

	return nil
}

// Search ranks every stored chunk of the tenant by composite score and
// returns the texts of the best min(topK, n). Ties keep insertion order.
func (s *RetrievalStore) Search(_ context.Context, tenant domain.TenantID, query []float32, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	corpus, ok := s.tenants[tenant]
	if !ok || len(corpus.chunks) == 0 {
		return []string{}, nil
	}

	candidates := make([]scored, len(corpus.chunks))
	for i, chunk := range corpus.chunks {
		candidates[i] = scored{
			index: i,
			score: CompositeScore(CosineSimilarity(query, corpus.embeddings[i]), utf8.RuneCountInString(chunk)),
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	n := min(topK, len(candidates))
	results := make([]string, n)
	for i := 0; i < n; i++ {
		results[i] = corpus.chunks[candidates[i].index]
	}
	return results, nil
}

// Count returns the number of chunks stored for the tenant.
func (s *RetrievalStore) Count(tenant domain.TenantID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if corpus, ok := s.tenants[tenant]; ok {
		return len(corpus.chunks)
	}
	return 0
}

// Tenants returns all tenants holding data, sorted by ID.
func (s *RetrievalStore) Tenants() []domain.TenantID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]domain.TenantID, 0, len(s.tenants))
	for id := range s.tenants {
		tenants = append(tenants, id)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i] < tenants[j] })
	return tenants
}

type scored struct {
	index int
	score float64
}
