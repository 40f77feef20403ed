// Package retrieval implements the policy-passage retrieval collaborator:
// a hybrid term+vector query over the payer-policy corpus, fused by
// reciprocal-rank fusion.
package retrieval

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/embed"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sentinel-health/sentinel-core/db"
)

// NoResultsSentinel is returned when the corpus has nothing relevant; the
// audit prompt instructs the model to flag missing data instead of
// fabricating compliance against it.
const NoResultsSentinel = "No relevant policy sections found."

// search parameters.
const (
	rrfK               = 60  // dampening constant from the RRF paper
	textSearchWeight   = 1.0 // optional per-engine weights
	vectorSearchWeight = 1.0
	vecK               = 20 // # of hits to keep from each engine
	textK              = 20
	numCandidates      = 100
)

type PolicyStore struct {
	embedder   embed.Embedder
	chunkRepo  odm.OdmCollectionInterface[db.PolicyChunkModel]
	vectorRepo odm.OdmCollectionInterface[db.PolicyChunkAnnModel]
}

func NewPolicyStore(chunkRepo odm.OdmCollectionInterface[db.PolicyChunkModel], vectorRepo odm.OdmCollectionInterface[db.PolicyChunkAnnModel], embedder embed.Embedder) *PolicyStore {
	return &PolicyStore{
		chunkRepo:  chunkRepo,
		vectorRepo: vectorRepo,
		embedder:   embedder,
	}
}

// Query runs one hybrid retrieval over the policy corpus and renders the
// top passages as a prompt-ready block with payer attribution. A non-empty
// payer narrows both searches before ranking, so a payer's passages are
// never crowded out of the top-K by other payers. An empty result set
// yields NoResultsSentinel, not an error.
func (s *PolicyStore) Query(ctx context.Context, query string, topK int, payer string) (string, error) {
	chunks, err := s.search(ctx, query, topK, payer)
	if err != nil {
		return "", err
	}

	return FormatPassages(chunks), nil
}

func (s *PolicyStore) search(ctx context.Context, query string, topK int, payer string) ([]*db.PolicyChunkModel, error) {
	filter := PayerFilter(payer)

	// 1. Fire the two independent searches in parallel.
	textTask := s.chunkRepo.
		TermSearch(ctx, query, odm.TermSearchParams{
			IndexName: db.TextSearchIndexName,
			Path:      db.TextSearchPaths,
			Filter:    filter,
			Limit:     textK,
		})

	emb, err := async.Await(s.embedder.GetEmbedding(ctx, query, embed.WithTask("retrieval.query")))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "embed: %v", err)
	}

	vecTask := s.vectorRepo.
		VectorSearch(ctx, emb, odm.VectorSearchParams{
			IndexName:     db.VectorIndexName,
			Path:          db.VectorPath,
			Filter:        filter,
			K:             vecK,
			NumCandidates: numCandidates,
		})

	// 2. Convert each result list to id -> rank (1-based).
	textRanks, cache, err := collectTextSearchRanks(textTask)
	if err != nil {
		logger.Error("policy text search failed", zap.Error(err))
	}

	vecRanks, err := collectVectorSearchRanks(vecTask)
	if err != nil {
		logger.Error("policy vector search failed", zap.Error(err))
	}

	// 3. Reciprocal-rank fusion, keep the top-K ids.
	ids := FuseRanks(textRanks, vecRanks, topK)

	// 4. Materialise the chunks in rank order.
	return s.fetchChunksByIds(ctx, cache, ids), nil
}

// PayerFilter narrows a search to one payer. An empty payer searches the
// whole corpus.
func PayerFilter(payer string) bson.M {
	if payer == "" {
		return nil
	}
	return bson.M{"payer": payer}
}

// FuseRanks merges two id->rank maps with RRF:
//
//	score(id) = sum of weight_e / (rrfK + rank_e(id))
//
// and returns the topK ids, best first.
func FuseRanks(textRanks, vecRanks map[string]int, topK int) []string {
	combined := make(map[string]float64)
	for id, r := range textRanks {
		combined[id] = textSearchWeight / float64(rrfK+r)
	}
	for id, r := range vecRanks {
		combined[id] += vectorSearchWeight / float64(rrfK+r)
	}

	type pair struct {
		id    string
		score float64
	}

	h := ds.NewMinHeap(func(a, b pair) bool { return a.score < b.score })
	for id, sc := range combined {
		h.Push(pair{id, sc})
		if h.Len() > topK {
			h.Pop()
		}
	}

	sorted := h.ToSortedSlice()
	ids := make([]string, 0, len(sorted))
	for _, p := range sorted {
		ids = append(ids, p.id)
	}
	slices.Reverse(ids) // highest score first
	return ids
}

// FormatPassages renders chunks as a prompt block with payer attribution.
func FormatPassages(chunks []*db.PolicyChunkModel) string {
	if len(chunks) == 0 {
		return NoResultsSentinel
	}

	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, fmt.Sprintf("[%s]: %s", c.Payer, c.Text))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// Returns id -> rank (1-based) and a cache of the full chunk docs.
func collectTextSearchRanks(
	task <-chan async.Result[[]odm.SearchHit[db.PolicyChunkModel]],
) (map[string]int, map[string]*db.PolicyChunkModel, error) {

	ranks := make(map[string]int)
	cache := make(map[string]*db.PolicyChunkModel)

	hits, err := async.Await(task)
	if err != nil {
		return ranks, cache, status.Errorf(codes.Internal, "await text hits: %v", err)
	}

	for i, h := range hits {
		id := h.Doc.Id()
		if _, seen := ranks[id]; !seen { // keep first (best-ranked) hit
			ranks[id] = i + 1
			cache[id] = &h.Doc
		}
	}
	return ranks, cache, nil
}

func collectVectorSearchRanks(
	task <-chan async.Result[[]odm.SearchHit[db.PolicyChunkAnnModel]],
) (map[string]int, error) {

	ranks := make(map[string]int)

	hits, err := async.Await(task)
	if err != nil {
		return ranks, status.Errorf(codes.Internal, "await vector hits: %v", err)
	}

	for i, h := range hits {
		id := h.Doc.Id()
		if _, seen := ranks[id]; !seen {
			ranks[id] = i + 1
		}
	}
	return ranks, nil
}

func (s *PolicyStore) fetchChunksByIds(ctx context.Context, cache map[string]*db.PolicyChunkModel, rankedIds []string) []*db.PolicyChunkModel {
	if len(rankedIds) == 0 {
		return nil
	}

	chunkByID := make(map[string]*db.PolicyChunkModel, len(rankedIds))
	var missing []string

	for _, id := range rankedIds {
		if c, ok := cache[id]; ok {
			chunkByID[id] = c
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		// Fetch all missing in one round-trip.
		dbChunks, err := async.Await(
			s.chunkRepo.Find(ctx, bson.M{"_id": bson.M{"$in": missing}}, nil, 0, 0),
		)
		if err != nil {
			logger.Error("failed to fetch policy chunks", zap.Error(err))
			// still return whatever we already have
		}
		for _, ch := range dbChunks {
			chunkByID[ch.ChunkID] = &ch
		}
	}

	ordered := make([]*db.PolicyChunkModel, 0, len(rankedIds))
	for _, id := range rankedIds {
		if ch, ok := chunkByID[id]; ok {
			ordered = append(ordered, ch)
		} else {
			logger.Info("policy chunk id missing after lookup", zap.String("id", id))
		}
	}

	return ordered
}
