package vecstore

import (
	"context"
	"fmt"
	"sort"
)

// SearchResult is a single ranked query hit.
type SearchResult struct {
	Document
	Score float32 `json:"score"`
}

// Query embeds the query text and performs a brute-force scan over stored
// documents, returning hits above the similarity threshold sorted by score
// descending. typeFilter narrows results to "note" or "calendar_event";
// empty means both. k caps the result count (0 = configured default).
func (s *Store) Query(ctx context.Context, query string, k int, typeFilter string) ([]SearchResult, error) {
	if k <= 0 {
		k = s.maxResults
	}

	queryEmb, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryEmb = l2Normalize(queryEmb)

	var candidates []SearchResult
	err = s.forEach(func(rec record) error {
		if typeFilter != "" && rec.Meta.Type != typeFilter {
			return nil
		}
		score := dotProduct(queryEmb, blobToVector(rec.Embedding))
		if float64(score) < s.threshold {
			return nil
		}
		candidates = append(candidates, SearchResult{Document: rec.Document, Score: score})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID // stable order for equal scores
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}
