// Package ranking scores a query vector against every corpus row and orders
// the results.
package ranking

import (
	"sort"

	"github.com/kailas-cloud/animatch/internal/domain/tfidf"
)

// DefaultLimit is the number of results returned when no limit is given.
const DefaultLimit = 10

// Scored is the similarity of one corpus row to the query.
type Scored struct {
	Index      int
	Similarity float64
}

// Score computes the cosine similarity of query to every row, in row order.
// Rows are unit length (or zero), so the cosine is the plain dot product.
func Score(query tfidf.Vector, rows []tfidf.Vector) []Scored {
	out := make([]Scored, len(rows))
	for i, row := range rows {
		out[i] = Scored{Index: i, Similarity: query.Dot(row)}
	}
	return out
}

// Rank orders scored by similarity descending, keeping corpus order among
// ties, drops every row whose id equals excludeID and returns the first n.
// ids maps row index to item id. n <= 0 means DefaultLimit.
func Rank(scored []Scored, ids []int, excludeID, n int) []Scored {
	if n <= 0 {
		n = DefaultLimit
	}

	sorted := make([]Scored, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})

	out := make([]Scored, 0, min(n, len(sorted)))
	for _, s := range sorted {
		if ids[s.Index] == excludeID {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

// TopN scores query against rows and ranks the result.
func TopN(query tfidf.Vector, rows []tfidf.Vector, ids []int, excludeID, n int) []Scored {
	return Rank(Score(query, rows), ids, excludeID, n)
}
