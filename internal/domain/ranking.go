package domain

import "sort"

const (
	ShortlistSize = 5

	slackPenalty = 0.5
)

type RankedResult struct {
	Entry         CatalogEntry
	AdjustedScore float64
	Best          bool
}

// AdjustedScore penalises the unspent share of the budget so that offers
// priced near the ceiling outrank similar-scoring cheaper ones.
func AdjustedScore(score, price float64, budget Budget) float64 {
	if budget <= 0 {
		return score
	}
	b := float64(budget)
	return score - ((b-price)/b)*slackPenalty
}

// Recommend filters entries by purpose and budget and orders them by adjusted
// score, highest first. Ties keep catalog order.
func Recommend(purpose Purpose, budget Budget, entries []CatalogEntry) []RankedResult {
	results := make([]RankedResult, 0)
	for _, entry := range entries {
		if !entry.Serves(purpose) {
			continue
		}
		if entry.Price > float64(budget) {
			continue
		}
		results = append(results, RankedResult{
			Entry:         entry,
			AdjustedScore: AdjustedScore(entry.Score, entry.Price, budget),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AdjustedScore > results[j].AdjustedScore
	})

	return results
}

// MarkBest flags every result whose adjusted score equals the maximum.
func MarkBest(results []RankedResult) []RankedResult {
	marked := make([]RankedResult, len(results))
	copy(marked, results)
	if len(marked) == 0 {
		return marked
	}

	best := marked[0].AdjustedScore
	for _, result := range marked[1:] {
		if result.AdjustedScore > best {
			best = result.AdjustedScore
		}
	}
	for i := range marked {
		marked[i].Best = marked[i].AdjustedScore == best
	}

	return marked
}

type Shortlist struct {
	Purpose Purpose
	Budget  Budget
	Total   int
	Results []RankedResult
}

func NewShortlist(purpose Purpose, budget Budget, ranked []RankedResult, limit int) Shortlist {
	top := ranked
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}

	return Shortlist{
		Purpose: purpose,
		Budget:  budget,
		Total:   len(ranked),
		Results: MarkBest(top),
	}
}

func (s Shortlist) Empty() bool {
	return s.Total == 0
}
