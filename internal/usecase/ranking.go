package usecase

import "sort"

// sortRanked orders by match percentage, then directly matched primary
// skills, then entity id, and assigns 1-based ranks.
func sortRanked(items []RankedMatch) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Score, items[j].Score
		if a.MatchPercentage != b.MatchPercentage {
			return a.MatchPercentage > b.MatchPercentage
		}
		if a.DirectPrimaryMatches != b.DirectPrimaryMatches {
			return a.DirectPrimaryMatches > b.DirectPrimaryMatches
		}
		return items[i].EntityID < items[j].EntityID
	})
	for i := range items {
		items[i].Rank = i + 1
	}
}

func paginate(items []RankedMatch, limit, offset int) []RankedMatch {
	if offset >= len(items) {
		return []RankedMatch{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
