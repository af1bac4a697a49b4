package recommend

import (
	"cmp"
	"slices"
)

// compareDesc orders larger values first and nil after any present value
func compareDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*b, *a)
}

// compareAsc orders smaller values first and nil after any present value
func compareAsc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func sortByDifficulty(c []DifficultyCandidate) {
	slices.SortStableFunc(c, func(a, b DifficultyCandidate) int {
		return cmp.Or(
			compareDesc(a.ErrorScore, b.ErrorScore),
			compareAsc(a.ExerciseDifficulty, b.ExerciseDifficulty),
		)
	})
}

func sortBySimilarUsers(c []SimilarUserCandidate) {
	slices.SortStableFunc(c, func(a, b SimilarUserCandidate) int {
		return cmp.Or(
			compareDesc(a.Performance, b.Performance),
			compareDesc(a.Similarity, b.Similarity),
		)
	})
}

func sortByErrorsAndInterests(c []ErrorInterestCandidate) {
	slices.SortStableFunc(c, func(a, b ErrorInterestCandidate) int {
		return cmp.Or(
			compareDesc(a.Frequency, b.Frequency),
			compareDesc(a.InterestWeight, b.InterestWeight),
		)
	})
}

func sortByInterests(c []InterestCandidate) {
	slices.SortStableFunc(c, func(a, b InterestCandidate) int {
		return cmp.Or(
			compareDesc(a.InterestWeight, b.InterestWeight),
			compareDesc(a.ErrorScore, b.ErrorScore),
		)
	})
}

func sortMultiHop(c []MultiHopCandidate) {
	slices.SortStableFunc(c, func(a, b MultiHopCandidate) int {
		return compareDesc(a.AvgCorrectRatio, b.AvgCorrectRatio)
	})
}

// dedupMultiHop keeps the first candidate per exercise id
func dedupMultiHop(c []MultiHopCandidate) []MultiHopCandidate {
	seen := make(map[string]struct{}, len(c))
	out := c[:0]
	for _, cand := range c {
		if _, ok := seen[cand.ExerciseID]; ok {
			continue
		}
		seen[cand.ExerciseID] = struct{}{}
		out = append(out, cand)
	}
	return out
}
