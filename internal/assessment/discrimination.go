package assessment

import "sort"

const (
	// minResponsesForDiscrimination is the sample floor below which an item's
	// discrimination is considered unknown rather than zero.
	minResponsesForDiscrimination = 20

	// groupFraction selects the classic upper/lower 27% scoring groups.
	groupFraction = 0.27

	// weakDiscriminationThreshold marks items that barely separate strong and
	// weak performers.
	weakDiscriminationThreshold = 0.2
)

// CalculateDiscrimination computes an item discrimination index from the
// scores of everyone who answered the prompt. It is the gap between the mean
// score of the top 27% and the bottom 27% of responders, normalized to
// [-1,1]. The second return is false when fewer than 20 responses exist.
func CalculateDiscrimination(scores []float64) (float64, bool) {
	if len(scores) < minResponsesForDiscrimination {
		return 0, false
	}

	sorted := make([]float64, len(scores))
	for i, s := range scores {
		sorted[i] = clamp(s, 0, 100)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	k := int(float64(len(sorted))*groupFraction + 0.5)
	if k < 1 {
		k = 1
	}

	topMean := mean(sorted[:k])
	bottomMean := mean(sorted[len(sorted)-k:])

	return clamp((topMean-bottomMean)/100, -1, 1), true
}

// ShouldRemoveQuestion flags prompts whose computed discrimination falls
// below the weak threshold. Under-sampled prompts are never flagged.
func ShouldRemoveQuestion(scores []float64) bool {
	d, ok := CalculateDiscrimination(scores)
	return ok && d < weakDiscriminationThreshold
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
