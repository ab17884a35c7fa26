package probe

import (
	"math"
	"slices"
	"time"

	"github.com/tkjaer/regping/internal/shared"
)

// Summarize computes statistics over the successful trials of one endpoint.
// Durations are converted by mode before any statistic is taken. With no
// successes the latency fields stay nil; with one success stdev is zero.
func Summarize(set shared.ResultSet, mode shared.EstimateMode) shared.Summary {
	summary := shared.Summary{
		Count:  len(set),
		Errors: set.Errors(),
	}

	samples := set.Successes()
	if len(samples) == 0 {
		return summary
	}
	for i, d := range samples {
		samples[i] = mode.Apply(d)
	}
	slices.Sort(samples)

	mean := calculateMean(samples)
	summary.Min = shared.NewSeconds(samples[0])
	summary.Max = shared.NewSeconds(samples[len(samples)-1])
	summary.Mean = shared.NewSeconds(time.Duration(math.Round(mean)))
	summary.Median = shared.NewSeconds(calculateMedian(samples))
	summary.Stdev = shared.NewSeconds(time.Duration(math.Round(calculateStdDev(samples, mean))))
	return summary
}

// SummarizeAll summarizes every endpoint in the table
func SummarizeAll(table shared.ResultsTable, mode shared.EstimateMode) map[string]shared.Summary {
	summaries := make(map[string]shared.Summary, len(table))
	for name, set := range table {
		summaries[name] = Summarize(set, mode)
	}
	return summaries
}

// calculateMean returns the arithmetic mean in nanoseconds
func calculateMean(samples []time.Duration) float64 {
	var sum float64
	for _, d := range samples {
		sum += float64(d)
	}
	return sum / float64(len(samples))
}

// calculateMedian expects sorted samples; even counts average the middle pair
func calculateMedian(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// calculateStdDev returns the sample standard deviation (n-1) in nanoseconds
func calculateStdDev(samples []time.Duration, mean float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	var sumSquares float64
	for _, d := range samples {
		diff := float64(d) - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(samples)-1))
}
