package metrics

import (
	"math"
	"sort"
	"strings"
)

// Stats holds descriptive statistics over a sample.
type Stats struct {
	Median float64
	Mean   float64
	Stdev  float64
	Min    float64
	Max    float64
}

// Compute returns descriptive statistics for a sample. An empty sample
// yields all zeros; a singleton yields stdev 0. Stdev is the sample
// standard deviation.
func Compute(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	stdev := 0.0
	if len(sorted) > 1 {
		var variance float64
		for _, v := range sorted {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(sorted) - 1)
		stdev = math.Sqrt(variance)
	}

	return Stats{
		Median: sorted[len(sorted)/2],
		Mean:   mean,
		Stdev:  stdev,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// Group is one partition of records sharing a label tuple.
type Group struct {
	Key     []string
	Records []RunRecord
}

// GroupBy partitions valid records by the given label names, preserving
// first-seen group order and per-group insertion order. Error-marked
// records are excluded from every grouping.
func GroupBy(records []RunRecord, labels ...string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, record := range records {
		if !record.Valid() {
			continue
		}
		key := make([]string, len(labels))
		for i, label := range labels {
			key[i] = record.Label(label)
		}
		joined := strings.Join(key, "\x1f")
		at, ok := index[joined]
		if !ok {
			at = len(groups)
			index[joined] = at
			groups = append(groups, Group{Key: key})
		}
		groups[at].Records = append(groups[at].Records, record)
	}
	return groups
}

// Values extracts a metric from every record in a group.
func (g Group) Values(metric string) []float64 {
	values := make([]float64, 0, len(g.Records))
	for _, record := range g.Records {
		values = append(values, record.Metric(metric))
	}
	return values
}

// FindMedianRun picks the real record sitting at the median of a metric,
// so drill-down displays show an internally consistent run instead of an
// average of unrelated ones. The sort is stable: equal metric values keep
// insertion order.
func FindMedianRun(records []RunRecord, metric string) (RunRecord, bool) {
	if len(records) == 0 {
		return RunRecord{}, false
	}
	sorted := append([]RunRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metric(metric) < sorted[j].Metric(metric)
	})
	return sorted[len(sorted)/2], true
}

// MergeToolCalls characterizes typical tool usage across a group: the
// union of tool names, each mapped to its median count over all records.
// A record that never called a tool contributes 0 to that tool's median.
func MergeToolCalls(records []RunRecord) map[string]float64 {
	var names []string
	seen := make(map[string]struct{})
	for _, record := range records {
		for name := range record.ToolCalls {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	merged := make(map[string]float64, len(names))
	for _, name := range names {
		counts := make([]float64, 0, len(records))
		for _, record := range records {
			counts = append(counts, float64(record.ToolCalls[name]))
		}
		sort.Float64s(counts)
		merged[name] = counts[len(counts)/2]
	}
	return merged
}

// CorrectPercent is the share of records marked correct, in percent.
func CorrectPercent(records []RunRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	correct := 0
	for _, record := range records {
		if record.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(records)) * 100
}
