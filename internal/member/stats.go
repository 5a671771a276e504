package member

import "sort"

// GroupCount is one row of a group distribution.
type GroupCount struct {
	Code  string
	Count int
}

// GroupDistribution tallies records per group code, sorted by descending
// count; ties break alphabetically so the output is deterministic.
func GroupDistribution(records []Record) []GroupCount {
	tally := make(map[string]int)
	for _, rec := range records {
		code := rec.GroupCode
		if code == "" {
			code = "?"
		}
		tally[code]++
	}

	counts := make([]GroupCount, 0, len(tally))
	for code, n := range tally {
		counts = append(counts, GroupCount{Code: code, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Code < counts[j].Code
	})
	return counts
}
