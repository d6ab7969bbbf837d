package model

// RunResult summarizes a single pass over the issue listing.
type RunResult struct {
	PreviousWatermark int
	Watermark         int
	Fetched           int
	Commented         []int
	Skipped           map[SkipReason]int
	Saved             bool
	Published         bool
}

// Changed reports whether the pass advanced the watermark.
func (r RunResult) Changed() bool {
	return r.Watermark != r.PreviousWatermark
}
