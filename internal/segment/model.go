package segment

// Segment is one image-plus-duration entry of a render request in canonical
// shape. The normalizer fills the intake fields; later pipeline stages fill
// the working fields as the job progresses.
type Segment struct {
	Index        int
	ID           string
	ImageURL     string
	Duration     float64
	SubtitleText string
	WordTimings  []WordTiming
	ImagePrompt  string

	// Working state owned by the job workspace.
	LocalPath    string
	SubtitlePath string
	Width        int
	Height       int
	RenderedPath string
}

// WordTiming carries a per-word duration hint used to recalculate a
// segment's duration during subtitle processing.
type WordTiming struct {
	Word     string
	Duration float64
}

// TotalDuration sums the word durations, ignoring non-positive entries.
func TotalDuration(timings []WordTiming) float64 {
	var total float64
	for _, t := range timings {
		if t.Duration > 0 {
			total += t.Duration
		}
	}
	return total
}
