package subtitles

import (
	"fmt"
	"os"
	"strings"
)

// cue is a single subtitle block with its display window in seconds.
type cue struct {
	index int
	start float64
	end   float64
	text  string
}

// buildCues groups wrapped lines into cues and distributes total across them
// proportionally to word count. The final cue always ends exactly at total.
func buildCues(lines []string, linesPerCue int, total float64) []cue {
	if len(lines) == 0 || total <= 0 {
		return nil
	}
	if linesPerCue <= 0 {
		linesPerCue = defaultMaxLinesPerCue
	}

	var texts []string
	for start := 0; start < len(lines); start += linesPerCue {
		end := start + linesPerCue
		if end > len(lines) {
			end = len(lines)
		}
		texts = append(texts, strings.Join(lines[start:end], "\n"))
	}

	totalWords := 0
	counts := make([]int, len(texts))
	for i, text := range texts {
		counts[i] = len(strings.Fields(text))
		totalWords += counts[i]
	}
	if totalWords == 0 {
		return nil
	}

	cues := make([]cue, len(texts))
	elapsed := 0.0
	for i, text := range texts {
		start := elapsed
		elapsed += total * float64(counts[i]) / float64(totalWords)
		if i == len(texts)-1 {
			elapsed = total
		}
		cues[i] = cue{index: i + 1, start: start, end: elapsed, text: text}
	}
	return cues
}

// writeSRT renders cues in SubRip format: index line, timing line, text,
// blank separator.
func writeSRT(path string, cues []cue) error {
	var sb strings.Builder
	for i, c := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", c.index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTimestamp(c.start), formatSRTTimestamp(c.end)))
		sb.WriteString(c.text)
		sb.WriteString("\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func formatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
