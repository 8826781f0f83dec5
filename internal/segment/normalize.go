package segment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"filmstrip/internal/services"
)

// Alias tables resolve the field-name drift across upstream producers.
// Order matters: the first alias present in a payload wins.
var (
	imageAliases      = []string{"imageUrl", "image_Url", "image_url", "image"}
	durationAliases   = []string{"duration", "durationInSeconds", "duration_in_seconds", "seconds"}
	subtitleAliases   = []string{"subtitleText", "subtitle_text", "text", "caption"}
	wordTimingAliases = []string{"wordDuration", "word_duration", "wordTimings", "word_timings"}
	idAliases         = []string{"id", "segmentId", "segment_id"}
	promptAliases     = []string{"imagePrompt", "image_prompt", "prompt"}
)

// Normalize maps raw intake segments onto the canonical Segment shape.
// A segment without a usable image URL fails normalization immediately with
// the offending index; durations are carried through as-is (zero when absent)
// because subtitle processing may still derive them, and ValidateDurations
// enforces them afterwards.
func Normalize(raw []map[string]any) ([]Segment, error) {
	segments := make([]Segment, 0, len(raw))
	for i, fields := range raw {
		seg := Segment{Index: i}

		imageURL, ok := firstString(fields, imageAliases)
		if !ok {
			return nil, services.Wrap(
				services.ErrValidation, "segment", "normalize",
				fmt.Sprintf("segment %d: no image URL found under any known field name", i), nil)
		}
		seg.ImageURL = imageURL

		if value, ok := firstValue(fields, durationAliases); ok {
			if f, ok := asFloat(value); ok {
				seg.Duration = f
			}
		}
		if text, ok := firstString(fields, subtitleAliases); ok {
			seg.SubtitleText = text
		}
		if value, ok := firstValue(fields, wordTimingAliases); ok {
			seg.WordTimings = parseWordTimings(value)
		}
		if id, ok := firstString(fields, idAliases); ok {
			seg.ID = id
		}
		if prompt, ok := firstString(fields, promptAliases); ok {
			seg.ImagePrompt = prompt
		}

		segments = append(segments, seg)
	}
	return segments, nil
}

// firstValue returns the value of the first alias present with a non-nil value.
func firstValue(fields map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if value, ok := fields[alias]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// firstString returns the first alias whose value coerces to a non-empty string.
func firstString(fields map[string]any, aliases []string) (string, bool) {
	for _, alias := range aliases {
		value, ok := fields[alias]
		if !ok || value == nil {
			continue
		}
		if s, ok := asString(value); ok {
			return s, true
		}
	}
	return "", false
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseWordTimings accepts either a list of bare durations or a list of
// {word, duration} objects. Entries that do not coerce are skipped.
func parseWordTimings(value any) []WordTiming {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	timings := make([]WordTiming, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case map[string]any:
			timing := WordTiming{}
			if word, ok := firstString(v, []string{"word", "text"}); ok {
				timing.Word = word
			}
			if raw, ok := firstValue(v, []string{"duration", "d"}); ok {
				if f, ok := asFloat(raw); ok {
					timing.Duration = f
				}
			}
			if timing.Word != "" || timing.Duration > 0 {
				timings = append(timings, timing)
			}
		default:
			if f, ok := asFloat(entry); ok {
				timings = append(timings, WordTiming{Duration: f})
			}
		}
	}
	if len(timings) == 0 {
		return nil
	}
	return timings
}
