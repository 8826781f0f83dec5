package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"filmstrip/internal/logging"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
	"filmstrip/internal/textutil"
)

// Options configures a Generator. Zero values fall back to package defaults.
type Options struct {
	// Language is the subtitle language tag (BCP 47 or bare ISO 639 code).
	Language string
	// MaxLineChars caps cue line width for styles that do not set their own.
	MaxLineChars int
}

const (
	defaultLanguage     = "en"
	defaultMaxLineChars = 42
)

// Result reports the artifacts of one Generate call.
type Result struct {
	// SRTPath is the written subtitle file, empty when the segment carried
	// no caption text.
	SRTPath string
	// CalculatedDuration is the duration the segment should use. It equals
	// the word-timing sum when hints are present, the fallback otherwise.
	CalculatedDuration float64
	// Style echoes the fully resolved style the cues were shaped with.
	Style Style
}

// Generator turns segment captions into SRT files.
type Generator struct {
	language     string
	maxLineChars int
	logger       *slog.Logger
}

// NewGenerator validates the configured language tag and returns a ready
// generator.
func NewGenerator(opts Options, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	langTag := strings.TrimSpace(opts.Language)
	if langTag == "" {
		langTag = defaultLanguage
	}
	tag, err := language.Parse(langTag)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "parse language",
			fmt.Sprintf("unrecognized subtitle language %q", opts.Language), err)
	}
	base, _ := tag.Base()

	maxLineChars := opts.MaxLineChars
	if maxLineChars <= 0 {
		maxLineChars = defaultMaxLineChars
	}
	return &Generator{
		language:     base.String(),
		maxLineChars: maxLineChars,
		logger:       logger,
	}, nil
}

// Language returns the canonical base language code used in file names.
func (g *Generator) Language() string {
	return g.language
}

// Needed reports whether a segment has anything for the generator to do.
func Needed(seg segment.Segment) bool {
	return strings.TrimSpace(seg.SubtitleText) != "" || len(seg.WordTimings) > 0
}

// Generate writes the segment's SRT file into workDir and computes the
// duration the segment should carry. Word-timing hints win over the fallback
// duration; segments without caption text still get a duration but no file.
func (g *Generator) Generate(ctx context.Context, seg segment.Segment, workDir string, index int, fallbackDuration float64, style Style) (Result, error) {
	log := logging.WithContext(ctx, g.logger)
	style = g.applyStyleDefaults(style)

	duration := fallbackDuration
	if timed := timingTotal(seg.WordTimings); timed > 0 {
		duration = timed
	}

	text := textutil.NormalizeText(seg.SubtitleText)
	if text == "" {
		log.Debug("segment has timing hints but no caption text",
			logging.Int(logging.FieldSegment, index),
			logging.Float64("duration", duration))
		return Result{CalculatedDuration: duration, Style: style}, nil
	}

	lines := textutil.WrapLines(text, style.MaxLineChars)
	cues := buildCues(lines, style.MaxLinesPerCue, duration)
	if len(cues) == 0 {
		log.Debug("no cues produced, skipping srt",
			logging.Int(logging.FieldSegment, index),
			logging.Float64("duration", duration))
		return Result{CalculatedDuration: duration, Style: style}, nil
	}

	srtPath := filepath.Join(workDir, srtFileName(index, g.language))
	if err := writeSRT(srtPath, cues); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "subtitles", "write srt",
			fmt.Sprintf("cannot write subtitle file for segment %d", index), err)
	}

	log.Debug("subtitle file written",
		logging.Int(logging.FieldSegment, index),
		logging.String("srt", srtPath),
		logging.Int("cues", len(cues)),
		logging.Float64("duration", duration),
		logging.String("style", style.Name))
	return Result{SRTPath: srtPath, CalculatedDuration: duration, Style: style}, nil
}

func (g *Generator) applyStyleDefaults(style Style) Style {
	if style.Name == "" {
		style, _ = ResolveStyle("")
	}
	if style.MaxLineChars <= 0 {
		style.MaxLineChars = g.maxLineChars
	}
	if style.MaxLinesPerCue <= 0 {
		style.MaxLinesPerCue = defaultMaxLinesPerCue
	}
	return style
}

// timingTotal sums positive word-timing durations. A non-positive result
// means the hints are unusable and the fallback duration stands.
func timingTotal(timings []segment.WordTiming) float64 {
	var total float64
	for _, t := range timings {
		if t.Duration > 0 {
			total += t.Duration
		}
	}
	return total
}

func srtFileName(index int, lang string) string {
	return fmt.Sprintf("segment-%03d.%s.srt", index, lang)
}
