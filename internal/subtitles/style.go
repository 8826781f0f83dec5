package subtitles

import (
	"fmt"
	"sort"
	"strings"

	"filmstrip/internal/services"
)

// Style describes how cues are shaped and how a renderer should draw them.
// Zero MaxLineChars or MaxLinesPerCue means "use the generator's configured
// default".
type Style struct {
	Name           string
	FontName       string
	FontSize       int
	Bold           bool
	MaxLineChars   int
	MaxLinesPerCue int
}

const defaultMaxLinesPerCue = 2

var stylePresets = map[string]Style{
	"default": {
		Name:     "default",
		FontName: "DejaVu Sans",
		FontSize: 24,
	},
	"bold": {
		Name:     "bold",
		FontName: "DejaVu Sans",
		FontSize: 28,
		Bold:     true,
	},
	"minimal": {
		Name:           "minimal",
		FontName:       "DejaVu Sans",
		FontSize:       20,
		MaxLinesPerCue: 1,
	},
}

// ResolveStyle maps a preset name onto its Style. An empty name selects the
// default preset.
func ResolveStyle(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "default"
	}
	style, ok := stylePresets[key]
	if !ok {
		return Style{}, services.Wrap(services.ErrValidation, "subtitles", "resolve style",
			fmt.Sprintf("unknown subtitle style %q (available: %s)", name, strings.Join(StyleNames(), ", ")), nil)
	}
	return style, nil
}

// StyleNames lists the available preset names in stable order.
func StyleNames() []string {
	names := make([]string, 0, len(stylePresets))
	for name := range stylePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
