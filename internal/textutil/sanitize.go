package textutil

import "strings"

// fileNameReplacer maps characters that are unsafe in artifact file names.
// Separators and globbing characters become dashes so a hostile job id
// cannot escape the output directory; the rest are dropped outright.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a caller-supplied name safe to use as a file name,
// trimmed of surrounding whitespace. Storage keys are derived from job ids
// through this, so equal ids always sanitize to the same key.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeToken reduces a string to a lowercase token safe for directory
// names and log labels. Letters are lowercased, digits and hyphens and
// underscores pass through, anything else becomes an underscore. Empty or
// fully-stripped input yields "unknown".
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
