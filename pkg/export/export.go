// Package export prepares documents for the UI's export flow. The
// browser layer handles the actual download and any PDF conversion;
// this package supplies safe file names and the text renderings.
package export

import (
	"strings"
)

// PlaceholderName is used when a title sanitizes away to nothing.
const PlaceholderName = "untitled"

// maxFilenameLen caps sanitized names well under filesystem limits.
const maxFilenameLen = 200

// Filename sanitizes a document title into a safe file name: runs of
// anything outside ASCII letters and digits become single hyphens,
// leading/trailing hyphens are trimmed, and the result is capped at
// 200 characters. An empty result falls back to "untitled".
func Filename(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	name := b.String()
	if len(name) > maxFilenameLen {
		name = strings.TrimRight(name[:maxFilenameLen], "-")
	}
	if name == "" {
		return PlaceholderName
	}
	return name
}

// Text renders a plain-text export: the title, a blank line, then the
// content verbatim. An untitled document exports as bare content.
func Text(title, content string) string {
	if title == "" {
		return content
	}
	return title + "\n\n" + content
}

// Markdown renders a markdown export with the title as a heading.
func Markdown(title, content string) string {
	if title == "" {
		return content
	}
	return "# " + title + "\n\n" + content
}
