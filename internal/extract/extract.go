// Package extract parses free-form assistant text into a renderable
// structure: optional intro prose, an ordered list of short items and
// optional trailing prose. Parsing never fails; text without a
// recognizable list comes back as plain prose with zero items.
package extract

import (
	"regexp"
	"strings"
)

// MaxDocumentSuggestions caps the list shown in the document picker.
const MaxDocumentSuggestions = 5

// List is the decomposition of one block of text.
type List struct {
	Intro    string
	Items    []string
	Trailing string
}

// HasItems reports whether a list was detected at all.
func (l List) HasItems() bool {
	return len(l.Items) > 0
}

var (
	numberedLine = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)
	bulletLine   = regexp.MustCompile(`^\s*[-•]\s+(.+)$`)
	trailingCue  = regexp.MustCompile(`(?i)((?:do you|would you|should i|when that happens)\b.*)$`)
)

// Parse decomposes text into intro, items and trailing prose.
//
// Detection strategies are tried in priority order: numbered lines,
// bulleted lines, then inline " - " separated segments. Numbered and
// bulleted matches need at least two qualifying lines; a single
// marker line is treated as prose. Parse is a pure function of its
// input.
func Parse(text string) List {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return List{}
	}

	lines := strings.Split(trimmed, "\n")
	if l, ok := lineList(lines, numberedLine); ok {
		return l
	}
	if l, ok := lineList(lines, bulletLine); ok {
		return l
	}
	if l, ok := inlineList(trimmed); ok {
		return l
	}

	return List{Intro: trimmed}
}

// DocumentSuggestions parses text in the document-picker context,
// keeping at most MaxDocumentSuggestions items in original order.
func DocumentSuggestions(text string) []string {
	items := Parse(text).Items
	if len(items) > MaxDocumentSuggestions {
		items = items[:MaxDocumentSuggestions]
	}
	return items
}

func lineList(lines []string, marker *regexp.Regexp) (List, bool) {
	first, last := -1, -1
	count := 0
	for i, line := range lines {
		if marker.MatchString(line) {
			if first == -1 {
				first = i
			}
			last = i
			count++
		}
	}
	if count < 2 {
		return List{}, false
	}

	var l List
	l.Intro = strings.TrimSpace(strings.Join(lines[:first], "\n"))
	for _, line := range lines[first : last+1] {
		m := marker.FindStringSubmatch(line)
		if m == nil {
			// Wrapped continuation of the previous item.
			if cont := strings.TrimSpace(line); cont != "" && len(l.Items) > 0 {
				l.Items[len(l.Items)-1] += " " + cont
			}
			continue
		}
		l.Items = append(l.Items, strings.TrimSpace(m[1]))
	}
	l.Trailing = strings.TrimSpace(strings.Join(lines[last+1:], "\n"))
	return l, true
}

func inlineList(text string) (List, bool) {
	parts := strings.Split(text, " - ")
	if len(parts) < 3 {
		return List{}, false
	}

	l := List{Intro: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		l.Items = append(l.Items, strings.TrimSpace(part))
	}

	// A trailing question hangs off the last segment; keep it out of
	// the item list.
	lastIdx := len(l.Items) - 1
	if m := trailingCue.FindStringSubmatchIndex(l.Items[lastIdx]); m != nil {
		item := l.Items[lastIdx]
		l.Trailing = strings.TrimSpace(item[m[2]:m[3]])
		remainder := strings.TrimSpace(item[:m[2]])
		if remainder == "" {
			l.Items = l.Items[:lastIdx]
		} else {
			l.Items[lastIdx] = remainder
		}
	}
	return l, true
}
