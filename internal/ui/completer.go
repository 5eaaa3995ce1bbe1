package ui

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"hsl/internal/driver"
	"hsl/internal/token"
)

// isWordBoundary reports whether r ends an identifier for completion.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '~', '^',
		'&', '|', ',', '?', ':', ';', '"':
		return true
	}
	return false
}

// wordBounds returns the word under the cursor and its byte range.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))
	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}
		start -= size
	}
	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}
		end += size
	}
	return input[start:end], start, end
}

// receiver returns the identifier before a member access, "math" for
// "x + math.ab" with the word starting after the dot.
func receiver(input string, wordStart int) string {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return ""
	}
	word, _, _ := wordBounds(input, wordStart-1)
	return word
}

// candidates lists completions for the word at wordStart: module functions
// after "module.", otherwise session globals and keywords.
func candidates(s *driver.Session, input string, wordStart int) []string {
	if recv := receiver(input, wordStart); recv != "" {
		m, ok := s.Interpreter().Module(recv)
		if !ok {
			return nil
		}
		var names []string
		for _, sig := range m.SupportedFunctions() {
			names = append(names, sig.Name)
		}
		slices.Sort(names)
		return names
	}
	names := append(s.Names(), token.Keywords()...)
	slices.Sort(names)
	return slices.Compact(names)
}

// computeMatches ranks candidates for the word under the cursor. An empty
// word only lists members after a dot.
func (m *replModel) computeMatches() (fuzzy.Matches, int, int) {
	input := m.input.Value()
	word, start, end := wordBounds(input, m.input.Position())
	cands := candidates(m.session, input, start)
	if len(cands) == 0 {
		return nil, start, end
	}
	if word == "" {
		if receiver(input, start) == "" {
			return nil, start, end
		}
		matches := make(fuzzy.Matches, len(cands))
		for i, c := range cands {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}
		return matches, start, end
	}
	return fuzzy.Find(word, cands), start, end
}

// renderCandidateBar draws matches on one line, cut with "..." at width.
func renderCandidateBar(matches fuzzy.Matches, selected int, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}
	const sep = "  "
	ellipsis := hintStyle.Render("...")

	var b strings.Builder
	used := 0
	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)
		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}
		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(rendered)
		used += w
	}
	return b.String()
}

func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}
	var b strings.Builder
	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
