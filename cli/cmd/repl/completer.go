package repl

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"clear", "edit", "help", "list", "quit", "set", "show"}

// isWordBoundary reports whether r delimits words for completion: space,
// member access, template punctuation and expr-lang operators. Hyphens are
// not boundaries because element and attribute names may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'"', '\'', '#',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
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

// parentPath returns the member-access chain leading up to the word starting
// at wordStart. For "x + page.user.na" with word "na" it is "page.user".
// Top-level words have an empty parent path.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// childCandidates returns the completions under parent. The top level offers
// element names, environment names and expr-lang builtins; a parent path
// offers the keys of the map it names in the caller's or builtin
// environment.
func childCandidates(env map[string]any, parent string) []string {
	if parent == "" {
		names := html.Elements()
		names = append(names, lang.BuiltinEnvKeys()...)
		names = append(names, sortedKeys(env)...)
		names = append(names, ExprLangBuiltinNames()...)

		slices.Sort(names)

		return slices.Compact(names)
	}

	if m, ok := lookup(env, parent).(map[string]any); ok {
		return sortedKeys(m)
	}

	return lang.BuiltinEnvLookup(parent)
}

// lookup resolves a dot-separated path through nested maps in env.
func lookup(env map[string]any, path string) any {
	var cur any = env

	for part := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		if cur, ok = m[part]; !ok {
			return nil
		}
	}

	return cur
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// computeMatches returns the fuzzy matches for the word at the cursor, best
// first, with the word's offsets. An empty top-level word has no matches so
// that the hint line stays visible; an empty word after a dot matches every
// member.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" || wordStart > 0 {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.sess.env, parent)

		if word == "" {
			if parent == "" {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar renders the completion bar on one line, ellipsized to
// width. Matched characters are highlighted and the selected candidate is
// inverted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions are shown with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, isFunc bool) string {
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

	if isFunc {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is an expr-lang builtin or names a
// function in the caller's or builtin environment.
func (s *session) isFunction(name string) bool {
	if _, ok := exprLangBuiltins[name]; ok {
		return true
	}

	if v, ok := s.env[name]; ok {
		return reflect.TypeOf(v) != nil && reflect.TypeOf(v).Kind() == reflect.Func
	}

	v := lookup(lang.BuiltinEnvCache(), name)

	return reflect.TypeOf(v) != nil && reflect.TypeOf(v).Kind() == reflect.Func
}
