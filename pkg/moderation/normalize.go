package moderation

import (
	"strings"
	"unicode"
)

var leetReplacements = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
	'|': 'l',
}

// normalizeObfuscation undoes common character substitutions on lowercase
// text (e.g. "h4t3" -> "hate", "b!tch" -> "bitch"). A '!' only counts as a
// letter when another letter or digit follows it, so sentence punctuation
// is left alone.
func normalizeObfuscation(lower string) string {
	runes := []rune(lower)
	var b strings.Builder
	b.Grow(len(lower))
	for i, r := range runes {
		if r == '!' {
			if i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])) {
				b.WriteRune('i')
				continue
			}
			b.WriteRune(r)
			continue
		}
		if repl, ok := leetReplacements[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
