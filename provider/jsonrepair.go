package provider

import (
	"encoding/json"
	"strings"
)

// RepairJSON attempts to turn almost-JSON tool arguments into valid JSON.
//
// It fixes, in one pass: single-quoted strings, bare object keys, trailing
// commas before } or ], and raw newlines/tabs inside strings. Valid input is
// returned untouched. When the result still does not parse, the original
// string is returned with ok=false so the caller can report it as a tool
// error instead of dropping the call.
func RepairJSON(in string) (out string, ok bool) {
	if json.Valid([]byte(in)) {
		return in, true
	}

	var b strings.Builder
	b.Grow(len(in) + 8)

	var (
		inString bool
		quote    rune
		lastSig  rune // last non-space rune written outside a string
	)
	runes := []rune(in)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inString {
			switch {
			case ch == '\\':
				if i+1 >= len(runes) {
					b.WriteString(`\\`)
					continue
				}
				next := runes[i+1]
				i++
				if next == '\'' {
					// \' is not a JSON escape
					b.WriteRune('\'')
					continue
				}
				b.WriteRune('\\')
				b.WriteRune(next)
			case ch == quote:
				inString = false
				b.WriteRune('"')
				lastSig = '"'
			case ch == '"':
				// only reachable inside a single-quoted string
				b.WriteString(`\"`)
			case ch == '\n':
				b.WriteString(`\n`)
			case ch == '\r':
				b.WriteString(`\r`)
			case ch == '\t':
				b.WriteString(`\t`)
			default:
				b.WriteRune(ch)
			}
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			inString = true
			quote = ch
			b.WriteRune('"')
		case ch == ',':
			if j := nextSignificant(runes, i+1); j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
			b.WriteRune(ch)
			lastSig = ch
		case isIdentStart(ch) && (lastSig == '{' || lastSig == ','):
			j := i
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}
			ident := string(runes[i:j])
			if k := nextSignificant(runes, j); k < len(runes) && runes[k] == ':' {
				b.WriteString(`"` + ident + `"`)
			} else {
				b.WriteString(ident)
			}
			lastSig = 'a'
			i = j - 1
		default:
			b.WriteRune(ch)
			if !isSpace(ch) {
				lastSig = ch
			}
		}
	}

	repaired := b.String()
	if !json.Valid([]byte(repaired)) {
		return in, false
	}
	return repaired, true
}

func nextSignificant(runes []rune, from int) int {
	for from < len(runes) && isSpace(runes[from]) {
		from++
	}
	return from
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '-' || (r >= '0' && r <= '9')
}
