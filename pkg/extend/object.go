package extend

import (
	"github.com/twee-tools/chapbook-ls/pkg/position"
	"github.com/twee-tools/chapbook-ls/pkg/scanner"
)

// objectField is one key: value pair of an object literal, both sides
// offset-absolute.
type objectField struct {
	Key   position.Token
	Value position.Token
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseObjectLiteral reads the {...} subset used by extension definitions:
// identifier or string keys, values that are strings, regex literals,
// numbers, identifiers, arrays, or nested objects. Anything it cannot make
// sense of is skipped; extraction is best-effort by design.
func parseObjectLiteral(obj position.Token) map[string]objectField {
	fields := make(map[string]objectField)
	text := obj.Text
	if len(text) == 0 || text[0] != '{' {
		return fields
	}
	end := len(text)
	if text[end-1] == '}' {
		end--
	}

	i := 1
	for i < end {
		i = skipWhitespace(text, i)
		for i < end && text[i] == ',' {
			i = skipWhitespace(text, i+1)
		}
		if i >= end {
			break
		}

		key, next, ok := parseKey(obj, i, end)
		if !ok {
			// resynchronize at the next top-level comma
			i = scanner.NextTopLevel(text[:end], i, func(c byte) bool { return c == ',' })
			continue
		}
		i = skipWhitespace(text, next)
		if i >= end || text[i] != ':' {
			i = scanner.NextTopLevel(text[:end], i, func(c byte) bool { return c == ',' })
			continue
		}
		i = skipWhitespace(text, i+1)

		valueEnd := parseValueEnd(text, i, end)
		value := obj.Sub(i, valueEnd)
		fields[keyName(key)] = objectField{Key: key, Value: scanner.TrimWhitespace(value)}
		i = valueEnd
	}

	return fields
}

func parseKey(obj position.Token, i, end int) (position.Token, int, bool) {
	text := obj.Text
	if text[i] == '\'' || text[i] == '"' {
		stop := scanner.MatchingDelimiter(text, i)
		if stop > end {
			return position.Token{}, i, false
		}
		return obj.Sub(i, stop), stop, true
	}
	start := i
	for i < end && isIdentByte(text[i]) {
		i++
	}
	if i == start {
		return position.Token{}, i, false
	}
	return obj.Sub(start, i), i, true
}

func keyName(key position.Token) string {
	text := key.Text
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') {
		return text[1 : len(text)-1]
	}
	return text
}

// parseValueEnd finds where the value starting at i stops. Delimited
// values (strings, brackets, regex literals) consume their whole span;
// anything else runs to the next top-level comma.
func parseValueEnd(text string, i, end int) int {
	if i >= end {
		return end
	}
	switch c := text[i]; {
	case c == '\'' || c == '"' || c == '`' || c == '{' || c == '[' || c == '(':
		stop := scanner.MatchingDelimiter(text, i)
		if stop > end {
			return end
		}
		return stop
	case c == '/':
		return regexLiteralEnd(text, i, end)
	default:
		stop := scanner.NextTopLevel(text[:end], i, func(b byte) bool { return b == ',' })
		return stop
	}
}

// regexLiteralEnd scans a JavaScript regex literal, honoring escapes and
// character classes, and swallows any trailing flag letters.
func regexLiteralEnd(text string, open, end int) int {
	i := open + 1
	for i < end {
		switch text[i] {
		case '\\':
			i += 2
		case '[':
			i++
			for i < end && text[i] != ']' {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case '/':
			i++
			for i < end && text[i] >= 'a' && text[i] <= 'z' {
				i++
			}
			return i
		default:
			i++
		}
	}
	return end
}
