package extend

import (
	"regexp"
	"strings"

	"github.com/twee-tools/chapbook-ls/pkg/parsing"
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

// compileMatch turns a JavaScript regex literal (or string) value into the
// anchored, case-insensitive Go regexp used for lookup. A malformed flag
// degrades to compiling without flags plus an error; a malformed body
// degrades to a nil (never-matching) matcher plus an error. The raw source
// is returned for the space-token check and for display.
func compileMatch(tok position.Token, st *parsing.State) (*regexp.Regexp, string) {
	source, flags := splitRegexLiteral(tok.Text)

	inline := "i"
	for _, f := range flags {
		switch f {
		case 'i':
			// lookup is case-insensitive already
		case 'm', 's':
			inline += string(f)
		case 'g', 'u', 'y':
			// no Go equivalent needed: matching is anchored and single-shot
		default:
			st.Error(tok, "unrecognized regular expression flag %q", string(f))
			inline = "i"
		}
	}

	compiled, err := regexp.Compile("(?" + inline + ")^(?:" + source + ")")
	if err != nil && inline != "i" {
		compiled, err = regexp.Compile("(?i)^(?:" + source + ")")
	}
	if err != nil {
		st.Error(tok, "invalid regular expression: %s", tok.Text)
		return nil, source
	}
	return compiled, source
}

// splitRegexLiteral separates /body/flags into body and flags. A plain
// string value is treated as the body with no flags.
func splitRegexLiteral(text string) (source, flags string) {
	if len(text) >= 2 && text[0] == '/' {
		last := strings.LastIndexByte(text, '/')
		if last > 0 {
			return text[1:last], text[last+1:]
		}
	}
	return unquoteString(text), ""
}
