package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

func TestDivide(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantVars    string
		wantHasVars bool
		wantContent string
		wantAt      int
	}{
		{
			name:        "vars and content",
			text:        "a: 1\n--\nHello {x}",
			wantVars:    "a: 1\n",
			wantHasVars: true,
			wantContent: "Hello {x}",
			wantAt:      8,
		},
		{
			name:        "no separator",
			text:        "Hello there.",
			wantContent: "Hello there.",
			wantAt:      0,
		},
		{
			name:        "separator at end of text",
			text:        "a: 1\n--",
			wantVars:    "a: 1\n",
			wantHasVars: true,
			wantContent: "",
			wantAt:      7,
		},
		{
			name:        "crlf separator",
			text:        "a: 1\r\n--\r\nbody",
			wantVars:    "a: 1\r\n",
			wantHasVars: true,
			wantContent: "body",
			wantAt:      10,
		},
		{
			name:        "three dashes are not a separator",
			text:        "a: 1\n---\n--\nbody",
			wantVars:    "a: 1\n---\n",
			wantHasVars: true,
			wantContent: "body",
			wantAt:      12,
		},
		{
			name:        "dashes mid-line are not a separator",
			text:        "to -- or not",
			wantContent: "to -- or not",
			wantAt:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div := Divide(position.NewToken(tt.text, 0))
			assert.Equal(t, tt.wantHasVars, div.HasVars)
			if tt.wantHasVars {
				assert.Equal(t, tt.wantVars, div.Vars.Text)
			}
			assert.Equal(t, tt.wantContent, div.Content.Text)
			assert.Equal(t, tt.wantAt, div.Content.At)
		})
	}
}

func TestDivideKeepsBaseOffset(t *testing.T) {
	div := Divide(position.NewToken("a: 1\n--\nbody", 50))
	assert.Equal(t, 50, div.Vars.At)
	assert.Equal(t, 58, div.Content.At)
}
