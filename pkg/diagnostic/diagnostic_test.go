package diagnostic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twee-tools/chapbook-ls/pkg/position"
)

func TestDiagnosticsGroupsBySeverity(t *testing.T) {
	var ds Diagnostics
	ds.Add(NewError(position.NewToken("a", 0), "bad"))
	ds.Add(NewWarning(position.NewToken("b", 2), "iffy"))
	ds.Add(NewWarning(position.NewToken("c", 4), "also iffy"))

	assert.Len(t, ds.Errors, 1)
	assert.Len(t, ds.Warnings, 2)
	assert.Len(t, ds.All(), 3)
}

func TestFormatJSON(t *testing.T) {
	text := "first line\nsecond line\n"
	diags := []Diagnostic{
		NewError(position.NewToken("first", 0), "broken start"),
		NewWarning(position.NewToken("line", 18), "odd word"),
	}

	data, err := FormatJSON(diags, text)
	require.NoError(t, err)

	var out []struct {
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Range    struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
			End struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"end"`
		} `json:"range"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)

	assert.Equal(t, 1, out[0].Severity)
	assert.Equal(t, "broken start", out[0].Message)
	assert.Equal(t, 0, out[0].Range.Start.Line)
	assert.Equal(t, 0, out[0].Range.Start.Character)
	assert.Equal(t, 5, out[0].Range.End.Character)

	assert.Equal(t, 2, out[1].Severity)
	assert.Equal(t, 1, out[1].Range.Start.Line)
	assert.Equal(t, 7, out[1].Range.Start.Character)
}

func TestFormatJSONNil(t *testing.T) {
	_, err := FormatJSON(nil, "")
	assert.Error(t, err)
}
