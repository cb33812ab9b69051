package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "full version", input: "2.1.0"},
		{name: "two components", input: "2.0"},
		{name: "one component", input: "1"},
		{name: "surrounding space", input: " 2.1.0 "},
		{name: "garbage", input: "latest", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestParseComparesComponentWise(t *testing.T) {
	a := MustParse("1.2")
	b := MustParse("1.10.0")
	assert.True(t, a.LessThan(b), "1.2 should compare below 1.10.0 numerically, not lexically")
}

func TestWindowCheck(t *testing.T) {
	window := Window{
		Since:      MustParse("1.1.0"),
		Deprecated: MustParse("2.0.0"),
		Removed:    MustParse("2.2.0"),
	}

	tests := []struct {
		name    string
		current string
		want    Availability
	}{
		{name: "before since", current: "1.0.0", want: TooEarly},
		{name: "at since", current: "1.1.0", want: Available},
		{name: "mid window", current: "1.9.0", want: Available},
		{name: "at deprecated", current: "2.0.0", want: AvailableDeprecated},
		{name: "at removed", current: "2.2.0", want: Gone},
		{name: "past removed", current: "3.0.0", want: Gone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Check(MustParse(tt.current)))
		})
	}

	t.Run("nil current is always available", func(t *testing.T) {
		assert.Equal(t, Available, window.Check(nil))
	})

	t.Run("open window", func(t *testing.T) {
		assert.Equal(t, Available, Window{}.Check(MustParse("9.9.9")))
	})
}
