package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    rgb
		wantErr bool
	}{
		{"black", rgb{0, 0, 0}, false},
		{"Red", rgb{255, 0, 0}, false},
		{"GREY", rgb{128, 128, 128}, false},
		{"#ff0000", rgb{255, 0, 0}, false},
		{"#336699", rgb{51, 102, 153}, false},
		{"#f00", rgb{255, 0, 0}, false},
		{" #000000 ", rgb{0, 0, 0}, false},
		{"neon", rgb{}, true},
		{"#12", rgb{}, true},
		{"#12345", rgb{}, true},
		{"#zzzzzz", rgb{}, true},
		{"", rgb{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsCoreFont(t *testing.T) {
	got, err := asCoreFont("Arial")
	require.NoError(t, err)
	assert.Equal(t, "Helvetica", got)

	got, err = asCoreFont("times new roman")
	require.NoError(t, err)
	assert.Equal(t, "Times", got)

	_, err = asCoreFont("Comic Sans")
	assert.Error(t, err)

	_, err = asCoreFont(14.0)
	assert.Error(t, err)
}
