package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"word", KindWord},
		{"pdf", KindPDF},
		{"PDF", KindPDF},
		{"  Word  ", KindWord},
		{"excel", KindWord},
		{"document", KindWord},
		{"", KindWord},
		{"pdf document", KindWord},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.in))
		})
	}
}

func TestPreferences_Normalize(t *testing.T) {
	var p Preferences
	got := p.Normalize()
	require.NotNil(t, got)
	assert.Empty(t, got)

	existing := Preferences{"size": 14.0}
	assert.Equal(t, existing, existing.Normalize())
}

func TestPreferences_Merge(t *testing.T) {
	base := Preferences{"name": "Calibri", "size": 11.0}
	overlay := Preferences{"size": 14.0, "bold": true}

	got := base.Merge(overlay)

	assert.Equal(t, Preferences{"name": "Calibri", "size": 14.0, "bold": true}, got)
	// Inputs stay untouched.
	assert.Equal(t, 11.0, base["size"])
	assert.Len(t, overlay, 2)
}

func TestScope_Prefix(t *testing.T) {
	assert.Equal(t, "", ScopeBody.Prefix())
	assert.Equal(t, "title_", ScopeTitle.Prefix())
	assert.Equal(t, "page_", ScopePage.Prefix())
}

func TestPropertyFailure_Error(t *testing.T) {
	cause := errors.New("expected number, got bool")
	f := PropertyFailure{Scope: ScopeBody, Key: "size", Err: cause}

	assert.Contains(t, f.Error(), "size")
	assert.Contains(t, f.Error(), "body")
	assert.ErrorIs(t, f, cause)
}
