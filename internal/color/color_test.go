package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#3B82F6", "#3b82f6", false},
		{"3b82f6", "#3b82f6", false},
		{"#abc", "#aabbcc", false},
		{"#abcd", "#aabbcc", false},
		{"#10b981ff", "#10b981", false},
		{" #10b981 ", "#10b981", false},
		{"blue", "", true},
		{"#12345", "", true},
		{"#gggggg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, Valid(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrDefault(t *testing.T) {
	got, err := OrDefault(nil, "#10b981")
	require.NoError(t, err)
	assert.Equal(t, "#10b981", got)

	blank := "  "
	got, err = OrDefault(&blank, "#10b981")
	require.NoError(t, err)
	assert.Equal(t, "#10b981", got)

	red := "#F00"
	got, err = OrDefault(&red, "#10b981")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", got)

	bad := "red"
	_, err = OrDefault(&bad, "#10b981")
	assert.Error(t, err)
}

func TestBadgeFor(t *testing.T) {
	b := BadgeFor("#10b981")

	// 0x10=16, 0xb9=185, 0x81=129
	assert.Equal(t, "#10b981", b.Base)
	assert.Equal(t, "#70d5b3", b.Light) // round(v*0.6 + 102)
	assert.Equal(t, "#0c8a60", b.Dark)  // floor(v*0.75)
	assert.Equal(t, "#ffffff", b.Text)
}

func TestBadgeFor_LightColorGetsDarkText(t *testing.T) {
	assert.Equal(t, "#1f1300", BadgeFor("#ffff00").Text)
}

func TestBadgeFor_Fallback(t *testing.T) {
	assert.Equal(t, FallbackBadgeHex, BadgeFor("").Base)
	assert.Equal(t, FallbackBadgeHex, BadgeFor("nope").Base)
}

func TestBadgeStyle(t *testing.T) {
	style := BadgeStyle("#3b82f6")
	assert.Contains(t, style, "--color-500: #3b82f6;")
	assert.Contains(t, style, "background-color: var(--color-500);")
}
