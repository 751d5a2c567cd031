package imageref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFormat(t *testing.T) {
	got := Encode("image/png", []byte("abc"))
	assert.Equal(t, "data:image/png;base64,YWJj", got)
}

func TestDecodeRoundTrip(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	mimeType, data, err := Decode(Encode("image/jpeg", payload))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, payload, data)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"plain url", "https://example.com/a.png"},
		{"no comma", "data:image/png;base64"},
		{"not base64 encoded", "data:image/png,abc"},
		{"bad payload", "data:image/png;base64,***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.ref)
			assert.Error(t, err)
		})
	}
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "gemini-gen-abc123.png", DownloadName("abc123"))
}
