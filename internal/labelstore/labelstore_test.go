package labelstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	a := NewKey("label", "image/png")
	b := NewKey("label", "image/png")

	assert.True(t, strings.HasPrefix(a, "label_"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestMIMERoundTrip(t *testing.T) {
	for _, mimeType := range []string{"image/png", "image/gif", "image/webp", "image/jpeg"} {
		assert.Equal(t, mimeType, MIMEForKey("x"+ExtForMIME(mimeType)))
	}
	assert.Equal(t, ".jpg", ExtForMIME("image/heic"))
	assert.Equal(t, "image/png", MIMEForKey("LABEL.PNG"))
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{
			name:         "JPEG",
			data:         []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			wantMIME:     "image/jpeg",
			wantDetected: true,
		},
		{
			name:         "PNG",
			data:         []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			wantMIME:     "image/png",
			wantDetected: true,
		},
		{
			name:         "GIF",
			data:         []byte("GIF89a"),
			wantMIME:     "image/gif",
			wantDetected: true,
		},
		{
			name:         "WebP",
			data:         append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...),
			wantMIME:     "image/webp",
			wantDetected: true,
		},
		{
			name: "RIFF but not WebP",
			data: append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...),
		},
		{
			name: "PDF",
			data: []byte("%PDF-1.4 content"),
		},
		{
			name: "empty",
			data: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ok := DetectMIME(tt.data)
			assert.Equal(t, tt.wantDetected, ok)
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}
