package llm

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrNotDataURL   = errors.New("not a base64 data URL")
	ErrNotAnImage   = errors.New("data URL is not an image")
	ErrBadImageData = errors.New("image data is not valid base64")
)

// ParseImageDataURL splits a "data:image/<type>;base64,<payload>" URL into its
// MIME type and decoded bytes.
func ParseImageDataURL(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mimeType = strings.ToLower(mimeType)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", nil, ErrNotAnImage
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrBadImageData
	}
	return mimeType, data, nil
}
