// Package labelstore archives label photos submitted for extraction.
package labelstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("label not found")

type Store interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (key string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// NewKey returns a unique key of the form <prefix>_<uuid><ext>.
func NewKey(prefix, mimeType string) string {
	return fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ExtForMIME(mimeType))
}

func ExtForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func MIMEForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// sniffedTypes is the set of MIME types DetectMIME accepts from
// http.DetectContentType, which has no WebP signature; see isWebP.
var sniffedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectMIME returns the image type found in data's magic bytes and true, or
// ("", false) when data is not a JPEG, PNG, GIF or WebP image.
func DetectMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if sniffedTypes[mime] {
		return mime, true
	}
	return "", false
}
