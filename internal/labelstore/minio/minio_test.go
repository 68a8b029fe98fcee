package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodiq/internal/labelstore"
)

// fakeS3 serves the handful of path-style S3 calls the store makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, string) {
	t.Helper()
	f := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return f, strings.TrimPrefix(server.URL, "http://")
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get("X-Amz-Decoded-Content-Length") != "" {
			body = decodeChunked(body)
		}
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.types[key])
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", "Mon, 19 Oct 2026 10:00:00 GMT")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// decodeChunked strips aws-chunked framing: "<hex size>;chunk-signature=...\r\n<data>\r\n"
// repeated until a zero-size chunk.
func decodeChunked(body []byte) []byte {
	var out []byte
	for len(body) > 0 {
		header, rest, ok := bytes.Cut(body, []byte("\r\n"))
		if !ok {
			break
		}
		sizeHex, _, _ := bytes.Cut(header, []byte(";"))
		size, err := strconv.ParseInt(string(sizeHex), 16, 64)
		if err != nil || size == 0 || int64(len(rest)) < size {
			break
		}
		out = append(out, rest[:size]...)
		body = bytes.TrimPrefix(rest[size:], []byte("\r\n"))
	}
	return out
}

func newTestStore(t *testing.T) (*Store, *fakeS3) {
	t.Helper()
	fake, endpoint := newFakeS3(t)
	store, err := New(context.Background(), Options{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "labels",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewCreatesBucket(t *testing.T) {
	_, fake := newTestStore(t)

	assert.True(t, fake.buckets["labels"])
}

func TestSaveAndGet(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()
	data := []byte("fake png data")

	key, err := store.Save(ctx, "label", "image/png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "label_"))
	assert.Equal(t, data, fake.objects[key])

	rc, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", mimeType)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.Get(context.Background(), "label_missing.jpg")
	assert.ErrorIs(t, err, labelstore.ErrNotFound)
}

func TestNewRejectsEmptyEndpoint(t *testing.T) {
	_, err := New(context.Background(), Options{Bucket: "labels"})
	assert.Error(t, err)
}
