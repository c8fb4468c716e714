package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			return
		}
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestAdapter(t *testing.T) (*ObjectStorageAdapter, *fakeS3) {
	t.Helper()

	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), &config.StorageConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          "resumes",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return NewObjectStorageAdapter(client, "resumes"), fake
}

func TestObjectStorageAdapter_PutGetDelete(t *testing.T) {
	adapter, fake := newTestAdapter(t)
	ctx := context.Background()
	data := []byte("%PDF-1.4 resume")

	err := adapter.Put(ctx, "users/u1/resume/a.pdf", bytes.NewReader(data), int64(len(data)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, data, fake.objects["/resumes/users/u1/resume/a.pdf"])

	rc, err := adapter.Get(ctx, "users/u1/resume/a.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, data, got)

	require.NoError(t, adapter.Delete(ctx, "users/u1/resume/a.pdf"))

	_, err = adapter.Get(ctx, "users/u1/resume/a.pdf")
	assert.ErrorIs(t, err, outbound.ErrObjectNotFound)
}

func TestObjectStorageAdapter_PresignGet(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	raw, err := adapter.PresignGet(context.Background(), "users/u1/resume/a.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/resumes/users/u1/resume/a.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), &config.StorageConfig{})
	assert.Error(t, err)
}
