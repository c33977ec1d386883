package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore points a Store at srv. The region is fixed so no location lookup is made.
func newTestStore(t *testing.T, srv *httptest.Server, ttl time.Duration) *Store {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cli, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &Store{client: cli, bucketName: "reports", region: "us-east-1", presignTTL: ttl}
}

type putRecorder struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
}

func (p *putRecorder) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		p.mu.Lock()
		p.paths = append(p.paths, r.Method+" "+r.URL.Path)
		p.bodies = append(p.bodies, string(body))
		p.mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStore_PutReturnsPresignedURL(t *testing.T) {
	rec := &putRecorder{}
	store := newTestStore(t, rec.server(t), time.Hour)

	link, err := store.Put(context.Background(), "u1/reports/x.json", []byte(`{"ok":true}`), "application/json")
	require.NoError(t, err)

	rec.mu.Lock()
	require.NotEmpty(t, rec.paths)
	assert.Equal(t, "PUT /reports/u1/reports/x.json", rec.paths[0])
	rec.mu.Unlock()

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reports/u1/reports/x.json", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestStore_PresignFailureIsReturned(t *testing.T) {
	rec := &putRecorder{}
	// S3 rejects expiries beyond seven days before any request is made
	store := newTestStore(t, rec.server(t), 8*24*time.Hour)

	link, err := store.Put(context.Background(), "u1/reports/x.json", []byte(`{}`), "application/json")
	require.Error(t, err)
	assert.Empty(t, link)
	assert.ErrorContains(t, err, "presign u1/reports/x.json")
}

func TestStore_PresignIsLocal(t *testing.T) {
	rec := &putRecorder{}
	store := newTestStore(t, rec.server(t), time.Hour)

	link, err := store.presign(context.Background(), "k.json")
	require.NoError(t, err)
	assert.Contains(t, link, "X-Amz-Signature=")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Empty(t, rec.paths)
}
