package photos

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDownloader(retries int) *Downloader {
	return NewDownloader(Config{
		Timeout:   2 * time.Second,
		Retries:   retries,
		RetryWait: time.Millisecond,
		MinBytes:  100,
	}, nil)
}

// fakeJPEG returns a body opening with the JPEG magic number, padded past
// the minimum size threshold.
func fakeJPEG(size int) []byte {
	body := make([]byte, size)
	copy(body, []byte{0xff, 0xd8, 0xff})
	return body
}

func TestFetchWritesImage(t *testing.T) {
	t.Parallel()

	body := fakeJPEG(600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "deputes", "jean-dupont.jpg")
	ok := testDownloader(0).Fetch(context.Background(), []string{srv.URL}, dest)
	require.True(t, ok)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, written)
}

func TestFetchIdempotentSkip(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	body := fakeJPEG(600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "x.jpg")
	d := testDownloader(0)

	require.True(t, d.Fetch(context.Background(), []string{srv.URL}, dest))
	require.True(t, d.Fetch(context.Background(), []string{srv.URL}, dest))

	require.Equal(t, int32(1), hits.Load(), "second call must not hit the network")
	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, written, "file unchanged after the skip")
}

func TestFetchFallbackOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mux := http.NewServeMux()
	mux.HandleFunc("/a.jpg", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "a")
		http.NotFound(w, r)
	})
	bodyB := fakeJPEG(700)
	mux.HandleFunc("/b.jpg", func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "b")
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(bodyB)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "fallback.jpg")
	ok := testDownloader(0).Fetch(context.Background(), []string{srv.URL + "/a.jpg", srv.URL + "/b.jpg"}, dest)
	require.True(t, ok)

	require.Equal(t, []string{"a", "b"}, order, "candidates tried in priority order")
	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, bodyB, written, "file holds the second candidate's bytes")
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	body := fakeJPEG(600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "retry.jpg")
	ok := testDownloader(2).Fetch(context.Background(), []string{srv.URL}, dest)
	require.True(t, ok)
	require.Equal(t, int32(2), hits.Load())
}

func TestFetchRejectsNonImages(t *testing.T) {
	t.Parallel()

	t.Run("body too small", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(fakeJPEG(50))
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "small.jpg")
		require.False(t, testDownloader(0).Fetch(context.Background(), []string{srv.URL}, dest))
		_, err := os.Stat(dest)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("html error page", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write(bytes.Repeat([]byte("<html>not here</html>"), 50))
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "page.jpg")
		require.False(t, testDownloader(0).Fetch(context.Background(), []string{srv.URL}, dest))
	})

	t.Run("magic number rescues missing content type", func(t *testing.T) {
		t.Parallel()
		body := make([]byte, 600)
		copy(body, []byte{0x89, 'P', 'N'})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write(body)
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "png.jpg")
		require.True(t, testDownloader(0).Fetch(context.Background(), []string{srv.URL}, dest))
	})
}

func TestFetchAllCandidatesExhausted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "none.jpg")
	ok := testDownloader(0).Fetch(context.Background(), []string{srv.URL + "/1.jpg", srv.URL + "/2.jpg"}, dest)
	require.False(t, ok)
	_, err := os.Stat(dest)
	require.True(t, os.IsNotExist(err))
}

func TestLooksLikeImage(t *testing.T) {
	t.Parallel()

	require.True(t, looksLikeImage("image/png", nil))
	require.True(t, looksLikeImage("application/octet-stream", nil))
	require.True(t, looksLikeImage("", fakeJPEG(10)))
	require.False(t, looksLikeImage("text/html", []byte("<html>")))
}
