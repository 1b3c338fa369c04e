package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wacloud-ingest/internal/channel"
)

func mediaTestChannel(baseURL string) *channel.Channel {
	return channel.New(1, "+5511999999999", "test-key", baseURL, "v19.0", channel.ProviderCloud, "en")
}

func TestSignedURL(t *testing.T) {
	var lookups int
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups++
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/v19.0/media-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"url": %q, "mime_type": "image/jpeg", "id": "media-1"}`, "https://cdn.example.com/signed/media-1")
	}))
	defer server.Close()

	client := NewMediaClient()
	ch := mediaTestChannel(server.URL)

	url, err := client.SignedURL(context.Background(), ch, "media-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/signed/media-1", url)
	assert.Equal(t, "Bearer test-key", gotAuth)

	// Second lookup is served from the cache.
	url, err = client.SignedURL(context.Background(), ch, "media-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/signed/media-1", url)
	assert.Equal(t, 1, lookups)
}

func TestSignedURLUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewMediaClient()
	_, err := client.SignedURL(context.Background(), mediaTestChannel(server.URL), "media-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthorization))
}

func TestSignedURLServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewMediaClient()
	_, err := client.SignedURL(context.Background(), mediaTestChannel(server.URL), "media-3")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAuthorization))
}

func TestSignedURLEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewMediaClient()
	_, err := client.SignedURL(context.Background(), mediaTestChannel(server.URL), "media-4")
	require.Error(t, err)
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	client := NewMediaClient()
	data, contentType, err := client.Download(context.Background(), mediaTestChannel(server.URL), server.URL+"/signed/media-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDownloadUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewMediaClient()
	_, _, err := client.Download(context.Background(), mediaTestChannel(server.URL), server.URL+"/signed/media-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthorization))
}
