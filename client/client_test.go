package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nasermirzaei89/corkboard/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.New(srv.URL, srv.Client())
}

func TestClient_FetchPosts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	apiClient := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","username":"amy","message":"hello","createdAt":"2026-03-01T12:00:00Z","updatedAt":"2026-03-01T12:00:00Z","replies":[]},
			{"id":"p2","username":"bo","message":"hey","createdAt":"2026-03-01T13:00:00Z","updatedAt":"2026-03-01T13:00:00Z","replies":[{"username":"amy","message":"welcome","createdAt":"2026-03-01T14:00:00Z"}]}
		]`))
	})

	posts, err := apiClient.FetchPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "p1", posts[0].ID)
	assert.Empty(t, posts[0].Replies)
	require.Len(t, posts[1].Replies, 1)
	assert.Equal(t, "welcome", posts[1].Replies[0].Message)
}

func TestClient_CreatePost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	apiClient := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p1","username":"amy","message":"hello","createdAt":"2026-03-01T12:00:00Z","updatedAt":"2026-03-01T12:00:00Z","replies":[]}`))
	})

	post, err := apiClient.CreatePost(ctx, "amy", "hello")
	require.NoError(t, err)

	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "amy", post.Username)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	apiClient := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Post not found"}`))
	})

	err := apiClient.AddReply(ctx, "no-such-id", "bo", "hey")
	require.Error(t, err)

	apiErr := client.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Post not found", apiErr.Message)
}

func TestClient_MutationsAcknowledged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var lastMethod, lastPath string

	apiClient := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		lastPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	err := apiClient.EditPost(ctx, "p1", "hello again")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, lastMethod)
	assert.Equal(t, "/api/posts/p1", lastPath)

	err = apiClient.DeletePost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, lastMethod)
	assert.Equal(t, "/api/posts/p1", lastPath)
}
