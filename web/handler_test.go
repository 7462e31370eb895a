package web_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/nasermirzaei89/corkboard/client"
	"github.com/nasermirzaei89/corkboard/random"
	"github.com/nasermirzaei89/corkboard/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, apiHandler http.HandlerFunc) *web.Handler {
	t.Helper()

	apiServer := httptest.NewServer(apiHandler)
	t.Cleanup(apiServer.Close)

	apiClient := client.New(apiServer.URL, apiServer.Client())
	cookieStore := sessions.NewCookieStore([]byte(random.String(32)))

	h, err := web.NewHandler(apiClient, cookieStore, "corkboard-test")
	require.NoError(t, err)

	return h
}

func TestHandleBoardPage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","username":"amy","message":"hello board","createdAt":"2026-03-01T12:00:00Z","updatedAt":"2026-03-01T12:00:00Z","replies":[{"username":"bo","message":"hey","createdAt":"2026-03-01T13:00:00Z"}]}
		]`))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello board")
	assert.Contains(t, rec.Body.String(), "amy")
	assert.Contains(t, rec.Body.String(), "hey")
}

func TestHandleBoardPageFiltered(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","username":"amy","message":"hi there","createdAt":"2026-03-01T12:00:00Z","updatedAt":"2026-03-01T12:00:00Z","replies":[]},
			{"id":"p2","username":"bo","message":"bye","createdAt":"2026-03-01T13:00:00Z","updatedAt":"2026-03-01T13:00:00Z","replies":[]}
		]`))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=hi", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hi there")
	assert.NotContains(t, rec.Body.String(), "bye")
}

func TestHandleCreatePostRedirects(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p1","username":"amy","message":"hello","createdAt":"2026-03-01T12:00:00Z","updatedAt":"2026-03-01T12:00:00Z","replies":[]}`))
	})

	form := url.Values{}
	form.Set("username", "amy")
	form.Set("message", "hello")

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHandleDeletePostRedirects(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/p1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Post deleted successfully"}`))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts/p1/delete", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
