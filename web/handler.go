package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/nasermirzaei89/corkboard/client"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

const defaultSiteTitle = "Corkboard"

type Handler struct {
	mux         *http.ServeMux
	handler     http.Handler
	tpl         *template.Template
	api         *client.Client
	cookieStore *sessions.CookieStore
	sessionName string
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(
	api *client.Client,
	cookieStore *sessions.CookieStore,
	sessionName string,
) (*Handler, error) {
	h := &Handler{
		mux:         nil,
		handler:     nil,
		tpl:         nil,
		api:         api,
		cookieStore: cookieStore,
		sessionName: sessionName,
	}

	{
		tpl, err := template.New("").ParseFS(templatesFS, "templates/*.gohtml")
		if err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}

		h.tpl = tpl
	}

	{
		h.mux = &http.ServeMux{}
		h.handler = h.mux

		h.registerRoutes()
	}

	h.handler = recoverMiddleware(h.handler)

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("GET /{$}", h.HandleBoardPage())

	h.mux.Handle("POST /posts", h.HandleCreatePost())
	h.mux.Handle("POST /posts/{postId}/replies", h.HandleAddReply())
	h.mux.Handle("POST /posts/{postId}/edit", h.HandleEditPost())
	h.mux.Handle("POST /posts/{postId}/delete", h.HandleDeletePost())
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			if err := recover(); err != nil {
				slog.ErrorContext(
					ctx,
					"recovered from panic",
					"error",
					err,
					"stack",
					string(debug.Stack()),
				)

				http.Error(w, "internal error occurred", http.StatusInternalServerError)
			}
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}

// flash stores a one-shot notice in the session and redirects back to
// the board page.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, message string) {
	session, err := h.cookieStore.Get(r, h.sessionName)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get session", "error", err)
	}

	session.AddFlash(message)

	err = session.Save(r, w)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to save session", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	session, err := h.cookieStore.Get(r, h.sessionName)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to get session", "error", err)

		return nil
	}

	rawFlashes := session.Flashes()

	err = session.Save(r, w)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to save session", "error", err)
	}

	flashes := make([]string, 0, len(rawFlashes))

	for _, rawFlash := range rawFlashes {
		if s, ok := rawFlash.(string); ok {
			flashes = append(flashes, s)
		}
	}

	return flashes
}

func (h *Handler) HandleBoardPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Sort and search are transient view state, carried only in
		// the query string.
		viewState := client.ViewState{
			SortOrder:  client.SortOrder(r.URL.Query().Get("sort")),
			SearchTerm: r.URL.Query().Get("q"),
		}

		if viewState.SortOrder == "" {
			viewState.SortOrder = client.SortNewest
		}

		posts, err := h.api.FetchPosts(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to fetch posts", "error", err)
			http.Error(w, "Failed to fetch posts", http.StatusInternalServerError)

			return
		}

		data := map[string]any{
			"SiteTitle":  defaultSiteTitle,
			"Posts":      viewState.Apply(posts),
			"SortOrder":  string(viewState.SortOrder),
			"SearchTerm": viewState.SearchTerm,
			"Flashes":    h.popFlashes(w, r),
		}

		err = h.tpl.ExecuteTemplate(w, "board.gohtml", data)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to execute template", "error", err)
		}
	})
}

func (h *Handler) HandleCreatePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to parse form", "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)

			return
		}

		_, err = h.api.CreatePost(r.Context(), r.FormValue("username"), r.FormValue("message"))
		if err != nil {
			h.flashAPIError(w, r, err, "Failed to post message")

			return
		}

		h.flash(w, r, "Message posted")
	})
}

func (h *Handler) HandleAddReply() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to parse form", "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)

			return
		}

		postID := r.PathValue("postId")

		err = h.api.AddReply(r.Context(), postID, r.FormValue("username"), r.FormValue("message"))
		if err != nil {
			h.flashAPIError(w, r, err, "Failed to add reply")

			return
		}

		h.flash(w, r, "Reply added")
	})
}

func (h *Handler) HandleEditPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to parse form", "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)

			return
		}

		postID := r.PathValue("postId")

		err = h.api.EditPost(r.Context(), postID, r.FormValue("message"))
		if err != nil {
			h.flashAPIError(w, r, err, "Failed to update post")

			return
		}

		h.flash(w, r, "Post updated")
	})
}

func (h *Handler) HandleDeletePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("postId")

		err := h.api.DeletePost(r.Context(), postID)
		if err != nil {
			h.flashAPIError(w, r, err, "Failed to delete post")

			return
		}

		h.flash(w, r, "Post deleted")
	})
}

func (h *Handler) flashAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	slog.ErrorContext(r.Context(), "api call failed", "error", err)

	var apiErr client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		h.flash(w, r, apiErr.Message)

		return
	}

	h.flash(w, r, fallback)
}
