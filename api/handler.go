package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/handlers"
	"github.com/nasermirzaei89/corkboard/board"
)

type Handler struct {
	mux      *http.ServeMux
	handler  http.Handler
	boardSvc *board.Service
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(boardSvc *board.Service, corsAllowedOrigins []string) *Handler {
	h := &Handler{
		mux:      nil,
		handler:  nil,
		boardSvc: boardSvc,
	}

	{
		h.mux = &http.ServeMux{}
		h.handler = h.mux

		h.registerRoutes()
	}

	{
		corsMiddleware := handlers.CORS(
			handlers.AllowedOrigins(corsAllowedOrigins),
			handlers.AllowedMethods([]string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
			}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)

		h.handler = corsMiddleware(h.handler)
		h.handler = loggingMiddleware(h.handler)
		h.handler = recoverMiddleware(h.handler)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("GET /{$}", h.HandleRoot())

	h.mux.Handle("GET /api/posts", h.HandleListPosts())
	h.mux.Handle("POST /api/posts", h.HandleCreatePost())
	h.mux.Handle("POST /api/posts/{postId}/replies", h.HandleAddReply())
	h.mux.Handle("PUT /api/posts/{postId}", h.HandleEditPost())
	h.mux.Handle("DELETE /api/posts/{postId}", h.HandleDeletePost())
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

				writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
					Error: "internal error occurred",
				})
			}
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		slog.InfoContext(r.Context(), "request handled", "method", r.Method, "path", r.URL.Path)
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}

func (h *Handler) HandleRoot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		_, _ = w.Write([]byte("Message Board API is running"))
	})
}

func (h *Handler) HandleListPosts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.boardSvc.ListPosts(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list posts", "error", err)
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				Error: "Failed to fetch posts",
			})

			return
		}

		writeJSON(r.Context(), w, http.StatusOK, posts)
	})
}

func (h *Handler) HandleCreatePost() http.Handler {
	type request struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request

		err := decodeJSON(r, &req)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
				Error: "Username and message are required",
			})

			return
		}

		post, err := h.boardSvc.CreatePost(r.Context(), board.CreatePostRequest{
			Username: req.Username,
			Message:  req.Message,
		})
		if err != nil {
			var validationErr board.ValidationError
			if errors.As(err, &validationErr) {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
					Error: "Username and message are required",
				})

				return
			}

			slog.ErrorContext(r.Context(), "failed to create post", "error", err)
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				Error: "Failed to create post",
			})

			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, post)
	})
}

func (h *Handler) HandleAddReply() http.Handler {
	type request struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("postId")

		var req request

		err := decodeJSON(r, &req)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
				Error: "Username and message are required",
			})

			return
		}

		err = h.boardSvc.AddReply(r.Context(), board.AddReplyRequest{
			PostID:   postID,
			Username: req.Username,
			Message:  req.Message,
		})
		if err != nil {
			var validationErr board.ValidationError
			if errors.As(err, &validationErr) {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
					Error: "Username and message are required",
				})

				return
			}

			var notFoundErr board.PostNotFoundError
			if errors.As(err, &notFoundErr) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{
					Error: "Post not found",
				})

				return
			}

			slog.ErrorContext(r.Context(), "failed to add reply", "error", err, "postId", postID)
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				Error:   "Failed to add reply",
				Details: err.Error(),
			})

			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, messageResponse{
			Message: "Reply added successfully",
		})
	})
}

func (h *Handler) HandleEditPost() http.Handler {
	type request struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("postId")

		var req request

		err := decodeJSON(r, &req)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
				Error: "Message is required to update",
			})

			return
		}

		res, err := h.boardSvc.EditPost(r.Context(), board.EditPostRequest{
			PostID:  postID,
			Message: req.Message,
		})
		if err != nil {
			var validationErr board.ValidationError
			if errors.As(err, &validationErr) {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
					Error: "Message is required to update",
				})

				return
			}

			var notFoundErr board.PostNotFoundError
			if errors.As(err, &notFoundErr) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{
					Error: "Post not found",
				})

				return
			}

			slog.ErrorContext(r.Context(), "failed to update post", "error", err, "postId", postID)
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				Error: "Failed to update post",
			})

			return
		}

		writeJSON(r.Context(), w, http.StatusOK, res)
	})
}

func (h *Handler) HandleDeletePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("postId")

		err := h.boardSvc.DeletePost(r.Context(), postID)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to delete post", "error", err, "postId", postID)
			writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{
				Error: "Failed to delete post",
			})

			return
		}

		writeJSON(r.Context(), w, http.StatusOK, messageResponse{
			Message: "Post deleted successfully",
		})
	})
}
