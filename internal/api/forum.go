package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/identity"
	"github.com/krishimitra/server/internal/lang"
	"github.com/krishimitra/server/internal/store"
)

const maxForumPosts = 100

// HandleListPosts handles GET /api/forum/posts.
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context(), maxForumPosts)
	if err != nil {
		h.logger.Error("Failed to list forum posts", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []*domain.ForumPost{}
	}
	JSON(w, http.StatusOK, posts)
}

type createPostRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Language string `json:"language,omitempty"`
	Author   string `json:"author,omitempty"`
}

// HandleCreatePost handles POST /api/forum/posts. The author defaults to
// the device's derived pseudonym; the language is detected from the body
// when not given.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		Error(w, http.StatusBadRequest, "title and body are required")
		return
	}

	language := req.Language
	if language == "" {
		language = lang.Detect(req.Body)
	}
	if !lang.IsSupported(language) {
		Error(w, http.StatusBadRequest, "unsupported language: "+language)
		return
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = identity.DisplayNameFromContext(r.Context())
	}

	post := &domain.ForumPost{
		ID:        uuid.NewString(),
		AuthorID:  identity.UserIDFromContext(r.Context()),
		Author:    author,
		Title:     req.Title,
		Body:      req.Body,
		Language:  language,
		CreatedAt: time.Now(),
	}

	if err := h.repo.CreatePost(r.Context(), post); err != nil {
		h.logger.Error("Failed to create forum post", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	JSON(w, http.StatusCreated, post)
}

// HandleLikePost handles POST /api/forum/posts/{id}/like.
func (h *Handler) HandleLikePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.LikePost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("Failed to like forum post", "error", err, "post_id", id)
		Error(w, http.StatusInternalServerError, "failed to like post")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "liked"})
}
