package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/identity"
	"github.com/krishimitra/server/internal/lang"
	"github.com/krishimitra/server/internal/session"
)

type createSessionRequest struct {
	Language string `json:"language,omitempty"`
}

// HandleCreateSession handles POST /api/chat/session.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	language := req.Language
	if language == "" {
		language = lang.Default
	}
	if !lang.IsSupported(language) {
		Error(w, http.StatusBadRequest, "unsupported language: "+language)
		return
	}

	rec := &session.Record{
		ID:      "",
		Session: *domain.NewChatSession(language),
	}
	rec.ID = rec.Session.ID

	if err := h.sessions.Create(r.Context(), rec); err != nil {
		h.logger.Error("Failed to create chat session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("Chat session created",
		"session_id", rec.ID,
		"language", language,
		"user_id", identity.UserIDFromContext(r.Context()))
	JSON(w, http.StatusCreated, rec.Session)
}

// HandleGetSession handles GET /api/chat/session/{id}.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, rec.Session)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Session domain.ChatSession `json:"session"`
	Reply   domain.Message     `json:"reply"`
}

// HandleSendMessage handles POST /api/chat/session/{id}/message. The
// message language is detected server side; a confidently detected
// non-default language switches the session before the pipeline runs.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	// Clients that strip cookies still get rate limited, by address.
	limitKey := identity.UserIDFromContext(r.Context())
	if limitKey == "" {
		limitKey = identity.IPFromRequest(r)
	}
	if !h.limiter.Allow(limitKey) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	rec, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	sess := &rec.Session
	if detected := lang.Detect(req.Message); detected != lang.Default && detected != sess.Language {
		sess = sess.WithLanguage(detected)
	}

	updated := h.chat.SendMessage(r.Context(), sess, req.Message)

	rec.Session = *updated
	if err := h.updateWithRetry(r, rec); err != nil {
		h.logger.Error("Failed to persist chat session", "error", err, "session_id", rec.ID)
		Error(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	reply := updated.Messages[len(updated.Messages)-1]
	JSON(w, http.StatusOK, sendMessageResponse{Session: *updated, Reply: reply})
}

type setLanguageRequest struct {
	Language string `json:"language"`
}

// HandleSetLanguage handles PUT /api/chat/session/{id}/language.
func (h *Handler) HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req setLanguageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !lang.IsSupported(req.Language) {
		Error(w, http.StatusBadRequest, "unsupported language: "+req.Language)
		return
	}

	rec.Session = *rec.Session.WithLanguage(req.Language)
	if err := h.updateWithRetry(r, rec); err != nil {
		h.logger.Error("Failed to persist language change", "error", err, "session_id", rec.ID)
		Error(w, http.StatusInternalServerError, "failed to persist session")
		return
	}
	JSON(w, http.StatusOK, rec.Session)
}

// HandleDeleteSession handles DELETE /api/chat/session/{id}.
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete chat session", "error", err, "session_id", id)
		Error(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLanguages handles GET /api/chat/languages.
func (h *Handler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"languages": lang.Supported})
}

// HandleAgriTerms handles GET /api/chat/terms. The dashboard uses the
// localized terms for labels and suggestion chips.
func (h *Handler) HandleAgriTerms(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("language")
	if code == "" {
		code = lang.Default
	}
	JSON(w, http.StatusOK, map[string]any{
		"language": code,
		"terms":    lang.AgriTerms(code),
	})
}

// HandleQuickQuestions handles GET /api/chat/questions.
func (h *Handler) HandleQuickQuestions(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("language")
	if code == "" {
		code = lang.Default
	}
	JSON(w, http.StatusOK, map[string]any{
		"language":  code,
		"questions": lang.QuickQuestions(code),
	})
}

// HandleRecommend handles GET /api/chat/recommend. It produces a short,
// localized advisory for a dashboard topic like "irrigation" or "soil".
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		Error(w, http.StatusBadRequest, "topic is required")
		return
	}
	code := r.URL.Query().Get("language")
	if !lang.IsSupported(code) {
		code = lang.Default
	}
	JSON(w, http.StatusOK, map[string]string{
		"topic":          topic,
		"language":       code,
		"recommendation": h.chat.Recommend(r.Context(), topic, code),
	})
}

type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// HandleTranslate handles POST /api/chat/translate.
func (h *Handler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		Error(w, http.StatusBadRequest, "text is required")
		return
	}
	if !lang.IsSupported(req.Language) {
		Error(w, http.StatusBadRequest, "unsupported language: "+req.Language)
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"language":   req.Language,
		"translated": h.chat.Translate(r.Context(), req.Text, req.Language),
	})
}

// loadSession fetches the session record from the URL id, writing the
// error response itself when the session cannot be served.
func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*session.Record, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		Error(w, http.StatusBadRequest, "session id is required")
		return nil, false
	}

	rec, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load chat session", "error", err, "session_id", id)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return rec, true
}

// updateWithRetry retries a version-conflicted update once with a re-read.
// Conflicts are rare; a farmer typing in two tabs at once is the only
// realistic source.
func (h *Handler) updateWithRetry(r *http.Request, rec *session.Record) error {
	err := h.sessions.Update(r.Context(), rec)
	if !errors.Is(err, session.ErrVersionConflict) {
		return err
	}

	time.Sleep(50 * time.Millisecond)
	fresh, getErr := h.sessions.Get(r.Context(), rec.ID)
	if getErr != nil || fresh == nil {
		return err
	}
	rec.Version = fresh.Version
	return h.sessions.Update(r.Context(), rec)
}
