package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/viralforge/authgate/internal/application"
	"github.com/viralforge/authgate/internal/domain"
)

// Handler is the HTTP adapter entrypoint for the authentication use-cases.
// Keeping only the application dependency here preserves adapter boundaries.
type Handler struct {
	service    *application.Service
	cookieName string
}

// NewHandler constructs an HTTP handler bound to the application service.
// cookieName is the session cookie the service reads and sets.
func NewHandler(service *application.Service, cookieName string) *Handler {
	return &Handler{service: service, cookieName: cookieName}
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Bienvenue")
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "OK"})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			writeMessage(w, http.StatusBadRequest, "email already registered")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logFailure(r, "create_user", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":   user.Email,
		"message": "user created",
	})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logFailure(r, "create_session", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeUnauthorized(w)
		return
	}

	token, err := h.service.Sessions().Create(r.Context(), user.Email)
	if err != nil {
		h.logFailure(r, "create_session", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"email":   user.Email,
		"message": "logged in",
	})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		h.logFailure(r, "delete_session", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeForbidden(w)
		return
	}

	if err := h.service.Sessions().Destroy(r.Context(), user.ID); err != nil {
		h.logFailure(r, "delete_session", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		h.logFailure(r, "profile", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeForbidden(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"email": user.Email})
}

func (h *Handler) resetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.service.Recovery().IssueToken(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeForbidden(w)
			return
		}
		h.logFailure(r, "reset_password_request", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":       req.Email,
		"reset_token": token,
	})
}

func (h *Handler) resetPasswordUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		ResetToken  string `json:"reset_token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Recovery().ConsumeToken(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			writeForbidden(w)
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logFailure(r, "reset_password_update", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":   req.Email,
		"message": "Password updated",
	})
}

// sessionUser resolves the request's session cookie to its owning user.
// The gate may have resolved it already; the context copy is preferred to
// avoid a second lookup.
func (h *Handler) sessionUser(r *http.Request) (*domain.User, error) {
	if user, ok := userFromContext(r.Context()); ok {
		return user, nil
	}
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		return nil, nil
	}
	return h.service.Sessions().Resolve(r.Context(), cookie.Value)
}

func (h *Handler) logFailure(r *http.Request, operation string, err error) {
	httpLogger().ErrorContext(r.Context(), "http operation failed",
		"operation", operation,
		"outcome", "failure",
		"request_id", requestIDFromContext(r.Context()),
		"error", err.Error(),
	)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
