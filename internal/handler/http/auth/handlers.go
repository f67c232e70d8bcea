package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"newsboard/internal/domain/entity"
	"newsboard/internal/handler/http/respond"
	"newsboard/internal/usecase/account"
)

// maxFormBytes bounds register and login bodies.
const maxFormBytes = 16 << 10

// AccountService is the account use case used by the handlers.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (*entity.Account, error)
	Authenticate(ctx context.Context, email, password string) (*entity.Account, error)
}

// Handler serves the account endpoints.
type Handler struct {
	Accounts     AccountService
	Tokens       *Tokens
	SecureCookie bool
}

type credentials struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Privileged bool   `json:"privileged"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := readCredentials(w, r)
	if err != nil {
		record(actionRegister, resultInvalid)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	acc, err := h.Accounts.Register(r.Context(), in.Email, in.Name, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrInvalidInput):
		record(actionRegister, resultInvalid)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, account.ErrAccountExists):
		record(actionRegister, resultConflict)
		respond.SafeError(w, http.StatusConflict, err)
		return
	default:
		record(actionRegister, resultError)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	record(actionRegister, resultSuccess)
	respond.JSON(w, http.StatusCreated, registerResponse{ID: acc.ID, Name: acc.Name, Privileged: acc.Privileged})
}

// Login handles POST /login. It returns the token and sets it as the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readCredentials(w, r)
	if err != nil {
		record(actionLogin, resultInvalid)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	acc, err := h.Accounts.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			record(actionLogin, resultDenied)
			slog.WarnContext(r.Context(), "login failed", slog.String("reason", "invalid_credentials"))
			respond.SafeError(w, http.StatusUnauthorized, err)
			return
		}
		record(actionLogin, resultError)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	token, exp, err := h.Tokens.Issue(acc)
	if err != nil {
		record(actionLogin, resultError)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	record(actionLogin, resultSuccess)
	slog.InfoContext(r.Context(), "login succeeded", slog.Int64("account_id", acc.ID))
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp})
}

// Logout handles POST /logout by expiring the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	record(actionLogout, resultSuccess)
	w.WriteHeader(http.StatusNoContent)
}

// readCredentials accepts a JSON body or a urlencoded form.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	var in credentials
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, errors.New("invalid request body")
		}
		return in, nil
	}
	if err := r.ParseForm(); err != nil {
		return in, errors.New("invalid form body")
	}
	in.Email = r.PostFormValue("email")
	in.Name = r.PostFormValue("name")
	in.Password = r.PostFormValue("password")
	return in, nil
}
