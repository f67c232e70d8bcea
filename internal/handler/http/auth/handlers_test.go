package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/domain/entity"
	"newsboard/internal/usecase/account"
)

type fakeAccounts struct {
	registered *entity.Account
	regErr     error
	authErr    error
	gotEmail   string
	gotPass    string
}

func (f *fakeAccounts) Register(_ context.Context, email, name, _ string) (*entity.Account, error) {
	f.gotEmail = email
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &entity.Account{ID: 3, Email: email, Name: name}, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, password string) (*entity.Account, error) {
	f.gotEmail, f.gotPass = email, password
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &entity.Account{ID: 9, Email: email, Name: "Ann", Privileged: true}, nil
}

func jsonRequest(t *testing.T, path string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "created", wantCode: http.StatusCreated},
		{name: "invalid", err: &entity.ValidationError{Field: "email", Message: "invalid"}, wantCode: http.StatusBadRequest},
		{name: "exists", err: account.ErrAccountExists, wantCode: http.StatusConflict},
		{name: "storage failure", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{Accounts: &fakeAccounts{regErr: tt.err}, Tokens: NewTokens("s", time.Hour)}
			rec := httptest.NewRecorder()
			h.Register(rec, jsonRequest(t, "/register", credentials{Email: "a@example.com", Name: "Ann", Password: "secret123"}))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusCreated {
				var body registerResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, registerResponse{ID: 3, Name: "Ann"}, body)
			}
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestHandler_Register_MalformedJSON(t *testing.T) {
	h := &Handler{Accounts: &fakeAccounts{}, Tokens: NewTokens("s", time.Hour)}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login_SetsSessionCookie(t *testing.T) {
	tokens := NewTokens("s", time.Hour)
	accounts := &fakeAccounts{}
	h := &Handler{Accounts: accounts, Tokens: tokens, SecureCookie: true}

	form := url.Values{"email": {"ann@example.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", accounts.gotEmail)
	assert.Equal(t, "secret123", accounts.gotPass)

	var body tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	id, err := tokens.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, Identity{AccountID: 9, Name: "Ann", Privileged: true}, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, body.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestHandler_Login_Failures(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{err: account.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{err: fmt.Errorf("lookup: %w", errors.New("timeout")), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.wantCode), func(t *testing.T) {
			h := &Handler{Accounts: &fakeAccounts{authErr: tt.err}, Tokens: NewTokens("s", time.Hour)}
			rec := httptest.NewRecorder()
			h.Login(rec, jsonRequest(t, "/login", credentials{Email: "a@example.com", Password: "x"}))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	h := &Handler{Tokens: NewTokens("s", time.Hour)}
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}
