package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/domain/entity"
)

func captureIdentity(t *testing.T, tokens *Tokens, prepare func(r *http.Request)) Identity {
	t.Helper()
	var got Identity
	h := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CurrentIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	prepare(req)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return got
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, _, err := tokens.Issue(&entity.Account{ID: 7, Name: "Eve"})
	require.NoError(t, err)
	want := Identity{AccountID: 7, Name: "Eve"}

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    Identity
	}{
		{
			name:    "no token",
			prepare: func(*http.Request) {},
			want:    entity.Anonymous,
		},
		{
			name:    "bearer header",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) },
			want:    want,
		},
		{
			name:    "lowercase scheme",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "bearer "+raw) },
			want:    want,
		},
		{
			name:    "session cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: raw}) },
			want:    want,
		},
		{
			name:    "invalid token stays anonymous",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") },
			want:    entity.Anonymous,
		},
		{
			name:    "basic scheme ignored",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			want:    entity.Anonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, captureIdentity(t, tokens, tt.prepare))
		})
	}
}

func TestCurrentIdentity_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, entity.Anonymous, CurrentIdentity(req.Context()))
}
