// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-session-gate/internal/config"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/models"
)

func newTestIdentityProvider(t *testing.T, serverURL string) *httpIdentityProvider {
	t.Helper()
	cfg := config.ClientAdapter{IdentityAddress: serverURL, RequestTimeout: 5 * time.Second}

	p, err := NewHTTPIdentityProvider(cfg, logger.Nop())
	require.NoError(t, err)
	return p.(*httpIdentityProvider)
}

func signTestIDToken(t *testing.T, id, email, name string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": id, "email": email}
	if name != "" {
		claims["name"] = name
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-sign-key"))
	require.NoError(t, err)
	return token
}

// ── SignIn ──────────────────────────────────────────────────────────────────

func TestSignIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Authorization", "Bearer "+signTestIDToken(t, "u-1", "alice@example.com", ""))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	err := p.SignIn(context.Background(), "alice@example.com", "secret")

	require.NoError(t, err)
	assert.NotEmpty(t, p.Token())
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("wrong password"))
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	err := p.SignIn(context.Background(), "alice@example.com", "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "wrong password")
	assert.Empty(t, p.Token())
}

func TestSignIn_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("provider down"))
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	err := p.SignIn(context.Background(), "alice@example.com", "secret")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

// ── SignUp ──────────────────────────────────────────────────────────────────

func TestSignUp_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)

		w.Header().Set("Authorization", "Bearer "+signTestIDToken(t, "u-42", "new@example.com", ""))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Principal{ID: "u-42", Email: "new@example.com"})
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	principal, err := p.SignUp(context.Background(), "new@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "u-42", principal.ID)
	assert.Equal(t, "new@example.com", principal.Email)
	assert.NotEmpty(t, p.Token())
}

func TestSignUp_EmailTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("email already registered"))
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	_, err := p.SignUp(context.Background(), "taken@example.com", "pw")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_MissingPrincipalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"new@example.com"}`))
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	_, err := p.SignUp(context.Background(), "new@example.com", "pw")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing principal id")
}

// ── SignOut ─────────────────────────────────────────────────────────────────

func TestSignOut_SendsBearerAndClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	p.SetToken("session-token")

	require.NoError(t, p.SignOut(context.Background()))
	assert.Empty(t, p.Token())
}

func TestSignOut_ServerError_KeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)
	p.SetToken("session-token")

	err := p.SignOut(context.Background())

	require.Error(t, err)
	assert.Equal(t, "session-token", p.Token())
}

// ── Subscribe ───────────────────────────────────────────────────────────────

func TestSubscribe_DeliversSessionEvents(t *testing.T) {
	signedIn := signTestIDToken(t, "u-1", "Alice@Example.com", "Alice")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sessionEventsPath, r.URL.Path)

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		fmt.Fprintf(w, "data: {\"token\":%q}\n\n", signedIn)
		flusher.Flush()
		fmt.Fprint(w, "data: {\"token\":\"\"}\n\n")
		flusher.Flush()

		<-r.Context().Done()
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)

	events := make(chan *models.Principal, 4)
	unsubscribe, err := p.Subscribe(context.Background(), func(principal *models.Principal) {
		events <- principal
	})
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case got := <-events:
		require.NotNil(t, got)
		assert.Equal(t, "u-1", got.ID)
		assert.Equal(t, "Alice@Example.com", got.Email)
		assert.Equal(t, "Alice", got.Name)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for signed-in event")
	}

	select {
	case got := <-events:
		assert.Nil(t, got, "empty token must be delivered as a signed-out event")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for signed-out event")
	}
}

func TestSubscribe_NilHandler(t *testing.T) {
	p := newTestIdentityProvider(t, "http://localhost:0")

	_, err := p.Subscribe(context.Background(), nil)

	require.Error(t, err)
}

func TestSubscribe_UnsubscribeStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := newTestIdentityProvider(t, srv.URL)

	unsubscribe, err := p.Subscribe(context.Background(), func(*models.Principal) {})
	require.NoError(t, err)

	finished := make(chan struct{})
	go func() {
		unsubscribe()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(3 * time.Second):
		t.Fatal("unsubscribe did not return")
	}
}

// ── decodeSessionEvent ──────────────────────────────────────────────────────

func TestDecodeSessionEvent(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-7",
		"email": "bo@example.com",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		payload   string
		wantNil   bool
		wantErr   bool
		wantID    string
		wantEmail string
	}{
		{name: "empty payload means signed out", payload: "", wantNil: true},
		{name: "null payload means signed out", payload: "null", wantNil: true},
		{name: "empty token means signed out", payload: `{"token":""}`, wantNil: true},
		{name: "valid token", payload: `{"token":"` + token + `"}`, wantID: "u-7", wantEmail: "bo@example.com"},
		{name: "malformed json", payload: `{"token":`, wantErr: true},
		{name: "garbage token", payload: `{"token":"not-a-jwt"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := decodeSessionEvent(tt.payload)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, principal)
				return
			}
			require.NotNil(t, principal)
			assert.Equal(t, tt.wantID, principal.ID)
			assert.Equal(t, tt.wantEmail, principal.Email)
		})
	}
}

func TestPrincipalFromIDToken_MissingSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "nobody@example.com",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = principalFromIDToken(token)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject")
}
