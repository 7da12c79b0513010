package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-session-gate/internal/config"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/models"
)

const sessionEventsPath = "/api/session/events"

type httpIdentityProvider struct {
	client *resty.Client
	// stream has no client-level timeout: the session event stream stays
	// open for the lifetime of the subscription.
	stream *resty.Client
	log    *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPIdentityProvider creates an [IdentityProvider] backed by the
// provider's HTTP/REST API at cfg.IdentityAddress.
func NewHTTPIdentityProvider(cfg config.ClientAdapter, log *logger.Logger) (IdentityProvider, error) {
	if cfg.IdentityAddress == "" {
		return nil, errors.New("identity provider address is empty")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(cfg.IdentityAddress, "/")
	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	stream := resty.New().
		SetBaseURL(baseURL)

	return &httpIdentityProvider{client: cli, stream: stream, log: log}, nil
}

func (h *httpIdentityProvider) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpIdentityProvider) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpIdentityProvider) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("sign in request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, strings.TrimSpace(string(resp.Body())))
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if token, err := parseBearerToken(resp.Header().Get("Authorization")); err == nil {
		h.SetToken(token)
	}
	return nil
}

func (h *httpIdentityProvider) SignUp(ctx context.Context, email, password string) (models.Principal, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/auth/register")
	if err != nil {
		return models.Principal{}, fmt.Errorf("sign up request: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.Principal{}, fmt.Errorf("%w: %s", ErrEmailTaken, strings.TrimSpace(string(resp.Body())))
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Principal{}, err
	}

	var principal models.Principal
	if err = json.Unmarshal(resp.Body(), &principal); err != nil {
		return models.Principal{}, fmt.Errorf("decode sign up response: %w", err)
	}
	if principal.ID == "" {
		return models.Principal{}, errors.New("sign up response missing principal id")
	}

	if token, err := parseBearerToken(resp.Header().Get("Authorization")); err == nil {
		h.SetToken(token)
	}
	return principal, nil
}

func (h *httpIdentityProvider) SignOut(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("sign out request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken("")
	return nil
}

// Subscribe implements [IdentityProvider]. The provider publishes session
// changes as a server-sent-events stream; every event carries the current ID
// token, or an empty payload when the session has ended. The stream is
// re-opened with fibonacci backoff (capped at 10s) after any interruption
// until ctx is cancelled or unsubscribe is called.
func (h *httpIdentityProvider) Subscribe(ctx context.Context, handler SessionHandler) (func(), error) {
	if handler == nil {
		return nil, errors.New("nil session handler")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		backoff := retry.WithCappedDuration(10*time.Second, retry.NewFibonacci(500*time.Millisecond))
		_ = retry.Do(streamCtx, backoff, func(ctx context.Context) error {
			err := h.consumeSessionEvents(ctx, handler)
			if ctx.Err() != nil {
				return nil
			}
			h.log.Warn().Err(err).Msg("session event stream interrupted, reconnecting")
			return retry.RetryableError(err)
		})
	}()

	unsubscribe := func() {
		cancel()
		<-done
	}
	return unsubscribe, nil
}

// consumeSessionEvents opens one stream connection and dispatches events
// until the connection drops or ctx is cancelled. It always returns a
// non-nil error; the caller decides whether it is worth reconnecting.
func (h *httpIdentityProvider) consumeSessionEvents(ctx context.Context, handler SessionHandler) error {
	resp, err := h.stream.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "text/event-stream").
		Get(sessionEventsPath)
	if err != nil {
		return fmt.Errorf("open session event stream: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("session event stream: http %d", resp.StatusCode())
	}

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		principal, err := decodeSessionEvent(payload)
		if err != nil {
			h.log.Warn().Err(err).Msg("skipping malformed session event")
			continue
		}
		handler(principal)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session event stream: %w", err)
	}

	return errors.New("session event stream closed by provider")
}

type sessionEvent struct {
	Token string `json:"token"`
}

// decodeSessionEvent turns one stream payload into a principal. An empty
// payload or an empty token means the provider reports no session.
func decodeSessionEvent(payload string) (*models.Principal, error) {
	if payload == "" || payload == "null" {
		return nil, nil
	}

	var ev sessionEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, fmt.Errorf("decode session event: %w", err)
	}
	if ev.Token == "" {
		return nil, nil
	}

	return principalFromIDToken(ev.Token)
}

// principalFromIDToken extracts the principal from the provider's ID token.
// The token signature is not verified here: the client trusts its TLS channel
// to the provider, matching how provider SDKs surface the session identity.
func principalFromIDToken(tokenString string) (*models.Principal, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid id token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("id token missing subject")
	}

	principal := &models.Principal{ID: sub}
	if email, ok := claims["email"].(string); ok {
		principal.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		principal.Name = name
	}

	return principal, nil
}

func (h *httpIdentityProvider) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
