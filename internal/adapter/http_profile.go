package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-session-gate/internal/config"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/models"
)

type httpProfileStore struct {
	client *resty.Client
	tokens TokenSource
	log    *logger.Logger
}

// NewHTTPProfileStore creates a [ProfileStore] backed by the document store's
// HTTP/REST API at cfg.ProfileAddress. Requests are authenticated with the
// bearer token supplied by tokens; tokens may be nil for anonymous access.
func NewHTTPProfileStore(cfg config.ClientAdapter, tokens TokenSource, log *logger.Logger) (ProfileStore, error) {
	if cfg.ProfileAddress == "" {
		return nil, errors.New("profile store address is empty")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ProfileAddress, "/")).
		SetTimeout(timeout)

	return &httpProfileStore{client: cli, tokens: tokens, log: log}, nil
}

func (p *httpProfileStore) WriteProfile(ctx context.Context, id string, record models.ProfileRecord) error {
	if id == "" {
		return errors.New("empty profile id")
	}

	resp, err := p.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Put("/api/profiles/" + id)
	if err != nil {
		return fmt.Errorf("write profile request: %w", err)
	}

	return mapHTTPError(resp)
}

func (p *httpProfileStore) FindProfileByEmail(ctx context.Context, emailLowercase string) (*models.ProfileRecord, error) {
	resp, err := p.authedRequest(ctx).
		SetQueryParam("email", emailLowercase).
		SetQueryParam("limit", "1").
		Get("/api/profiles")
	if err != nil {
		return nil, fmt.Errorf("find profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var records []models.ProfileRecord
	if err = json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return &records[0], nil
}

func (p *httpProfileStore) authedRequest(ctx context.Context) *resty.Request {
	req := p.client.R().SetContext(ctx)
	if p.tokens != nil {
		if token := p.tokens.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
	}
	return req
}
