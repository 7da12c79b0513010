// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"
	"sync"

	"github.com/MKhiriev/go-session-gate/internal/adapter"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/store"
	"github.com/MKhiriev/go-session-gate/models"
)

// defaultPlaceholder is the greeting used when no better name exists.
const defaultPlaceholder = "there"

type nameResolver struct {
	profiles    adapter.ProfileStore
	cache       store.NameCache
	log         *logger.Logger
	placeholder string

	mu          sync.Mutex
	ctx         context.Context
	unsubscribe func()
	// generation numbers each lookup; a completed lookup applies its result
	// only while its generation is still the latest, so a slow lookup for an
	// earlier email can never overwrite a later one.
	generation uint64
	display    string
	resolving  bool
	softErr    string

	wg sync.WaitGroup
}

// NewNameResolver creates the display name resolution cascade. An empty
// placeholder falls back to "there".
func NewNameResolver(profiles adapter.ProfileStore, cache store.NameCache, log *logger.Logger, placeholder string) NameResolver {
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	return &nameResolver{
		profiles:    profiles,
		cache:       cache,
		log:         log,
		placeholder: placeholder,
	}
}

// Start implements [NameResolver].
func (r *nameResolver) Start(ctx context.Context, sessions SessionWatcher) error {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.ctx = ctx
	r.mu.Unlock()

	unsubscribe, err := sessions.OnChange(r.onSessionChange)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()
	return nil
}

// Stop implements [NameResolver].
func (r *nameResolver) Stop() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	r.wg.Wait()
}

// Display implements [NameResolver].
func (r *nameResolver) Display() models.DisplayState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.DisplayState{Name: r.display, Resolving: r.resolving, Err: r.softErr}
}

// onSessionChange runs the cascade for every session change that carries an
// email. Signed-out changes are ignored on purpose: route guards redirect
// away, and stale resolved text staying visible until then is accepted.
func (r *nameResolver) onSessionChange(user *models.User) {
	if user == nil || user.Email == "" {
		return
	}

	r.mu.Lock()
	// Initial value, synchronous, no remote I/O: device cache, then the
	// locally known name, then the email local-part, then the placeholder.
	r.display = r.initialDisplayLocked(user)
	r.generation++
	generation := r.generation
	r.resolving = true
	r.softErr = ""
	ctx := r.ctx
	r.mu.Unlock()

	lookup := *user
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.resolve(ctx, generation, lookup)
	}()
}

func (r *nameResolver) initialDisplayLocked(user *models.User) string {
	if cached, err := r.cache.Get(r.ctx); err == nil && cached != "" {
		return cached
	}
	return r.fallbackName(user)
}

// resolve queries the document store for a profile record matching the
// lowercased email and applies the result unless a newer lookup has started
// since.
func (r *nameResolver) resolve(ctx context.Context, generation uint64, user models.User) {
	record, err := r.profiles.FindProfileByEmail(ctx, strings.ToLower(user.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.generation {
		// A lookup for a later email already owns the display.
		r.log.Debug().Str("email", user.Email).Msg("discarding stale name lookup result")
		return
	}
	r.resolving = false

	if err != nil {
		// Soft failure: keep whatever is displayed, surface an advisory.
		r.softErr = err.Error()
		r.log.Warn().Err(err).Str("email", user.Email).Msg("name lookup failed")
		return
	}

	next := r.fallbackName(&user)
	if record != nil {
		if name := strings.TrimSpace(record.Name); name != "" {
			next = name
		}
	}

	r.display = next
	r.softErr = ""

	if err := r.cache.Set(ctx, next); err != nil {
		// Cache persistence is best-effort; the resolved name still shows.
		r.log.Warn().Err(err).Msg("failed to persist resolved display name")
	}
}

// fallbackName is the tail of the cascade shared by the initial display and
// the post-lookup fallback: known name, then email local-part, then the
// placeholder.
func (r *nameResolver) fallbackName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	if localPart := emailLocalPart(user.Email); localPart != "" {
		return localPart
	}
	return r.placeholder
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return ""
}
