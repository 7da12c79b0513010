package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-session-gate/internal/adapter"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/models"
)

type sessionService struct {
	identity adapter.IdentityProvider
	profiles adapter.ProfileStore
	log      *logger.Logger

	mu          sync.RWMutex
	started     bool
	unsubscribe func()
	user        *models.User
	observers   map[uuid.UUID]func(*models.User)
}

// NewSessionService creates the session store. The service is inert until
// Start is called.
func NewSessionService(identity adapter.IdentityProvider, profiles adapter.ProfileStore, log *logger.Logger) SessionService {
	return &sessionService{
		identity:  identity,
		profiles:  profiles,
		log:       log,
		observers: make(map[uuid.UUID]func(*models.User)),
	}
}

// Start implements [SessionService]. It opens the single provider
// subscription; the subscription stays open until Stop or ctx cancellation.
func (s *sessionService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	unsubscribe, err := s.identity.Subscribe(ctx, s.onProviderChange)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	s.log.Info().Msg("session service started")
	return nil
}

// Stop implements [SessionService].
func (s *sessionService) Stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.started = false
	s.mu.Unlock()

	// The subscription goroutine may be inside onProviderChange, which takes
	// the lock, so the blocking unsubscribe must run outside it.
	if unsubscribe != nil {
		unsubscribe()
	}
	s.log.Info().Msg("session service stopped")
}

func (s *sessionService) CurrentUser() (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return copyUser(s.user), nil
}

func (s *sessionService) OnChange(fn func(user *models.User)) (func(), error) {
	if fn == nil {
		return nil, ErrNotStarted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	id := uuid.New()
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}, nil
}

// Login implements [SessionService]. Provider errors pass through unwrapped
// so callers can classify them with errors.Is against the adapter sentinels.
func (s *sessionService) Login(ctx context.Context, email, password string) error {
	return s.identity.SignIn(ctx, normalizeEmail(email), password)
}

func (s *sessionService) Signup(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)

	principal, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	record := models.ProfileRecord{ID: principal.ID, Email: email, Name: name}
	if err := s.profiles.WriteProfile(ctx, principal.ID, record); err != nil {
		// The account exists but has no profile record. The name cascade
		// falls back to the provider name or the email local-part later.
		s.log.Error().Err(err).Str("user_id", principal.ID).Msg("profile record write failed after signup")
		return fmt.Errorf("%w: %v", ErrProfileWrite, err)
	}

	// Set the user now instead of waiting for the provider notification so
	// the chosen name is available on the very first render.
	s.replaceUser(&models.User{ID: principal.ID, Email: email, Name: name})
	return nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.identity.SignOut(ctx); err != nil {
		return err
	}

	s.replaceUser(nil)
	return nil
}

// onProviderChange bridges provider notifications into the local user value.
// An authenticated principal with a non-empty email replaces the user; any
// other notification clears it. A known name survives only while the
// principal id is unchanged.
func (s *sessionService) onProviderChange(principal *models.Principal) {
	s.mu.Lock()
	var next *models.User
	if principal != nil && principal.Email != "" {
		next = &models.User{ID: principal.ID, Email: normalizeEmail(principal.Email)}
		if s.user != nil && s.user.ID == principal.ID {
			next.Name = s.user.Name
		}
	}
	s.user = next
	observers := s.observerSnapshotLocked()
	s.mu.Unlock()

	if next == nil {
		s.log.Debug().Msg("provider reported no session, user cleared")
	} else {
		s.log.Debug().Str("user_id", next.ID).Msg("provider session established")
	}

	notifyObservers(observers, next)
}

func (s *sessionService) replaceUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	observers := s.observerSnapshotLocked()
	s.mu.Unlock()

	notifyObservers(observers, user)
}

func (s *sessionService) observerSnapshotLocked() []func(*models.User) {
	observers := make([]func(*models.User), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return observers
}

// notifyObservers runs outside the session lock: observers are free to call
// CurrentUser or OnChange from their callback. Each observer gets its own
// copy of the user value.
func notifyObservers(observers []func(*models.User), user *models.User) {
	for _, fn := range observers {
		fn(copyUser(user))
	}
}

func copyUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}
	u := *user
	return &u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
