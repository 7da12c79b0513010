// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-session-gate/internal/adapter"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/mock"
	"github.com/MKhiriev/go-session-gate/internal/service"
	"github.com/MKhiriev/go-session-gate/models"
)

// newStartedSession builds a session service around mocked adapters, starts
// it, and returns the captured provider notification handler so tests can
// drive session changes directly.
func newStartedSession(t *testing.T, ctrl *gomock.Controller) (service.SessionService, *mock.MockIdentityProvider, *mock.MockProfileStore, func(*models.Principal)) {
	t.Helper()

	identity := mock.NewMockIdentityProvider(ctrl)
	profiles := mock.NewMockProfileStore(ctrl)

	var handler adapter.SessionHandler
	identity.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, h adapter.SessionHandler) (func(), error) {
			handler = h
			return func() {}, nil
		},
	)

	svc := service.NewSessionService(identity, profiles, logger.Nop())
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(svc.Stop)
	require.NotNil(t, handler)

	return svc, identity, profiles, handler
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

func TestSessionService_CurrentUserBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewSessionService(mock.NewMockIdentityProvider(ctrl), mock.NewMockProfileStore(ctrl), logger.Nop())

	_, err := svc.CurrentUser()
	assert.ErrorIs(t, err, service.ErrNotStarted)

	_, err = svc.OnChange(func(*models.User) {})
	assert.ErrorIs(t, err, service.ErrNotStarted)
}

func TestSessionService_DoubleStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newStartedSession(t, ctrl)

	err := svc.Start(context.Background())
	assert.ErrorIs(t, err, service.ErrAlreadyStarted)
}

func TestSessionService_StartSubscribeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := mock.NewMockIdentityProvider(ctrl)
	identity.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(nil, errors.New("stream refused")).Times(2)

	svc := service.NewSessionService(identity, mock.NewMockProfileStore(ctrl), logger.Nop())

	require.Error(t, svc.Start(context.Background()))
	// A failed Start leaves the service stopped, so it may be started again.
	require.Error(t, svc.Start(context.Background()))
}

// ── Provider notifications ──────────────────────────────────────────────────

func TestSessionService_NotificationEstablishesUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, notify := newStartedSession(t, ctrl)

	notify(&models.Principal{ID: "u-1", Email: "Alice@Example.com"})

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "alice@example.com", user.Email, "email must be normalized to lowercase")
	assert.Empty(t, user.Name, "name stays absent until known")
}

func TestSessionService_UserAbsentIffNoPrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, notify := newStartedSession(t, ctrl)

	sequence := []struct {
		principal *models.Principal
		wantUser  bool
	}{
		{principal: nil, wantUser: false},
		{principal: &models.Principal{ID: "u-1", Email: "a@x.com"}, wantUser: true},
		{principal: nil, wantUser: false},
		{principal: &models.Principal{ID: "u-2", Email: "b@x.com"}, wantUser: true},
		{principal: &models.Principal{ID: "u-3", Email: ""}, wantUser: false}, // empty email clears
		{principal: &models.Principal{ID: "u-2", Email: "b@x.com"}, wantUser: true},
	}

	for i, step := range sequence {
		notify(step.principal)

		user, err := svc.CurrentUser()
		require.NoError(t, err)
		if step.wantUser {
			assert.NotNil(t, user, "step %d", i)
		} else {
			assert.Nil(t, user, "step %d", i)
		}
	}
}

func TestSessionService_KnownNameSurvivesSamePrincipal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, profiles, notify := newStartedSession(t, ctrl)

	identity.EXPECT().SignUp(gomock.Any(), "newt@x.com", "pw").
		Return(models.Principal{ID: "u-9", Email: "newt@x.com"}, nil)
	profiles.EXPECT().WriteProfile(gomock.Any(), "u-9", gomock.Any()).Return(nil)

	require.NoError(t, svc.Signup(context.Background(), "newt@x.com", "pw", "Newt"))

	// The provider's own notification for the same principal keeps the name.
	notify(&models.Principal{ID: "u-9", Email: "newt@x.com"})
	user, err := svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Newt", user.Name)

	// A different principal does not inherit it.
	notify(&models.Principal{ID: "u-10", Email: "other@x.com"})
	user, err = svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, user.Name)
}

// ── Login ───────────────────────────────────────────────────────────────────

func TestLogin_DelegatesWithoutLocalUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, _, _ := newStartedSession(t, ctrl)

	identity.EXPECT().SignIn(gomock.Any(), "alice@x.com", "pw").Return(nil)

	require.NoError(t, svc.Login(context.Background(), " Alice@X.com ", "pw"))

	// The store updates reactively via the subscription, never here.
	user, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogin_CredentialErrorSurfacedVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, _, _ := newStartedSession(t, ctrl)

	identity.EXPECT().SignIn(gomock.Any(), "alice@x.com", "bad").
		Return(adapter.ErrInvalidCredentials)

	err := svc.Login(context.Background(), "alice@x.com", "bad")

	assert.ErrorIs(t, err, adapter.ErrInvalidCredentials)
}

// ── Signup ──────────────────────────────────────────────────────────────────

func TestSignup_ImmediateLocalUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, profiles, _ := newStartedSession(t, ctrl)

	gomock.InOrder(
		identity.EXPECT().SignUp(gomock.Any(), "new@x.com", "pw").
			Return(models.Principal{ID: "u-7", Email: "new@x.com"}, nil),
		profiles.EXPECT().WriteProfile(gomock.Any(), "u-7",
			models.ProfileRecord{ID: "u-7", Email: "new@x.com", Name: "Newt"}).
			Return(nil),
	)

	require.NoError(t, svc.Signup(context.Background(), "New@X.com", "pw", "Newt"))

	// The user is readable before any provider notification arrives.
	user, err := svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@x.com", user.Email)
	assert.Equal(t, "Newt", user.Name)
}

func TestSignup_ProviderRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, _, _ := newStartedSession(t, ctrl)

	identity.EXPECT().SignUp(gomock.Any(), "taken@x.com", "pw").
		Return(models.Principal{}, adapter.ErrEmailTaken)

	err := svc.Signup(context.Background(), "taken@x.com", "pw", "Tak")

	assert.ErrorIs(t, err, adapter.ErrEmailTaken)
}

func TestSignup_ProfileWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, profiles, _ := newStartedSession(t, ctrl)

	identity.EXPECT().SignUp(gomock.Any(), "new@x.com", "pw").
		Return(models.Principal{ID: "u-7", Email: "new@x.com"}, nil)
	profiles.EXPECT().WriteProfile(gomock.Any(), "u-7", gomock.Any()).
		Return(errors.New("store unavailable"))

	err := svc.Signup(context.Background(), "new@x.com", "pw", "Newt")

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrProfileWrite)

	// The orphaned account is still picked up by the provider subscription;
	// locally nothing was set by the failed workflow.
	user, cuErr := svc.CurrentUser()
	require.NoError(t, cuErr)
	assert.Nil(t, user)
}

// ── Logout ──────────────────────────────────────────────────────────────────

func TestLogout_ClearsUserBeforeNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, _, notify := newStartedSession(t, ctrl)

	notify(&models.Principal{ID: "u-1", Email: "a@x.com"})

	identity.EXPECT().SignOut(gomock.Any()).Return(nil)
	require.NoError(t, svc.Logout(context.Background()))

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user, "user must be absent immediately, regardless of notification timing")

	// The delayed provider notification clears again without harm.
	notify(nil)
	user, err = svc.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogout_ProviderFailureKeepsUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, identity, _, notify := newStartedSession(t, ctrl)

	notify(&models.Principal{ID: "u-1", Email: "a@x.com"})

	identity.EXPECT().SignOut(gomock.Any()).Return(errors.New("provider unreachable"))
	require.Error(t, svc.Logout(context.Background()))

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	assert.NotNil(t, user)
}

// ── Observers ───────────────────────────────────────────────────────────────

func TestOnChange_NotifiesAndUnsubscribes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, notify := newStartedSession(t, ctrl)

	var seen []*models.User
	unsubscribe, err := svc.OnChange(func(user *models.User) {
		seen = append(seen, user)
	})
	require.NoError(t, err)

	notify(&models.Principal{ID: "u-1", Email: "a@x.com"})
	notify(nil)

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "a@x.com", seen[0].Email)
	assert.Nil(t, seen[1])

	unsubscribe()
	notify(&models.Principal{ID: "u-2", Email: "b@x.com"})
	assert.Len(t, seen, 2, "no notifications after unsubscribe")
}

func TestOnChange_ObserverGetsOwnCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, notify := newStartedSession(t, ctrl)

	_, err := svc.OnChange(func(user *models.User) {
		if user != nil {
			user.Name = "mutated"
		}
	})
	require.NoError(t, err)

	notify(&models.Principal{ID: "u-1", Email: "a@x.com"})

	user, err := svc.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, user.Name, "observer mutation must not leak into the store")
}
