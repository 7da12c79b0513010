// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package guard contains route middlewares that gate access by session
// state. The guards are declarative: they never trigger credential
// workflows, they only read the current user and redirect.
package guard

import (
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/service"
)

// RequireAuth admits the request only when a session user exists. Otherwise
// the client is redirected to signInPath with the originally requested URI
// attached as a `from` query parameter, so a later sign-in can return there.
func RequireAuth(sessions service.SessionReader, signInPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser()
			if err != nil {
				logger.FromRequest(r).Error().Err(err).Msg("session state unavailable")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if user == nil {
				target := signInPath + "?from=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthed is the inverse guard for sign-in and sign-up pages: a
// request with an established session is sent to homePath instead.
func RedirectIfAuthed(sessions service.SessionReader, homePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser()
			if err != nil {
				logger.FromRequest(r).Error().Err(err).Msg("session state unavailable")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if user != nil {
				http.Redirect(w, r, homePath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
