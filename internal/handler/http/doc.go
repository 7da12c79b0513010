// Package http implements the HTTP presentation surface of the client.
//
// It exposes route wiring, request handlers, and middleware for the local
// JSON API. Cross-cutting concerns such as request tracing and access
// logging are handled here before requests are delegated to the session
// services; access control is applied per route group via the guard package.
package http
