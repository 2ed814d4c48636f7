// Package server holds the admin HTTP server configuration.
//
// The cmd package builds the Fiber app from this Config: it listens on Port
// and, when ApiKey is set, protects every route with the auth middleware.
package server
