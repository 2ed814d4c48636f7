// Package middleware groups the Fiber middleware of the admin server.
//
//   - rayid: tags each request with an id stored in Locals("ray_id"), which
//     logger.WithRayID attaches to log entries.
//   - auth: checks the X-API-Key header against server.api_key.
package middleware
