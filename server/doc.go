// Package server provides the HTTP server: a gin engine served through an
// h2c handler with the middleware stack from server/middleware wrapped around
// it and the operational endpoints from server/endpoint.
//
// The server is registered with the bootstrap app through NewComponent, which
// also lists the registered routes for the startup summary.
package server
