// Package server exposes plant status over HTTP.
//
// The server is a Gin engine behind an h2c handler so HTTP/1.1 and
// cleartext HTTP/2 clients share one port. It runs as a component, so the
// application starts it before the farm and stops it after.
//
// Routes:
//
//   - GET /health: aggregated component health
//   - GET /info: build information
//   - GET /plants: label, running flag and final counts of each plant
package server
