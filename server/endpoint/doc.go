// Package endpoint holds the Gin handlers served by the status server.
package endpoint
