// Package middleware holds the Gin middleware installed on the status server.
package middleware
