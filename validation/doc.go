// Package validation checks configuration and constructor input.
//
// Struct tags are checked with the go-playground validator and reported as a
// VALIDATION_ERROR AppError whose details list each failing field:
//
//	type Config struct {
//	    Plants int `validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// The Validator builder collects programmatic checks the same way:
//
//	err := validation.New().Required("label", label).Validate()
package validation
