// Package version reports build information for the juiceplant binary.
//
// Values are set at link time and fall back to the module's embedded VCS
// settings:
//
//	go build -ldflags "-X github.com/kbukum/juiceplant/version.Version=1.2.0" ./cmd/juiceplant
package version
