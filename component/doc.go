// Package component defines the lifecycle contract shared by plants and the
// status server.
//
// A Registry starts components in registration order and stops them in
// reverse, giving each Stop its own timeout so one stuck component does not
// starve the rest.
package component
