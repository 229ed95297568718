// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"

	"astrochat/internal/modkit/module"
	phttp "astrochat/internal/platform/net/http"
	str "astrochat/internal/platform/strings"
)

// Module is the surface api.Mount drives
type Module = module.Module

// Option mutates build configuration for a module
type Option func(*Built)

// Built is what the options resolve to
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// WithName sets a module name used in logs and the registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects the ports a module consumes; the concrete type is owned by that module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router before routes are attached
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister attaches extra endpoints after the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Base is the routing half shared by every module
// embed it and implement Ports
type Base struct {
	built Built
	own   func(phttp.Router)
}

// Base binds the module's own routes to the built settings
func (b Built) Base(own func(phttp.Router)) Base {
	return Base{built: b, own: own}
}

// MountRoutes mounts the module under its prefix behind its middleware
func (m Base) MountRoutes(r phttp.Router) {
	r.Route(m.Prefix(), func(rr phttp.Router) {
		for _, mw := range m.built.Mw {
			rr.Use(mw)
		}
		if m.built.Subrouter != nil {
			rr = m.built.Subrouter(rr)
		}
		if m.own != nil {
			m.own(rr)
		}
		if m.built.Register != nil {
			m.built.Register(rr)
		}
	})
}

// Name returns the module name, panicking when unset
func (m Base) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the route prefix, panicking unless it starts with a slash
func (m Base) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the per module middleware
func (m Base) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }
