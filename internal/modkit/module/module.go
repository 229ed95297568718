// Package module defines the minimal contract for a modkit module and the
// process registry api.Mount fills as modules are mounted
package module

import (
	"reflect"
	"sort"
	"sync"

	phttp "astrochat/internal/platform/net/http"
)

// Module is kept apart from modkit so a module can export its own ports type
// without an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// PortsOf pulls T out of m.Ports(), either the value itself or an exported
// field of a ports struct
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for bootstrap code, where a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return v
}

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register records a mounted module's ports under its name
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Names lists registered modules in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the ports registered under name
func Lookup(name string) (any, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := reg[name]
	return p, ok
}

func reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
