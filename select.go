package plotgg

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"sync"
)

// BackendName is the registry name of this renderer.
const BackendName = "plotgg"

// EnvDefault is the environment variable read by ConfigFromEnv.
const EnvDefault = "PLOTGG"

// Factory creates a backend for a width x height canvas.
type Factory func(width, height int, opts ...Option) (Backend, error)

var (
	registryMu sync.RWMutex
	backends   = map[string]Factory{
		BackendName: func(w, h int, opts ...Option) (Backend, error) { return New(w, h, opts...) },
	}
	// defaultName is empty while the host keeps its own default renderer.
	defaultName string
)

// RegisterBackend registers a backend factory, replacing any previous
// factory with the same name. Hosts register their built-in renderers so
// that NewBackend can choose between them and this one.
func RegisterBackend(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("%w: register backend %q", ErrInvalidArgument, name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = f
	return nil
}

// UnregisterBackend removes a backend. The built-in entry cannot be
// removed.
func UnregisterBackend(name string) {
	if name == BackendName {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
	if defaultName == name {
		defaultName = ""
	}
}

// Backends returns the registered names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}

// UseAsDefault selects this renderer as the process default, or returns
// the choice to the host when on is false. It is meant to be called once
// at startup.
func UseAsDefault(on bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if on {
		defaultName = BackendName
	} else {
		defaultName = ""
	}
	Logger().Info("plotgg: default backend", "name", defaultName)
}

// SetDefaultBackend selects a registered backend as the default.
func SetDefaultBackend(name string) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := backends[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	defaultName = name
	Logger().Info("plotgg: default backend", "name", name)
	return nil
}

// DefaultBackend returns the selected default, or "" when none was
// selected and the host's own renderer applies.
func DefaultBackend() string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return defaultName
}

// NewBackend creates a backend by name.
func NewBackend(name string, width, height int, opts ...Option) (Backend, error) {
	registryMu.RLock()
	f, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return f(width, height, opts...)
}

// NewDefault creates the default backend. It fails with ErrUnknownBackend
// when no default has been selected.
func NewDefault(width, height int, opts ...Option) (Backend, error) {
	name := DefaultBackend()
	if name == "" {
		return nil, fmt.Errorf("%w: no default selected", ErrUnknownBackend)
	}
	return NewBackend(name, width, height, opts...)
}

// ConfigFromEnv applies the PLOTGG environment variable: a true value
// selects this renderer as the default, a false value leaves the choice to
// the host. It reports whether the variable was set. Nothing reads the
// environment unless the host calls this.
func ConfigFromEnv() (set bool, err error) {
	v, ok := os.LookupEnv(EnvDefault)
	if !ok || v == "" {
		return false, nil
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidArgument, EnvDefault, v)
	}
	UseAsDefault(on)
	return true, nil
}
