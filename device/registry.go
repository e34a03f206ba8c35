package device

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/gputypes"
)

// Backend bundles the resources a backend hands to the compositor.
type Backend interface {
	// Device creates GPU resources.
	Device() Device

	// Context is the immediate context of the compositing goroutine.
	Context() Context

	// Target is the output the composition is drawn onto.
	Target() Target

	// Close releases the backend. Close is idempotent.
	Close() error
}

// Options configures a backend when it is opened.
type Options struct {
	// Width and Height are the initial render target size in pixels.
	Width  int
	Height int

	// Format is the render target format. Zero means the host's surface
	// format, or BGRA8 without a host.
	Format gputypes.TextureFormat

	// Host is the GPU provider of the host application, if any.
	Host Host
}

// TargetFormat resolves the render target format for o.
func (o Options) TargetFormat() gputypes.TextureFormat {
	if o.Format != gputypes.TextureFormatUndefined {
		return o.Format
	}
	if o.Host != nil {
		if f := o.Host.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			return f
		}
	}
	return gputypes.TextureFormatBGRA8Unorm
}

// Factory opens a backend.
type Factory func(opts Options) (Backend, error)

// RegistryEntry represents a registered device backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Hardware backends use 100, the headless backend 10.
	Priority int

	// Factory opens backend instances.
	Factory Factory

	// Available reports if the backend can run on this system.
	Available func() bool
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no backends are registered
	// or available on the current system.
	ErrNoBackendAvailable = errors.New("device: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "device: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "device: backend unavailable: " + e.Name
}

// Registry manages registered device backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Open.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Open opens the named backend from the global registry. An empty name
// selects the best available backend.
func Open(name string, opts Options) (Backend, error) {
	if name == "" {
		return globalRegistry.OpenBest(opts)
	}
	return globalRegistry.Open(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Open opens a specific backend.
func (r *Registry) Open(name string, opts Options) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(opts)
}

// OpenBest opens the highest-priority backend that succeeds.
func (r *Registry) OpenBest(opts Options) (Backend, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		b, err := r.Open(name, opts)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// sortedNames returns backend names sorted by priority (highest first),
// ties broken by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
