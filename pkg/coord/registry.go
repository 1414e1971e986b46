package coord

import (
	"sort"
	"sync"

	"github.com/matzehuels/chartcore/pkg/model"
)

// Registry maps coordinate system names to factories. It is safe for
// concurrent use. Registering a name again replaces the earlier factory.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get returns the factory registered for name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manager owns the coordinate system instances of one chart.
//
// Factories run in the sorted order of their names, not in the order they
// were registered, so the instance list is the same whatever order the
// packages registered in. Factories must not depend on each other.
type Manager struct {
	registry  *Registry
	instances []Instance
}

// NewManager creates a manager that builds instances from registry.
func NewManager(registry *Registry) *Manager {
	return &Manager{registry: registry}
}

// Create runs every registered factory in sorted name order and replaces
// the instance list with their results.
func (m *Manager) Create(g *model.Global, api API) {
	var instances []Instance
	for _, name := range m.registry.Names() {
		f, _ := m.registry.Get(name)
		instances = append(instances, f.Create(g, api)...)
	}
	m.instances = instances
}

// Update calls Update on every instance implementing Updater.
func (m *Manager) Update(g *model.Global, api API) {
	for _, inst := range m.instances {
		if u, ok := inst.(Updater); ok {
			u.Update(g, api)
		}
	}
}

// Resize calls Resize on every instance implementing Resizer.
func (m *Manager) Resize(api API) {
	for _, inst := range m.instances {
		if r, ok := inst.(Resizer); ok {
			r.Resize(api)
		}
	}
}

// Instances returns the instances of the last Create.
func (m *Manager) Instances() []Instance { return m.instances }

// Systems returns the coordinate systems of all instances.
func (m *Manager) Systems() []System {
	var out []System
	for _, inst := range m.instances {
		out = append(out, inst.Systems()...)
	}
	return out
}
