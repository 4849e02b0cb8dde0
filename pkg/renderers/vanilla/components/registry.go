package components

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-leadsite/pkg/render/template"
)

// Renderer writes the control markup for one field into buf.
type Renderer func(buf *bytes.Buffer, field FieldView, data ComponentData) error

// ComponentData carries the helpers a component renderer may use.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
}

// Descriptor bundles a component renderer with the scripts it needs once per
// page.
type Descriptor struct {
	Name     string
	Renderer Renderer
	Scripts  []string
}

// Registry maps component names to descriptors.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Register associates descriptor with name, replacing any previous entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}
	descriptor.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = descriptor
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor returns the descriptor registered under name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	return descriptor, ok
}

// Scripts collects the de-duplicated, sorted scripts of the named components.
func (r *Registry) Scripts(names []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, name := range names {
		for _, src := range r.components[normalize(name)].Scripts {
			if _, ok := seen[src]; ok {
				continue
			}
			seen[src] = struct{}{}
			out = append(out, src)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
