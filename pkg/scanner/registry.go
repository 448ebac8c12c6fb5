// Package scanner runs resource probes and merges their classified output
// into a single ordered report.
package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/classifier"
)

// Probe enumerates candidate resources of one kind
type Probe interface {
	Kind() models.ResourceKind
	Scan(ctx context.Context) ([]models.ResourceDescriptor, error)
}

// Registration binds a kind to the probe that lists it and the policy that
// decides which of its resources are unused
type Registration struct {
	Kind     models.ResourceKind
	Probe    Probe
	Classify classifier.Func
}

// Registry holds registrations in the order they were added.
// That order is the order of findings in every report.
type Registry struct {
	entries []Registration
	index   map[models.ResourceKind]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[models.ResourceKind]int),
	}
}

// Register appends a registration
func (r *Registry) Register(reg Registration) error {
	if reg.Kind == "" {
		return errors.New("resource kind cannot be empty")
	}
	if reg.Probe == nil {
		return fmt.Errorf("probe for %s cannot be nil", reg.Kind)
	}
	if reg.Classify == nil {
		return fmt.Errorf("classifier for %s cannot be nil", reg.Kind)
	}
	if reg.Probe.Kind() != reg.Kind {
		return fmt.Errorf("probe kind %s does not match registration kind %s", reg.Probe.Kind(), reg.Kind)
	}
	if _, exists := r.index[reg.Kind]; exists {
		return fmt.Errorf("resource kind %s already registered", reg.Kind)
	}

	r.index[reg.Kind] = len(r.entries)
	r.entries = append(r.entries, reg)
	return nil
}

// Registrations returns a copy of the registrations in order
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, len(r.entries))
	copy(out, r.entries)
	return out
}

// Kinds returns the registered kinds in order
func (r *Registry) Kinds() []models.ResourceKind {
	kinds := make([]models.ResourceKind, len(r.entries))
	for i, e := range r.entries {
		kinds[i] = e.Kind
	}
	return kinds
}

// Len returns the number of registrations
func (r *Registry) Len() int {
	return len(r.entries)
}

// Select returns a registry restricted to kinds. The result keeps this
// registry's order regardless of the order kinds are given in.
func (r *Registry) Select(kinds []models.ResourceKind) (*Registry, error) {
	wanted := make(map[models.ResourceKind]bool, len(kinds))
	for _, k := range kinds {
		if _, ok := r.index[k]; !ok {
			return nil, fmt.Errorf("resource kind %s is not registered", k)
		}
		wanted[k] = true
	}

	selected := NewRegistry()
	for _, e := range r.entries {
		if !wanted[e.Kind] {
			continue
		}
		if err := selected.Register(e); err != nil {
			return nil, err
		}
	}
	return selected, nil
}
