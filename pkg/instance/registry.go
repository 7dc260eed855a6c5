// Package instance keeps track of the live objects a test class runs against.
package instance

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Factory produces the default instances of a class on demand.
type Factory func() ([]any, error)

type entry struct {
	instance any
	id       uuid.UUID
	hash     int64
}

// Registry is the ordered set of live instances of one class. Instances are
// only ever appended. A Registry is not safe for concurrent use.
type Registry struct {
	entries []entry
	factory Factory
}

// NewRegistry returns a registry seeded with instances. factory, when not
// nil, creates instances lazily for Instances(true) on an empty registry.
func NewRegistry(factory Factory, instances ...any) *Registry {
	r := &Registry{factory: factory}
	for _, inst := range instances {
		r.Append(inst)
	}
	return r
}

// Instances returns the current instances in registration order. When create
// is true and the registry is empty, the factory is invoked and its results
// are registered first.
func (r *Registry) Instances(create bool) ([]any, error) {
	if create && len(r.entries) == 0 && r.factory != nil {
		created, err := r.factory()
		if err != nil {
			return nil, fmt.Errorf("create instances: %w", err)
		}
		for _, inst := range created {
			r.Append(inst)
		}
	}

	out := make([]any, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.instance
	}
	return out, nil
}

// IdentityHashes returns the identity hash of every instance, positionally
// matching Instances.
func (r *Registry) IdentityHashes() []int64 {
	out := make([]int64, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.hash
	}
	return out
}

// Append registers inst and reports whether it was added. Nil values and a
// pointer that is already registered are ignored; equal non-pointer values
// are each registered.
func (r *Registry) Append(inst any) bool {
	if inst == nil || r.indexOf(inst) >= 0 {
		return false
	}

	id, hash := r.newIdentity()
	r.entries = append(r.entries, entry{instance: inst, id: id, hash: hash})
	return true
}

// Count returns the number of registered instances.
//
// Deprecated: a lazily created registry reports 0 until Instances(true) is
// called; use len(Instances(false)) at the point of interest instead.
func (r *Registry) Count() int {
	return len(r.entries)
}

// newIdentity draws a random identity whose hash is unused in the registry.
func (r *Registry) newIdentity() (uuid.UUID, int64) {
	for {
		id := uuid.New()
		hash := int64(binary.BigEndian.Uint64(id[:8]))
		if !r.hashInUse(hash) {
			return id, hash
		}
	}
}

func (r *Registry) hashInUse(hash int64) bool {
	for _, e := range r.entries {
		if e.hash == hash {
			return true
		}
	}
	return false
}

func (r *Registry) indexOf(inst any) int {
	for i, e := range r.entries {
		if sameIdentity(e.instance, inst) {
			return i
		}
	}
	return -1
}

// sameIdentity reports whether a and b are the same pointer. Any other
// value is its own instance, even when equal to a registered one.
func sameIdentity(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || va.Type() != vb.Type() {
		return false
	}
	return va.Pointer() == vb.Pointer()
}
