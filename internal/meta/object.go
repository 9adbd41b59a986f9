package meta

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Object is an instance of an ObjectType.
//
// An object constructed with a parent context remembers that parent, but
// only appears among the parent's children after Attach. Converters call
// Attach once every property is assigned so a half-built object is never
// reachable through the tree.
type Object struct {
	typ *ObjectType

	mu       sync.RWMutex
	values   map[string]any
	parent   *Object
	children []*Object
	attached bool

	destroyed atomic.Bool
}

func newObject(t *ObjectType, parent *Object) *Object {
	o := &Object{
		typ:    t,
		values: make(map[string]any),
	}
	if t.OwnedByParent {
		o.parent = parent
	}
	return o
}

// Type returns the exact metadata record of the object
func (o *Object) Type() *ObjectType {
	return o.typ
}

// Get reads a property by name
func (o *Object) Get(name string) (any, error) {
	p, ok := o.typ.Property(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, o.typ.Name, name)
	}
	if !p.Readable {
		return nil, fmt.Errorf("property %s.%s is not readable", o.typ.Name, name)
	}
	return p.Read(o), nil
}

// Set writes a property by name
func (o *Object) Set(name string, v any) error {
	p, ok := o.typ.Property(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, o.typ.Name, name)
	}
	return p.Write(o, v)
}

// MustSet is Set for test fixtures and generated code; it panics on error.
func (o *Object) MustSet(name string, v any) *Object {
	if err := o.Set(name, v); err != nil {
		panic(err)
	}
	return o
}

func (o *Object) load(name string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.values[name]
}

func (o *Object) store(name string, v any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values[name] = v
}

// Parent returns the owning object, or nil
func (o *Object) Parent() *Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.parent
}

// Children returns a snapshot of the attached children
func (o *Object) Children() []*Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	result := make([]*Object, len(o.children))
	copy(result, o.children)
	return result
}

// Attach publishes o into its parent's children. It is a no-op for
// objects without a parent and for objects already attached.
func (o *Object) Attach() {
	o.mu.Lock()
	parent := o.parent
	if parent == nil || o.attached {
		o.mu.Unlock()
		return
	}
	o.attached = true
	o.mu.Unlock()

	parent.mu.Lock()
	parent.children = append(parent.children, o)
	parent.mu.Unlock()
}

// Destroy marks o and its children destroyed and detaches o from its
// parent. Tracking references to a destroyed object read as nil.
func (o *Object) Destroy() {
	if !o.destroyed.CompareAndSwap(false, true) {
		return
	}

	o.mu.Lock()
	children := o.children
	o.children = nil
	parent := o.parent
	o.parent = nil
	o.mu.Unlock()

	for _, child := range children {
		child.Destroy()
	}

	if parent != nil {
		parent.removeChild(o)
	}
}

// Destroyed reports whether Destroy has been called
func (o *Object) Destroyed() bool {
	return o.destroyed.Load()
}

func (o *Object) removeChild(child *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}
