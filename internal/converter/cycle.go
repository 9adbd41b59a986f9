package converter

import (
	"fmt"

	"github.com/conduit-lang/objconv/internal/meta"
)

// checkAcyclic walks every readable object-valued property reachable from
// obj and fails when one leads back to an object on the current path.
// Objects reached twice along different paths are fine.
func checkAcyclic(obj *meta.Object) error {
	const (
		visiting = iota + 1
		done
	)
	state := make(map[*meta.Object]int)

	var visit func(o *meta.Object) error
	visit = func(o *meta.Object) error {
		switch state[o] {
		case visiting:
			return fmt.Errorf("%w: %s", ErrCyclicReference, o.Type().Name)
		case done:
			return nil
		}
		state[o] = visiting
		for _, p := range o.Type().AllProperties() {
			if !p.Readable {
				continue
			}
			if next := referencedObject(p.Read(o)); next != nil {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		state[o] = done
		return nil
	}
	return visit(obj)
}

// referencedObject returns the live object held by a property value
func referencedObject(v any) *meta.Object {
	switch x := v.(type) {
	case *meta.Object:
		return x
	case meta.Shared:
		return x.Get()
	case meta.Tracking:
		return x.Get()
	}
	return nil
}

// PathTracker is a Tracker backed by the set of in-progress objects of a
// single serialization call. It is not safe for concurrent use.
type PathTracker struct {
	active map[*meta.Object]struct{}
}

var _ Tracker = (*PathTracker)(nil)

// NewPathTracker returns an empty PathTracker
func NewPathTracker() *PathTracker {
	return &PathTracker{active: make(map[*meta.Object]struct{})}
}

// Enter marks obj as in progress
func (t *PathTracker) Enter(obj *meta.Object) error {
	if _, ok := t.active[obj]; ok {
		return fmt.Errorf("%w: %s", ErrCyclicReference, obj.Type().Name)
	}
	t.active[obj] = struct{}{}
	return nil
}

// Leave marks obj as finished
func (t *PathTracker) Leave(obj *meta.Object) {
	delete(t.active, obj)
}
