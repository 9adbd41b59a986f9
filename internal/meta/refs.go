package meta

import "sync/atomic"

// sharedCell is the control block behind a group of Shared handles
type sharedCell struct {
	obj  *Object
	refs atomic.Int64
}

// Shared is a reference-counted handle to a cooperatively owned object.
// The zero value is an empty handle. The object is destroyed when the
// last handle is released.
type Shared struct {
	cell     *sharedCell
	released *atomic.Bool
}

// NewShared takes shared ownership of obj. A nil obj yields an empty handle.
func NewShared(obj *Object) Shared {
	if obj == nil {
		return Shared{}
	}
	cell := &sharedCell{obj: obj}
	cell.refs.Store(1)
	return Shared{cell: cell, released: new(atomic.Bool)}
}

// Get returns a borrowed view of the held object, or nil
func (s Shared) Get() *Object {
	if s.cell == nil || s.released.Load() {
		return nil
	}
	return s.cell.obj
}

// IsNil reports whether the handle holds no object
func (s Shared) IsNil() bool {
	return s.Get() == nil
}

// clone returns another handle sharing ownership of the same object
func (s Shared) clone() Shared {
	if s.Get() == nil {
		return Shared{}
	}
	s.cell.refs.Add(1)
	return Shared{cell: s.cell, released: new(atomic.Bool)}
}

// UseCount returns the number of live handles, 0 for an empty handle
func (s Shared) UseCount() int64 {
	if s.cell == nil {
		return 0
	}
	return s.cell.refs.Load()
}

// Release drops this handle's ownership. Releasing twice is a no-op.
func (s Shared) Release() {
	if s.cell == nil || !s.released.CompareAndSwap(false, true) {
		return
	}
	if s.cell.refs.Add(-1) == 0 {
		s.cell.obj.Destroy()
	}
}

// Tracking observes an object without owning it. Once the object is
// destroyed the reference reads as nil.
type Tracking struct {
	obj *Object
}

// NewTracking starts tracking obj
func NewTracking(obj *Object) Tracking {
	return Tracking{obj: obj}
}

// Get returns a borrowed view of the tracked object, or nil if it has
// been destroyed.
func (t Tracking) Get() *Object {
	if t.obj == nil || t.obj.Destroyed() {
		return nil
	}
	return t.obj
}

// IsNil reports whether the reference no longer points at a live object
func (t Tracking) IsNil() bool {
	return t.Get() == nil
}
