// Package value provides the boxed values passed across the converter
// boundary. A boxed value carries the registry type id of its payload and
// an ownership tag that tells converters how the payload holds an object.
package value

import (
	"fmt"

	"github.com/conduit-lang/objconv/internal/meta"
)

// Tag describes how a boxed payload holds its object
type Tag int

const (
	// TagOwned payloads are plain values or *meta.Object
	TagOwned Tag = iota
	// TagShared payloads are meta.Shared handles
	TagShared
	// TagWeak payloads are meta.Tracking references
	TagWeak
)

// String returns the string representation of the tag
func (t Tag) String() string {
	switch t {
	case TagOwned:
		return "owned"
	case TagShared:
		return "shared"
	case TagWeak:
		return "weak"
	default:
		return "unknown"
	}
}

// TagFor returns the tag matching a wrapper ownership
func TagFor(o meta.Ownership) Tag {
	switch o {
	case meta.OwnershipShared:
		return TagShared
	case meta.OwnershipTracking:
		return TagWeak
	default:
		return TagOwned
	}
}

// Boxed is a value of statically unknown type
type Boxed struct {
	Type meta.TypeID
	Tag  Tag
	Data any
}

// Of boxes an owned payload
func Of(id meta.TypeID, data any) Boxed {
	return Boxed{Type: id, Tag: TagOwned, Data: data}
}

// Shared boxes a shared-ownership handle
func Shared(id meta.TypeID, s meta.Shared) Boxed {
	return Boxed{Type: id, Tag: TagShared, Data: s}
}

// Weak boxes a tracking reference
func Weak(id meta.TypeID, t meta.Tracking) Boxed {
	return Boxed{Type: id, Tag: TagWeak, Data: t}
}

// Box picks the tag from the dynamic type of data. Property values are
// stored untyped, so this is how they re-enter the converters.
func Box(id meta.TypeID, data any) Boxed {
	switch v := data.(type) {
	case meta.Shared:
		return Shared(id, v)
	case meta.Tracking:
		return Weak(id, v)
	default:
		return Of(id, data)
	}
}

// Empty returns an empty wrapper of the given ownership
func Empty(id meta.TypeID, o meta.Ownership) Boxed {
	switch o {
	case meta.OwnershipShared:
		return Shared(id, meta.Shared{})
	case meta.OwnershipTracking:
		return Weak(id, meta.Tracking{})
	default:
		return Of(id, (*meta.Object)(nil))
	}
}

// Object extracts the object a boxed value refers to. Shared and weak
// payloads yield a borrowed view; a weak payload whose object has been
// destroyed yields nil without error.
func (b Boxed) Object() (*meta.Object, error) {
	switch b.Tag {
	case TagOwned:
		if b.Data == nil {
			return nil, nil
		}
		obj, ok := b.Data.(*meta.Object)
		if !ok {
			return nil, fmt.Errorf("owned payload is %T, not *meta.Object", b.Data)
		}
		return obj, nil
	case TagShared:
		s, ok := b.Data.(meta.Shared)
		if !ok {
			return nil, fmt.Errorf("shared payload is %T, not meta.Shared", b.Data)
		}
		return s.Get(), nil
	case TagWeak:
		t, ok := b.Data.(meta.Tracking)
		if !ok {
			return nil, fmt.Errorf("weak payload is %T, not meta.Tracking", b.Data)
		}
		return t.Get(), nil
	default:
		return nil, fmt.Errorf("unknown tag %d", b.Tag)
	}
}

// IsNil reports whether the value holds nothing: a nil payload or an
// empty or dangling reference.
func (b Boxed) IsNil() bool {
	if b.Data == nil {
		return true
	}
	obj, err := b.Object()
	return err == nil && obj == nil
}
