// Package meta provides the runtime type registry used by the converters.
// It describes reflectable object types (ordered properties, a superclass
// link, polymorphism and ownership flags), constructs instances of them,
// and models the shared and tracking references that may wrap an instance.
package meta

import "fmt"

// TypeID identifies a type known to a Registry. IDs are assigned
// sequentially and never reused, so equality is identity.
type TypeID int32

// InvalidType is the zero TypeID. No registered type has it.
const InvalidType TypeID = 0

// Builtin scalar types. Every Registry registers them first, in this order.
const (
	TypeBool TypeID = iota + 1
	TypeInt
	TypeFloat
	TypeString
	TypeUUID

	firstUserType
)

var builtinNames = map[TypeID]string{
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeString: "string",
	TypeUUID:   "uuid",
}

// Kind classifies a registered type
type Kind int

const (
	// KindOpaque is a type known only by name. Wrapper types declared by
	// their rendered name ("Shared[Circle]") and forward references start
	// out opaque.
	KindOpaque Kind = iota
	KindScalar
	KindObject
	// KindWrapper carries structured wrapper metadata (ownership + element)
	KindWrapper
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// Ownership describes how a wrapper type holds its object
type Ownership int

const (
	OwnershipNone Ownership = iota
	// OwnershipShared is a cooperatively owned object (see Shared)
	OwnershipShared
	// OwnershipTracking observes an object without owning it (see Tracking)
	OwnershipTracking
)

// String returns the string representation of the ownership
func (o Ownership) String() string {
	switch o {
	case OwnershipShared:
		return "shared"
	case OwnershipTracking:
		return "tracking"
	default:
		return "none"
	}
}

// WrapperName renders the name of a wrapper type around elem
func WrapperName(o Ownership, elem string) string {
	switch o {
	case OwnershipShared:
		return fmt.Sprintf("Shared[%s]", elem)
	case OwnershipTracking:
		return fmt.Sprintf("Tracking[%s]", elem)
	default:
		return elem
	}
}

// TypeInfo is the registry entry for one type. Entries are immutable once
// published; upgrading an opaque entry replaces it with a new value.
type TypeInfo struct {
	ID   TypeID
	Name string
	Kind Kind

	// Object is set for KindObject
	Object *ObjectType

	// Ownership and Elem are set for KindWrapper
	Ownership Ownership
	Elem      TypeID
}

// Property describes one property declared on an object type.
type Property struct {
	Name     string
	Type     TypeID
	Readable bool
	Writable bool

	// Get and Set override the default per-instance storage.
	Get func(o *Object) any
	Set func(o *Object, v any) error
}

// Read returns the current value of the property on o
func (p Property) Read(o *Object) any {
	if p.Get != nil {
		return p.Get(o)
	}
	return o.load(p.Name)
}

// Write assigns v to the property on o
func (p Property) Write(o *Object, v any) error {
	if !p.Writable {
		return fmt.Errorf("property %s.%s is not writable", o.typ.Name, p.Name)
	}
	if p.Set != nil {
		return p.Set(o, v)
	}
	o.store(p.Name, v)
	return nil
}

// ObjectType is the metadata record of a reflectable object type.
type ObjectType struct {
	ID         TypeID
	Name       string
	Super      *ObjectType
	Properties []Property // declared on this type only, in declaration order

	// Polymorphic marks a type that permits runtime subtyping. A type
	// without it is final: its record is always used as-is.
	Polymorphic bool
	// Abstract types cannot be constructed
	Abstract bool
	// OwnedByParent types join the object tree of the parent context
	// they are constructed with.
	OwnedByParent bool
}

// Inherits reports whether t is ancestor or one of its descendants.
func (t *ObjectType) Inherits(ancestor *ObjectType) bool {
	if ancestor == nil {
		return false
	}
	for cur := t; cur != nil; cur = cur.Super {
		if cur == ancestor || cur.ID == ancestor.ID {
			return true
		}
	}
	return false
}

// Ancestry returns t followed by its superclasses up to the root
func (t *ObjectType) Ancestry() []*ObjectType {
	var chain []*ObjectType
	for cur := t; cur != nil; cur = cur.Super {
		chain = append(chain, cur)
	}
	return chain
}

// Property finds a property by name, most-derived declaration first
func (t *ObjectType) Property(name string) (Property, bool) {
	for cur := t; cur != nil; cur = cur.Super {
		for _, p := range cur.Properties {
			if p.Name == name {
				return p, true
			}
		}
	}
	return Property{}, false
}

// AllProperties returns the visible properties of t in derived-first
// order. A property shadowed by a more-derived declaration of the same
// name is omitted.
func (t *ObjectType) AllProperties() []Property {
	seen := make(map[string]struct{})
	var props []Property
	for cur := t; cur != nil; cur = cur.Super {
		for _, p := range cur.Properties {
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			props = append(props, p)
		}
	}
	return props
}
