// Package converter defines the type converter plugin contract and the
// object converter, which maps reflectable objects to JSON objects.
//
// The object converter peels shared and tracking wrappers off a type,
// chooses the metadata record to walk (honoring runtime subtypes and the
// "@type" discriminator), and recurses into a Helper for each property.
package converter

import (
	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/value"
)

// TypeConverter is implemented by every converter plugged into a serializer
type TypeConverter interface {
	// CanConvert reports whether the converter handles the type
	CanConvert(id meta.TypeID) bool

	// JSONKinds lists the JSON kinds the converter consumes
	JSONKinds() []jsonvalue.Kind

	// Serialize converts a boxed value of type id to JSON
	Serialize(id meta.TypeID, v value.Boxed, helper Helper) (jsonvalue.Value, error)

	// Deserialize converts JSON to a boxed value of type id. Objects that
	// need an owner are attached to parent.
	Deserialize(id meta.TypeID, j jsonvalue.Value, parent *meta.Object, helper Helper) (value.Boxed, error)
}

// Helper is the serializer a converter recurses into for nested values
type Helper interface {
	CanConvert(id meta.TypeID) bool
	SerializeValue(id meta.TypeID, v value.Boxed) (jsonvalue.Value, error)
	DeserializeValue(id meta.TypeID, j jsonvalue.Value, parent *meta.Object) (value.Boxed, error)
}

// Tracker is implemented by helpers that follow the objects on the
// current serialization path. Enter fails with ErrCyclicReference when
// obj is already on the path; every successful Enter is paired with Leave.
//
// Helpers that do not implement it get a full cycle check of the object
// graph before each object is serialized.
type Tracker interface {
	Enter(obj *meta.Object) error
	Leave(obj *meta.Object)
}

// Oracle supplies type metadata. *meta.Registry implements it.
type Oracle interface {
	Lookup(id meta.TypeID) (*meta.TypeInfo, bool)
	LookupByName(name string) (*meta.TypeInfo, bool)
	MetadataFor(id meta.TypeID) (*meta.ObjectType, bool)
	MetadataByName(name string) (*meta.ObjectType, bool)
	Construct(id meta.TypeID, parent *meta.Object) (*meta.Object, error)
	Generation() uint64
}

var _ Oracle = (*meta.Registry)(nil)

// KindAccepted reports whether kinds contains k
func KindAccepted(kinds []jsonvalue.Kind, k jsonvalue.Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
