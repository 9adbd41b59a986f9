package meta

// TypeBuilder assembles an ObjectType and registers it.
//
//	circle, err := meta.Define("Circle").
//		Extends(shape).
//		Property("radius", meta.TypeFloat).
//		Register(registry)
type TypeBuilder struct {
	t *ObjectType
}

// Define starts building an object type called name
func Define(name string) *TypeBuilder {
	return &TypeBuilder{t: &ObjectType{Name: name}}
}

// Extends sets the supertype
func (b *TypeBuilder) Extends(super *ObjectType) *TypeBuilder {
	b.t.Super = super
	return b
}

// Polymorphic marks the type as permitting runtime subtypes
func (b *TypeBuilder) Polymorphic() *TypeBuilder {
	b.t.Polymorphic = true
	return b
}

// Abstract marks the type as not constructible
func (b *TypeBuilder) Abstract() *TypeBuilder {
	b.t.Abstract = true
	return b
}

// OwnedByParent makes constructed instances join their parent's tree
func (b *TypeBuilder) OwnedByParent() *TypeBuilder {
	b.t.OwnedByParent = true
	return b
}

// Property adds a readable and writable stored property
func (b *TypeBuilder) Property(name string, typ TypeID) *TypeBuilder {
	return b.With(Property{Name: name, Type: typ, Readable: true, Writable: true})
}

// ReadOnly adds a readable property computed by get. A nil get reads
// the stored value.
func (b *TypeBuilder) ReadOnly(name string, typ TypeID, get func(*Object) any) *TypeBuilder {
	return b.With(Property{Name: name, Type: typ, Readable: true, Get: get})
}

// WriteOnly adds a property that deserializes but never serializes
func (b *TypeBuilder) WriteOnly(name string, typ TypeID) *TypeBuilder {
	return b.With(Property{Name: name, Type: typ, Writable: true})
}

// With adds a fully specified property
func (b *TypeBuilder) With(p Property) *TypeBuilder {
	b.t.Properties = append(b.t.Properties, p)
	return b
}

// Build returns the assembled, unregistered type
func (b *TypeBuilder) Build() *ObjectType {
	return b.t
}

// Register registers the type in r and returns it
func (b *TypeBuilder) Register(r *Registry) (*ObjectType, error) {
	if _, err := r.RegisterObject(b.t); err != nil {
		return nil, err
	}
	return b.t, nil
}

// MustRegister is Register for fixtures; it panics on error.
func (b *TypeBuilder) MustRegister(r *Registry) *ObjectType {
	t, err := b.Register(r)
	if err != nil {
		panic(err)
	}
	return t
}
