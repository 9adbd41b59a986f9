package meta

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		id   TypeID
		name string
	}{
		{TypeBool, "bool"},
		{TypeInt, "int"},
		{TypeFloat, "float"},
		{TypeString, "string"},
		{TypeUUID, "uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := r.Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.name, info.Name)
			assert.Equal(t, KindScalar, info.Kind)

			byName, ok := r.LookupByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.id, byName.ID)
		})
	}

	assert.Equal(t, 5, r.Count())
	_, ok := r.MetadataFor(TypeInt)
	assert.False(t, ok, "scalars have no object metadata")
}

func TestRegistry_RegisterObject(t *testing.T) {
	t.Run("assigns sequential ids", func(t *testing.T) {
		r := NewRegistry()
		a := Define("A").MustRegister(r)
		b := Define("B").MustRegister(r)

		assert.Equal(t, firstUserType, a.ID)
		assert.Equal(t, firstUserType+1, b.ID)

		got, ok := r.MetadataFor(a.ID)
		require.True(t, ok)
		assert.Same(t, a, got)

		got, ok = r.MetadataByName("B")
		require.True(t, ok)
		assert.Same(t, b, got)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		r := NewRegistry()
		Define("A").MustRegister(r)

		_, err := Define("A").Register(r)
		assert.ErrorIs(t, err, ErrDuplicateType)
	})

	t.Run("unregistered supertype", func(t *testing.T) {
		r := NewRegistry()
		orphan := &ObjectType{ID: 99, Name: "Orphan"}

		_, err := Define("Child").Extends(orphan).Register(r)
		assert.ErrorIs(t, err, ErrTypeNotFound)
	})

	t.Run("duplicate property", func(t *testing.T) {
		r := NewRegistry()
		_, err := Define("A").
			Property("x", TypeInt).
			Property("x", TypeString).
			Register(r)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("unknown property type", func(t *testing.T) {
		r := NewRegistry()
		_, err := Define("A").Property("x", TypeID(500)).Register(r)
		assert.ErrorIs(t, err, ErrTypeNotFound)
	})

	t.Run("upgrades declared name in place", func(t *testing.T) {
		r := NewRegistry()
		declared := r.Declare("Later")

		info, ok := r.Lookup(declared)
		require.True(t, ok)
		assert.Equal(t, KindOpaque, info.Kind)

		later := Define("Later").MustRegister(r)
		assert.Equal(t, declared, later.ID)

		info, ok = r.Lookup(declared)
		require.True(t, ok)
		assert.Equal(t, KindObject, info.Kind)
	})
}

func TestRegistry_Declare(t *testing.T) {
	r := NewRegistry()

	id := r.Declare("Shared[Circle]")
	assert.Equal(t, id, r.Declare("Shared[Circle]"), "declare is idempotent")
	assert.Equal(t, TypeString, r.Declare("string"), "declare returns existing ids")
}

func TestRegistry_RegisterWrapper(t *testing.T) {
	r := NewRegistry()
	circle := Define("Circle").MustRegister(r)

	id, err := r.RegisterWrapper(OwnershipShared, circle.ID)
	require.NoError(t, err)

	info, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "Shared[Circle]", info.Name)
	assert.Equal(t, KindWrapper, info.Kind)
	assert.Equal(t, OwnershipShared, info.Ownership)
	assert.Equal(t, circle.ID, info.Elem)

	again, err := r.RegisterWrapper(OwnershipShared, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = r.RegisterWrapper(OwnershipNone, circle.ID)
	assert.Error(t, err)

	_, err = r.RegisterWrapper(OwnershipTracking, TypeID(1000))
	assert.ErrorIs(t, err, ErrTypeNotFound)

	declared := r.Declare("Tracking[Circle]")
	upgraded, err := r.RegisterWrapper(OwnershipTracking, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, declared, upgraded)
}

func TestRegistry_Construct(t *testing.T) {
	r := NewRegistry()
	shape := Define("Shape").Abstract().MustRegister(r)
	node := Define("Node").OwnedByParent().MustRegister(r)
	plain := Define("Plain").MustRegister(r)

	t.Run("abstract", func(t *testing.T) {
		_, err := r.Construct(shape.ID, nil)
		assert.True(t, IsAbstractType(err))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Construct(TypeID(4242), nil)
		assert.True(t, IsTypeNotFound(err))
	})

	t.Run("scalar", func(t *testing.T) {
		_, err := r.Construct(TypeInt, nil)
		assert.ErrorIs(t, err, ErrNotObjectType)
	})

	t.Run("owned by parent", func(t *testing.T) {
		parent, err := r.Construct(plain.ID, nil)
		require.NoError(t, err)

		child, err := r.Construct(node.ID, parent)
		require.NoError(t, err)
		assert.Same(t, parent, child.Parent())
		assert.Empty(t, parent.Children(), "not visible before Attach")

		child.Attach()
		child.Attach()
		assert.Equal(t, []*Object{child}, parent.Children())
	})

	t.Run("not owned ignores parent", func(t *testing.T) {
		parent, err := r.Construct(plain.ID, nil)
		require.NoError(t, err)

		obj, err := r.Construct(plain.ID, parent)
		require.NoError(t, err)
		assert.Nil(t, obj.Parent())
	})
}

func TestRegistry_Generation(t *testing.T) {
	r := NewRegistry()
	before := r.Generation()

	Define("A").MustRegister(r)
	assert.Greater(t, r.Generation(), before)
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry()
	Define("Shape").MustRegister(r)
	Define("ShapeGroup").MustRegister(r)
	Define("Circle").MustRegister(r)

	names := func(infos []TypeInfo) []string {
		var out []string
		for _, info := range infos {
			out = append(out, info.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Shape", "ShapeGroup"}, names(r.Find("Shape*")))
	assert.Equal(t, []string{"Circle"}, names(r.Find("*rcle")))
	assert.Equal(t, []string{"Shape"}, names(r.Find("Shape")))
	assert.Equal(t, []string{"ShapeGroup"}, names(r.Find("Sh*up")))
	assert.Len(t, r.Find("*"), 8)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	base := Define("Base").Polymorphic().MustRegister(r)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Declare("Shared[Base]")
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, ok := r.MetadataFor(base.ID)
				assert.True(t, ok)
				assert.Same(t, base, got)
			}
		}()
	}
	wg.Wait()
}
