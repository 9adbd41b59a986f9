package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/objconv/internal/meta"
)

func TestWrapperMatcher_Classify(t *testing.T) {
	w := newWorld(t)
	m, err := NewWrapperMatcher(w.registry, 16, nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		id        meta.TypeID
		ownership meta.Ownership
		inner     meta.TypeID
	}{
		{"declared shared name", w.sharedPoint, meta.OwnershipShared, w.point.ID},
		{"structured tracking", w.trackingPoint, meta.OwnershipTracking, w.point.ID},
		{"object type", w.point.ID, meta.OwnershipNone, meta.InvalidType},
		{"scalar", meta.TypeString, meta.OwnershipNone, meta.InvalidType},
		{"unknown id", meta.TypeID(9999), meta.OwnershipNone, meta.InvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := m.Classify(tt.id)
			assert.Equal(t, tt.ownership, class.Ownership)
			assert.Equal(t, tt.inner, class.Inner)
			assert.Equal(t, tt.ownership != meta.OwnershipNone, class.IsWrapper())

			// second call is served from the cache
			assert.Equal(t, class, m.Classify(tt.id))
		})
	}
}

func TestWrapperMatcher_ClassifyName(t *testing.T) {
	w := newWorld(t)
	m, err := NewWrapperMatcher(w.registry, 0, nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		typeName  string
		ownership meta.Ownership
	}{
		{"shared", "Shared[Point]", meta.OwnershipShared},
		{"tracking", "Tracking[Point]", meta.OwnershipTracking},
		{"package qualified", "meta.Shared[shapes.Point]", meta.OwnershipShared},
		{"qualified tracking", "github.com/x/meta.Tracking[Point]", meta.OwnershipTracking},
		{"unregistered inner", "Shared[Ghost]", meta.OwnershipNone},
		{"plain name", "Point", meta.OwnershipNone},
		{"lookalike", "SharedPoint", meta.OwnershipNone},
		{"unterminated", "Shared[Point", meta.OwnershipNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := m.ClassifyName(tt.typeName)
			assert.Equal(t, tt.ownership, class.Ownership)
			if class.IsWrapper() {
				assert.Equal(t, w.point.ID, class.Inner)
			}
		})
	}
}

func TestWrapperMatcher_NegativeCacheFollowsRegistry(t *testing.T) {
	r := meta.NewRegistry()
	wrapper := r.Declare("Shared[Late]")

	m, err := NewWrapperMatcher(r, 8, nil)
	require.NoError(t, err)

	assert.False(t, m.Classify(wrapper).IsWrapper(), "inner type not registered yet")

	late := meta.Define("Late").MustRegister(r)

	class := m.Classify(wrapper)
	require.True(t, class.IsWrapper())
	assert.Equal(t, late.ID, class.Inner)
}

func TestNewWrapperMatcher_InvalidCacheSize(t *testing.T) {
	m, err := NewWrapperMatcher(meta.NewRegistry(), -1, nil)
	require.NoError(t, err, "negative sizes disable the cache")
	assert.Nil(t, m.cache)
}
