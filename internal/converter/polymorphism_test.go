package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolymorphing(t *testing.T) {
	tests := []struct {
		input string
		want  Polymorphing
	}{
		{"disabled", PolymorphingDisabled},
		{"enabled", PolymorphingEnabled},
		{"", PolymorphingEnabled},
		{"forced", PolymorphingForced},
	}
	for _, tt := range tests {
		got, err := ParsePolymorphing(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		if tt.input != "" {
			assert.Equal(t, tt.input, got.String())
		}
	}

	_, err := ParsePolymorphing("sometimes")
	assert.Error(t, err)
}

func TestPolymorphismResolver_IsPolymorphic(t *testing.T) {
	w := newWorld(t)

	enabled := NewPolymorphismResolver(w.registry, PolymorphingEnabled, nil)
	assert.True(t, enabled.IsPolymorphic(w.shape))
	assert.False(t, enabled.IsPolymorphic(w.point))

	disabled := NewPolymorphismResolver(w.registry, PolymorphingDisabled, nil)
	assert.False(t, disabled.IsPolymorphic(w.shape))

	forced := NewPolymorphismResolver(w.registry, PolymorphingForced, nil)
	assert.True(t, forced.IsPolymorphic(w.point))
}

func TestPolymorphismResolver_ResolveForSerialize(t *testing.T) {
	w := newWorld(t)
	r := NewPolymorphismResolver(w.registry, PolymorphingEnabled, nil)

	circle := w.newObject(t, w.circle, nil)
	person := w.newObject(t, w.person, nil)

	assert.Same(t, w.circle, r.ResolveForSerialize(w.shape, circle), "descendant uses exact record")
	assert.Same(t, w.circle, r.ResolveForSerialize(w.circle, circle))
	assert.Same(t, w.shape, r.ResolveForSerialize(w.shape, person), "unrelated runtime type falls back")
	assert.Same(t, w.point, r.ResolveForSerialize(w.point, circle), "final static type is used as-is")

	disabled := NewPolymorphismResolver(w.registry, PolymorphingDisabled, nil)
	assert.Same(t, w.shape, disabled.ResolveForSerialize(w.shape, circle))
}

func TestPolymorphismResolver_ResolveForDeserialize(t *testing.T) {
	w := newWorld(t)
	r := NewPolymorphismResolver(w.registry, PolymorphingEnabled, nil)

	t.Run("no discriminator", func(t *testing.T) {
		target, constructible, err := r.ResolveForDeserialize(w.point, "", false)
		require.NoError(t, err)
		assert.Same(t, w.point, target)
		assert.True(t, constructible)

		target, constructible, err = r.ResolveForDeserialize(w.shape, "", false)
		require.NoError(t, err)
		assert.Same(t, w.shape, target)
		assert.False(t, constructible, "abstract")
	})

	t.Run("descendant", func(t *testing.T) {
		target, constructible, err := r.ResolveForDeserialize(w.shape, "Square", true)
		require.NoError(t, err)
		assert.Same(t, w.square, target)
		assert.True(t, constructible)
	})

	t.Run("outside ancestry", func(t *testing.T) {
		_, _, err := r.ResolveForDeserialize(w.shape, "Person", true)
		assert.True(t, IsUnknownDiscriminatorType(err))
	})

	t.Run("ancestor of static", func(t *testing.T) {
		_, _, err := r.ResolveForDeserialize(w.circle, "Shape", true)
		assert.True(t, IsUnknownDiscriminatorType(err))
	})

	t.Run("unregistered", func(t *testing.T) {
		_, _, err := r.ResolveForDeserialize(w.shape, "Hexagon", true)
		assert.ErrorIs(t, err, ErrUnknownDiscriminatorType)
	})

	t.Run("scalar name", func(t *testing.T) {
		_, _, err := r.ResolveForDeserialize(w.shape, "string", true)
		assert.ErrorIs(t, err, ErrUnknownDiscriminatorType)
	})

	t.Run("disabled ignores discriminator", func(t *testing.T) {
		disabled := NewPolymorphismResolver(w.registry, PolymorphingDisabled, nil)
		target, _, err := disabled.ResolveForDeserialize(w.shape, "Person", true)
		require.NoError(t, err)
		assert.Same(t, w.shape, target)
	})

	t.Run("forced requires discriminator", func(t *testing.T) {
		forced := NewPolymorphismResolver(w.registry, PolymorphingForced, nil)
		_, _, err := forced.ResolveForDeserialize(w.point, "", false)
		assert.ErrorIs(t, err, ErrMissingDiscriminator)

		target, _, err := forced.ResolveForDeserialize(w.point, "Point", true)
		require.NoError(t, err)
		assert.Same(t, w.point, target)
	})
}
