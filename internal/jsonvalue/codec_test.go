package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zeta": 1, "alpha": [true, null, "x"], "mid": {"b": 2.5, "a": -1}}`))
	require.NoError(t, err)

	m, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())

	nested, _ := m.Get("mid")
	inner, ok := nested.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, inner.Keys())

	assert.Equal(t, `{"zeta":1,"alpha":[true,null,"x"],"mid":{"b":2.5,"a":-1}}`, v.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated", `{"a": 1`},
		{"trailing data", `{} {}`},
		{"bad literal", `{"a": tru}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte(`{"a": 1, "a": 2}`))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestParseJSONC(t *testing.T) {
	v, err := ParseJSONC([]byte(`{
		// the radius
		"radius": 2,
		/* trailing comma */
		"label": "c",
	}`))
	require.NoError(t, err)

	m, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"radius", "label"}, m.Keys())
}

func TestValue_Accessors(t *testing.T) {
	i, ok := IntValue(42).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	i, ok = FloatValue(3.0).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	_, ok = FloatValue(3.5).AsInt()
	assert.False(t, ok)

	f, ok := FloatValue(3.5).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	s, ok := StringValue("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = StringValue("x").AsInt()
	assert.False(t, ok)

	b, ok := BoolValue(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, NullValue().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.Equal(t, Array, ArrayValue().Kind())
	assert.Equal(t, "object", ObjectValue(nil).Kind().String())
}

func TestValue_Equal(t *testing.T) {
	a := NewMap()
	a.Set("x", IntValue(1))
	a.Set("y", StringValue("s"))

	b := NewMap()
	b.Set("x", FloatValue(1))
	b.Set("y", StringValue("s"))

	reordered := NewMap()
	reordered.Set("y", StringValue("s"))
	reordered.Set("x", IntValue(1))

	assert.True(t, ObjectValue(a).Equal(ObjectValue(b)))
	assert.False(t, ObjectValue(a).Equal(ObjectValue(reordered)), "key order is significant")
	assert.False(t, IntValue(1).Equal(StringValue("1")))
	assert.True(t, ArrayValue(NullValue()).Equal(ArrayValue(NullValue())))
}

func TestMap_SetReplaceDelete(t *testing.T) {
	m := NewMap()
	m.Set("a", IntValue(1))
	m.Set("b", IntValue(2))
	m.Set("a", IntValue(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, "3", v.String())

	m.Delete("a")
	m.Delete("missing")
	assert.Equal(t, []string{"b"}, m.Keys())
	assert.Equal(t, 1, m.Len())

	var seen []string
	m.Range(func(key string, _ Value) bool {
		seen = append(seen, key)
		return true
	})
	assert.Equal(t, []string{"b"}, seen)
}

func TestIndent(t *testing.T) {
	m := NewMap()
	m.Set("a", IntValue(1))

	out, err := Indent(ObjectValue(m))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`{"b":1,"a":2}`)))
	m, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestMarshal_KeepsHTMLCharacters(t *testing.T) {
	m := NewMap()
	m.Set("<tag>", StringValue("a<b>&c"))

	data, err := ObjectValue(m).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"<tag>":"a<b>&c"}`, string(data))

	data, err = StringValue("line\n\"quoted\" ").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"line\n\"quoted\" "`, string(data))
}

func TestValue_AsIntRange(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"9223372036854775807", 9223372036854775807, true},
		{"-9223372036854775808", -9223372036854775808, true},
		{"1e18", 1000000000000000000, true},
		{"-9.223372036854775808e18", -9223372036854775808, true},
		{"9223372036854775808", 0, false},
		{"9.3e18", 0, false},
		{"-9.3e18", 0, false},
		{"1e400", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse([]byte(tt.input))
			require.NoError(t, err)

			got, ok := v.AsInt()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
