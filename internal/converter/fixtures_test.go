package converter

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/value"
)

// world is the type registry shared by the converter tests
type world struct {
	registry *meta.Registry

	point  *meta.ObjectType
	shape  *meta.ObjectType
	circle *meta.ObjectType
	square *meta.ObjectType
	person *meta.ObjectType
	group  *meta.ObjectType
	node   *meta.ObjectType

	sharedPoint   meta.TypeID // declared by name only
	trackingPoint meta.TypeID // structured wrapper metadata
	sharedShape   meta.TypeID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	r := meta.NewRegistry()
	w := &world{registry: r}

	w.point = meta.Define("Point").
		Property("x", meta.TypeInt).
		Property("y", meta.TypeInt).
		MustRegister(r)

	w.shape = meta.Define("Shape").
		Polymorphic().
		Abstract().
		Property("label", meta.TypeString).
		Property("size", meta.TypeInt).
		MustRegister(r)

	w.circle = meta.Define("Circle").
		Extends(w.shape).
		Polymorphic().
		Property("radius", meta.TypeFloat).
		Property("size", meta.TypeFloat).
		ReadOnly("area", meta.TypeFloat, func(o *meta.Object) any {
			r, _ := o.Get("radius")
			radius, _ := r.(float64)
			return math.Round(math.Pi*radius*radius*100) / 100
		}).
		MustRegister(r)

	w.square = meta.Define("Square").
		Extends(w.shape).
		Property("side", meta.TypeFloat).
		MustRegister(r)

	w.person = meta.Define("Person").
		Property("name", meta.TypeString).
		MustRegister(r)

	w.sharedPoint = r.Declare("Shared[Point]")
	var err error
	w.trackingPoint, err = r.RegisterWrapper(meta.OwnershipTracking, w.point.ID)
	require.NoError(t, err)
	w.sharedShape = r.Declare("Shared[Shape]")

	w.group = meta.Define("Group").
		Property("title", meta.TypeString).
		Property("center", w.sharedPoint).
		Property("focus", w.trackingPoint).
		Property("shape", w.shape.ID).
		MustRegister(r)

	nodeID := r.Declare("Node")
	w.node = meta.Define("Node").
		OwnedByParent().
		Property("name", meta.TypeString).
		Property("child", nodeID).
		MustRegister(r)

	return w
}

func (w *world) newObject(t *testing.T, typ *meta.ObjectType, props map[string]any) *meta.Object {
	t.Helper()
	obj, err := w.registry.Construct(typ.ID, nil)
	require.NoError(t, err)
	for k, v := range props {
		require.NoError(t, obj.Set(k, v))
	}
	return obj
}

func (w *world) converter(t *testing.T, mutate func(*Config)) (*ObjectConverter, testHelper) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	conv, err := NewObjectConverter(w.registry, cfg, nil)
	require.NoError(t, err)
	return conv, testHelper{conv: conv}
}

// testHelper handles the builtin scalars and hands everything else back
// to the object converter.
type testHelper struct {
	conv *ObjectConverter
}

func (h testHelper) CanConvert(id meta.TypeID) bool {
	return id < meta.TypeUUID || h.conv.CanConvert(id)
}

func (h testHelper) SerializeValue(id meta.TypeID, v value.Boxed) (jsonvalue.Value, error) {
	if v.Data == nil && id <= meta.TypeString {
		return jsonvalue.NullValue(), nil
	}
	switch id {
	case meta.TypeBool:
		return jsonvalue.BoolValue(v.Data.(bool)), nil
	case meta.TypeInt:
		return jsonvalue.IntValue(v.Data.(int64)), nil
	case meta.TypeFloat:
		return jsonvalue.FloatValue(v.Data.(float64)), nil
	case meta.TypeString:
		return jsonvalue.StringValue(v.Data.(string)), nil
	}
	return h.conv.Serialize(id, v, h)
}

func (h testHelper) DeserializeValue(id meta.TypeID, j jsonvalue.Value, parent *meta.Object) (value.Boxed, error) {
	var (
		data any
		ok   bool
	)
	switch id {
	case meta.TypeBool:
		data, ok = j.AsBool()
	case meta.TypeInt:
		data, ok = j.AsInt()
	case meta.TypeFloat:
		data, ok = j.AsFloat()
	case meta.TypeString:
		data, ok = j.AsString()
	default:
		return h.conv.Deserialize(id, j, parent, h)
	}
	if !ok {
		return value.Boxed{}, fmt.Errorf("%w: %s for type %d", ErrShapeMismatch, j.Kind(), id)
	}
	return value.Of(id, data), nil
}

// countingOracle wraps a registry and counts Construct calls
type countingOracle struct {
	*meta.Registry
	constructed int
}

func (o *countingOracle) Construct(id meta.TypeID, parent *meta.Object) (*meta.Object, error) {
	o.constructed++
	return o.Registry.Construct(id, parent)
}

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}
