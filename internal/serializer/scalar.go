package serializer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/conduit-lang/objconv/internal/converter"
	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/value"
)

// ScalarConverter converts the builtin scalar types. A nil payload is
// written as null and null reads back as a nil payload.
type ScalarConverter struct{}

var _ converter.TypeConverter = ScalarConverter{}

// CanConvert reports whether id is a builtin scalar
func (ScalarConverter) CanConvert(id meta.TypeID) bool {
	return id >= meta.TypeBool && id <= meta.TypeUUID
}

// JSONKinds returns the kinds any scalar may be read from
func (ScalarConverter) JSONKinds() []jsonvalue.Kind {
	return []jsonvalue.Kind{jsonvalue.Bool, jsonvalue.Number, jsonvalue.String, jsonvalue.Null}
}

// Serialize converts a scalar payload to JSON
func (ScalarConverter) Serialize(id meta.TypeID, v value.Boxed, _ converter.Helper) (jsonvalue.Value, error) {
	if v.Data == nil {
		return jsonvalue.NullValue(), nil
	}

	switch id {
	case meta.TypeBool:
		if b, ok := v.Data.(bool); ok {
			return jsonvalue.BoolValue(b), nil
		}
	case meta.TypeInt:
		switch n := v.Data.(type) {
		case int64:
			return jsonvalue.IntValue(n), nil
		case int:
			return jsonvalue.IntValue(int64(n)), nil
		case int32:
			return jsonvalue.IntValue(int64(n)), nil
		}
	case meta.TypeFloat:
		switch f := v.Data.(type) {
		case float64:
			return jsonvalue.FloatValue(f), nil
		case float32:
			return jsonvalue.FloatValue(float64(f)), nil
		case int64:
			return jsonvalue.FloatValue(float64(f)), nil
		}
	case meta.TypeString:
		if s, ok := v.Data.(string); ok {
			return jsonvalue.StringValue(s), nil
		}
	case meta.TypeUUID:
		switch u := v.Data.(type) {
		case uuid.UUID:
			return jsonvalue.StringValue(u.String()), nil
		case string:
			parsed, err := uuid.Parse(u)
			if err != nil {
				return jsonvalue.Value{}, fmt.Errorf("%w: %v", converter.ErrInvalidValue, err)
			}
			return jsonvalue.StringValue(parsed.String()), nil
		}
	default:
		return jsonvalue.Value{}, fmt.Errorf("%w: type %d is not a scalar", converter.ErrNotConvertible, id)
	}

	return jsonvalue.Value{}, fmt.Errorf("%w: %T for %s", converter.ErrInvalidValue, v.Data, scalarName(id))
}

// Deserialize reads a scalar of type id from JSON
func (ScalarConverter) Deserialize(id meta.TypeID, j jsonvalue.Value, _ *meta.Object, _ converter.Helper) (value.Boxed, error) {
	if j.IsNull() {
		return value.Of(id, nil), nil
	}

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
	case meta.TypeUUID:
		var s string
		if s, ok = j.AsString(); ok {
			u, err := uuid.Parse(s)
			if err != nil {
				return value.Boxed{}, fmt.Errorf("%w: %v", converter.ErrInvalidValue, err)
			}
			data = u
		}
	default:
		return value.Boxed{}, fmt.Errorf("%w: type %d is not a scalar", converter.ErrNotConvertible, id)
	}

	if !ok {
		return value.Boxed{}, fmt.Errorf("%w: expected %s, got %s", converter.ErrShapeMismatch, scalarName(id), j.Kind())
	}
	return value.Of(id, data), nil
}

func scalarName(id meta.TypeID) string {
	switch id {
	case meta.TypeBool:
		return "bool"
	case meta.TypeInt:
		return "int"
	case meta.TypeFloat:
		return "float"
	case meta.TypeString:
		return "string"
	case meta.TypeUUID:
		return "uuid"
	default:
		return fmt.Sprintf("#%d", id)
	}
}
