package converter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/value"
)

// ObjectConverter converts reflectable objects, and shared or tracking
// wrappers around them, to and from JSON objects.
//
// It holds no per-call state and is safe for concurrent use.
type ObjectConverter struct {
	oracle   Oracle
	wrappers *WrapperMatcher
	resolver *PolymorphismResolver
	config   Config
	logger   *zap.Logger
}

var _ TypeConverter = (*ObjectConverter)(nil)

// NewObjectConverter creates an object converter backed by oracle
func NewObjectConverter(oracle Oracle, config Config, logger *zap.Logger) (*ObjectConverter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DiscriminatorKey == "" {
		config.DiscriminatorKey = DefaultDiscriminatorKey
	}

	wrappers, err := NewWrapperMatcher(oracle, config.WrapperCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create wrapper matcher: %w", err)
	}

	return &ObjectConverter{
		oracle:   oracle,
		wrappers: wrappers,
		resolver: NewPolymorphismResolver(oracle, config.Polymorphing, logger),
		config:   config,
		logger:   logger,
	}, nil
}

// CanConvert reports whether id is an object type or a wrapper around a
// convertible type.
func (c *ObjectConverter) CanConvert(id meta.TypeID) bool {
	return c.canConvert(id, make(map[meta.TypeID]struct{}))
}

func (c *ObjectConverter) canConvert(id meta.TypeID, visited map[meta.TypeID]struct{}) bool {
	if _, seen := visited[id]; seen {
		return false
	}
	visited[id] = struct{}{}

	if _, ok := c.oracle.MetadataFor(id); ok {
		return true
	}
	class := c.wrappers.Classify(id)
	if !class.IsWrapper() {
		return false
	}
	return c.canConvert(class.Inner, visited)
}

// JSONKinds returns object, and null for empty wrappers
func (c *ObjectConverter) JSONKinds() []jsonvalue.Kind {
	return []jsonvalue.Kind{jsonvalue.Object, jsonvalue.Null}
}

// staticType peels wrappers off id until it reaches an object type. The
// classification of id itself is returned alongside.
func (c *ObjectConverter) staticType(id meta.TypeID) (*meta.ObjectType, Classification, error) {
	outer := c.wrappers.Classify(id)

	visited := make(map[meta.TypeID]struct{})
	for cur := id; ; {
		if t, ok := c.oracle.MetadataFor(cur); ok {
			return t, outer, nil
		}
		if _, seen := visited[cur]; seen {
			break
		}
		visited[cur] = struct{}{}

		class := c.wrappers.Classify(cur)
		if !class.IsWrapper() {
			break
		}
		cur = class.Inner
	}
	return nil, outer, fmt.Errorf("%w: %s", ErrNotConvertible, c.typeName(id))
}

func (c *ObjectConverter) typeName(id meta.TypeID) string {
	if info, ok := c.oracle.Lookup(id); ok {
		return info.Name
	}
	return fmt.Sprintf("#%d", id)
}

// Serialize writes the object held by v as a JSON object. The
// discriminator comes first when the runtime type was used, followed by
// the readable properties from the most-derived type up to the root.
func (c *ObjectConverter) Serialize(id meta.TypeID, v value.Boxed, helper Helper) (jsonvalue.Value, error) {
	static, _, err := c.staticType(id)
	if err != nil {
		return jsonvalue.Value{}, err
	}

	obj, err := v.Object()
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if obj == nil {
		return jsonvalue.NullValue(), nil
	}

	if tracker, ok := helper.(Tracker); ok {
		if err := tracker.Enter(obj); err != nil {
			return jsonvalue.Value{}, err
		}
		defer tracker.Leave(obj)
	} else if err := checkAcyclic(obj); err != nil {
		return jsonvalue.Value{}, err
	}

	resolved := c.resolver.ResolveForSerialize(static, obj)

	out := jsonvalue.NewMap()
	seen := make(map[string]struct{})
	if resolved != static || c.resolver.Mode() == PolymorphingForced {
		out.Set(c.config.DiscriminatorKey, jsonvalue.StringValue(resolved.Name))
		seen[c.config.DiscriminatorKey] = struct{}{}
	}

	for _, t := range resolved.Ancestry() {
		for _, p := range t.Properties {
			// a derived declaration shadows the base one even when unreadable
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			if !p.Readable {
				continue
			}

			j, err := helper.SerializeValue(p.Type, value.Box(p.Type, p.Read(obj)))
			if err != nil {
				return jsonvalue.Value{}, &PropertyError{Type: resolved.Name, Property: p.Name, Err: err}
			}
			out.Set(p.Name, j)
		}
	}

	return jsonvalue.ObjectValue(out), nil
}

// Deserialize constructs an object of type id, or of the subtype named by
// the discriminator, from a JSON object. The object is published to
// parent only once every property has been assigned.
func (c *ObjectConverter) Deserialize(id meta.TypeID, j jsonvalue.Value, parent *meta.Object, helper Helper) (value.Boxed, error) {
	static, class, err := c.staticType(id)
	if err != nil {
		return value.Boxed{}, err
	}

	if j.IsNull() {
		if class.IsWrapper() {
			return value.Empty(id, class.Ownership), nil
		}
		if c.config.AllowNull {
			return value.Of(id, (*meta.Object)(nil)), nil
		}
		return value.Boxed{}, fmt.Errorf("%w: null is not a valid %s", ErrShapeMismatch, static.Name)
	}

	fields, ok := j.AsObject()
	if !ok {
		return value.Boxed{}, fmt.Errorf("%w: expected object for %s, got %s", ErrShapeMismatch, static.Name, j.Kind())
	}

	name, present, err := c.discriminator(fields)
	if err != nil {
		return value.Boxed{}, err
	}

	target, constructible, err := c.resolver.ResolveForDeserialize(static, name, present)
	if err != nil {
		return value.Boxed{}, err
	}
	if !constructible {
		return value.Boxed{}, fmt.Errorf("%w: %s is abstract", ErrConstructionFailed, target.Name)
	}
	if target != static {
		c.logger.Debug("deserializing subtype",
			zap.String("static", static.Name),
			zap.String("target", target.Name),
		)
	}

	instance, err := c.oracle.Construct(target.ID, parent)
	if err != nil {
		return value.Boxed{}, fmt.Errorf("%w: %w", ErrConstructionFailed, err)
	}

	if err := c.assign(target, instance, fields, helper); err != nil {
		return value.Boxed{}, err
	}

	instance.Attach()

	switch class.Ownership {
	case meta.OwnershipShared:
		return value.Shared(id, meta.NewShared(instance)), nil
	case meta.OwnershipTracking:
		return value.Weak(id, meta.NewTracking(instance)), nil
	default:
		return value.Of(id, instance), nil
	}
}

// discriminator reads the reserved type key
func (c *ObjectConverter) discriminator(fields *jsonvalue.Map) (string, bool, error) {
	raw, ok := fields.Get(c.config.DiscriminatorKey)
	if !ok {
		return "", false, nil
	}
	name, ok := raw.AsString()
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string, got %s", ErrUnknownDiscriminatorType, c.config.DiscriminatorKey, raw.Kind())
	}
	return name, true, nil
}

// assign deserializes every key of fields onto instance in document order
func (c *ObjectConverter) assign(target *meta.ObjectType, instance *meta.Object, fields *jsonvalue.Map, helper Helper) error {
	assigned := make(map[string]struct{}, fields.Len())

	var failure error
	fields.Range(func(key string, raw jsonvalue.Value) bool {
		if key == c.config.DiscriminatorKey {
			return true
		}

		p, ok := target.Property(key)
		if !ok {
			if c.config.Strict {
				failure = fmt.Errorf("%w: %s.%s", ErrUnknownProperty, target.Name, key)
				return false
			}
			c.logger.Debug("ignoring unknown property",
				zap.String("type", target.Name),
				zap.String("property", key),
			)
			return true
		}
		if !p.Writable {
			c.logger.Debug("ignoring read-only property",
				zap.String("type", target.Name),
				zap.String("property", key),
			)
			return true
		}

		boxed, err := helper.DeserializeValue(p.Type, raw, instance)
		if err != nil {
			failure = &PropertyError{Type: target.Name, Property: key, Err: err}
			return false
		}
		if err := p.Write(instance, boxed.Data); err != nil {
			failure = &PropertyError{Type: target.Name, Property: key, Err: err}
			return false
		}
		assigned[key] = struct{}{}
		return true
	})
	if failure != nil {
		return failure
	}

	if c.config.RequireAllProperties {
		var missing []string
		for _, p := range target.AllProperties() {
			if !p.Writable {
				continue
			}
			if _, ok := assigned[p.Name]; !ok {
				missing = append(missing, p.Name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s.{%s}", ErrMissingProperty, target.Name, strings.Join(missing, ", "))
		}
	}

	return nil
}
