package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/objconv/internal/meta"
)

// Polymorphing controls when runtime subtypes are honored
type Polymorphing int

const (
	// PolymorphingDisabled always uses the static type and ignores discriminators
	PolymorphingDisabled Polymorphing = iota
	// PolymorphingEnabled honors subtypes of types marked Polymorphic
	PolymorphingEnabled
	// PolymorphingForced treats every type as polymorphic, always writes
	// the discriminator and requires it on input
	PolymorphingForced
)

// String returns the string representation of the mode
func (p Polymorphing) String() string {
	switch p {
	case PolymorphingDisabled:
		return "disabled"
	case PolymorphingEnabled:
		return "enabled"
	case PolymorphingForced:
		return "forced"
	default:
		return "unknown"
	}
}

// ParsePolymorphing converts a string to a Polymorphing mode
func ParsePolymorphing(s string) (Polymorphing, error) {
	switch s {
	case "disabled":
		return PolymorphingDisabled, nil
	case "enabled", "":
		return PolymorphingEnabled, nil
	case "forced":
		return PolymorphingForced, nil
	default:
		return 0, fmt.Errorf("unknown polymorphing mode: %s", s)
	}
}

// PolymorphismResolver picks the metadata record used for a conversion
type PolymorphismResolver struct {
	oracle Oracle
	mode   Polymorphing
	logger *zap.Logger
}

// NewPolymorphismResolver creates a resolver
func NewPolymorphismResolver(oracle Oracle, mode Polymorphing, logger *zap.Logger) *PolymorphismResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolymorphismResolver{oracle: oracle, mode: mode, logger: logger}
}

// Mode returns the polymorphing mode
func (r *PolymorphismResolver) Mode() Polymorphing {
	return r.mode
}

// IsPolymorphic reports whether values of the static type may be
// serialized as a subtype.
func (r *PolymorphismResolver) IsPolymorphic(static *meta.ObjectType) bool {
	switch r.mode {
	case PolymorphingDisabled:
		return false
	case PolymorphingForced:
		return true
	default:
		return static.Polymorphic
	}
}

// ResolveForSerialize returns the record to serialize obj with. The
// exact runtime record is used only when it descends from static;
// anything else falls back to static so no foreign shape is written.
func (r *PolymorphismResolver) ResolveForSerialize(static *meta.ObjectType, obj *meta.Object) *meta.ObjectType {
	if !r.IsPolymorphic(static) {
		return static
	}

	exact := obj.Type()
	if exact.Inherits(static) {
		return exact
	}

	r.logger.Warn("runtime type does not descend from static type",
		zap.String("static", static.Name),
		zap.String("runtime", exact.Name),
	)
	return static
}

// ResolveForDeserialize returns the record to construct for a JSON object
// whose static type is static. name is the discriminator value and
// present whether the object carried one. The boolean result reports
// whether the record can be constructed.
func (r *PolymorphismResolver) ResolveForDeserialize(static *meta.ObjectType, name string, present bool) (*meta.ObjectType, bool, error) {
	if r.mode == PolymorphingDisabled || !present {
		if r.mode == PolymorphingForced && !present {
			return nil, false, fmt.Errorf("%w: object of type %s", ErrMissingDiscriminator, static.Name)
		}
		return static, !static.Abstract, nil
	}

	target, ok := r.oracle.MetadataByName(name)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q is not a registered object type", ErrUnknownDiscriminatorType, name)
	}
	if !target.Inherits(static) {
		return nil, false, fmt.Errorf("%w: %s does not inherit from %s", ErrUnknownDiscriminatorType, target.Name, static.Name)
	}
	return target, !target.Abstract, nil
}
