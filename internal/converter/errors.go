package converter

import (
	"errors"
	"fmt"
)

// Conversion error kinds
var (
	// ErrShapeMismatch is returned when a JSON value is not the kind the target type expects
	ErrShapeMismatch = errors.New("json shape mismatch")

	// ErrUnknownDiscriminatorType is returned when the discriminator names an
	// unregistered type or a type outside the static type's ancestry
	ErrUnknownDiscriminatorType = errors.New("unknown discriminator type")

	// ErrMissingDiscriminator is returned in forced polymorphing mode when
	// an object carries no discriminator
	ErrMissingDiscriminator = errors.New("missing discriminator")

	// ErrConstructionFailed is returned when the target type cannot be instantiated
	ErrConstructionFailed = errors.New("object construction failed")

	// ErrUnknownProperty is returned in strict mode for keys matching no property
	ErrUnknownProperty = errors.New("unknown property")

	// ErrMissingProperty is returned when required properties are absent
	ErrMissingProperty = errors.New("missing property")

	// ErrPropertyConversionFailed is matched by every PropertyError
	ErrPropertyConversionFailed = errors.New("property conversion failed")

	// ErrNotConvertible is returned when a type is not an object or wrapper type
	ErrNotConvertible = errors.New("type is not convertible")

	// ErrInvalidValue is returned when a boxed payload does not match its tag
	ErrInvalidValue = errors.New("invalid boxed value")

	// ErrCyclicReference is returned when serializing an object that
	// reaches itself through its properties
	ErrCyclicReference = errors.New("cyclic reference")
)

// PropertyError reports a failed conversion of a single property
type PropertyError struct {
	Type     string
	Property string
	Err      error
}

// Error implements the error interface
func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %s.%s: %v", e.Type, e.Property, e.Err)
}

// Unwrap returns the underlying conversion error
func (e *PropertyError) Unwrap() error {
	return e.Err
}

// Is matches ErrPropertyConversionFailed
func (e *PropertyError) Is(target error) bool {
	return target == ErrPropertyConversionFailed
}

// IsShapeMismatch returns true if the error is ErrShapeMismatch
func IsShapeMismatch(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

// IsUnknownDiscriminatorType returns true if the error is ErrUnknownDiscriminatorType
func IsUnknownDiscriminatorType(err error) bool {
	return errors.Is(err, ErrUnknownDiscriminatorType)
}

// IsConstructionFailed returns true if the error is ErrConstructionFailed
func IsConstructionFailed(err error) bool {
	return errors.Is(err, ErrConstructionFailed)
}

// IsUnknownProperty returns true if the error is ErrUnknownProperty
func IsUnknownProperty(err error) bool {
	return errors.Is(err, ErrUnknownProperty)
}

// PropertyPath returns the dotted property path of nested PropertyErrors,
// outermost first, or "" if err is not a property error.
func PropertyPath(err error) string {
	path := ""
	for err != nil {
		var pe *PropertyError
		if !errors.As(err, &pe) {
			break
		}
		if path != "" {
			path += "."
		}
		path += pe.Property
		err = pe.Err
	}
	return path
}

// IsCyclicReference returns true if the error is ErrCyclicReference
func IsCyclicReference(err error) bool {
	return errors.Is(err, ErrCyclicReference)
}
