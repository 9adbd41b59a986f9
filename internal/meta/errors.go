package meta

import "errors"

var (
	// ErrTypeNotFound is returned when a type id or name is not registered
	ErrTypeNotFound = errors.New("type not found")

	// ErrNotObjectType is returned when an object operation targets a non-object type
	ErrNotObjectType = errors.New("not an object type")

	// ErrAbstractType is returned when constructing an abstract type
	ErrAbstractType = errors.New("type is abstract")

	// ErrDuplicateType is returned when a name is registered twice
	ErrDuplicateType = errors.New("type is already registered")

	// ErrPropertyNotFound is returned when a property does not exist on a type
	ErrPropertyNotFound = errors.New("property not found")
)

// IsTypeNotFound returns true if the error is ErrTypeNotFound
func IsTypeNotFound(err error) bool {
	return errors.Is(err, ErrTypeNotFound)
}

// IsAbstractType returns true if the error is ErrAbstractType
func IsAbstractType(err error) bool {
	return errors.Is(err, ErrAbstractType)
}
