package converter

// DefaultDiscriminatorKey is the reserved key carrying the concrete type name
const DefaultDiscriminatorKey = "@type"

// Config holds the object converter settings
type Config struct {
	// DiscriminatorKey names the reserved type key
	DiscriminatorKey string
	// Polymorphing controls subtype handling
	Polymorphing Polymorphing
	// Strict rejects keys that match no property
	Strict bool
	// RequireAllProperties rejects objects missing a writable property
	RequireAllProperties bool
	// AllowNull accepts null for plain object types, yielding a nil object
	AllowNull bool
	// WrapperCacheSize bounds the wrapper classification cache; 0 disables it
	WrapperCacheSize int
}

// DefaultConfig returns the default converter configuration
func DefaultConfig() Config {
	return Config{
		DiscriminatorKey: DefaultDiscriminatorKey,
		Polymorphing:     PolymorphingEnabled,
		WrapperCacheSize: 256,
	}
}
