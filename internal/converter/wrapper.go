package converter

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/conduit-lang/objconv/internal/meta"
)

// Wrapper type names as rendered by the registry and by Go's own generic
// type names, optionally package qualified: "Shared[Circle]",
// "meta.Tracking[shapes.Circle]".
var (
	sharedTypeRegex   = regexp.MustCompile(`^(?:[\w./-]+\.)?Shared\[(.+)\]$`)
	trackingTypeRegex = regexp.MustCompile(`^(?:[\w./-]+\.)?Tracking\[(.+)\]$`)
)

// Classification is the result of classifying a type as a wrapper
type Classification struct {
	// Ownership is OwnershipNone for types that are not wrappers
	Ownership meta.Ownership
	// Inner is the wrapped type
	Inner meta.TypeID
}

// IsWrapper reports whether the type is a shared or tracking wrapper
func (c Classification) IsWrapper() bool {
	return c.Ownership != meta.OwnershipNone
}

var notAWrapper = Classification{}

type cachedClassification struct {
	class      Classification
	generation uint64
}

// WrapperMatcher classifies types as shared or tracking wrappers.
//
// Structured wrapper metadata is used when the registry has it; other
// types are matched by name. Results are cached per type id. A negative
// result is only reused while the registry generation is unchanged, since
// registering the inner type later turns a name into a wrapper.
type WrapperMatcher struct {
	oracle Oracle
	cache  *lru.Cache
	logger *zap.Logger
}

// NewWrapperMatcher creates a matcher. cacheSize 0 disables the cache.
func NewWrapperMatcher(oracle Oracle, cacheSize int, logger *zap.Logger) (*WrapperMatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &WrapperMatcher{oracle: oracle, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, err
		}
		m.cache = cache
	}
	return m, nil
}

// Classify classifies the type id
func (m *WrapperMatcher) Classify(id meta.TypeID) Classification {
	generation := m.oracle.Generation()
	if m.cache != nil {
		if cached, ok := m.cache.Get(id); ok {
			entry := cached.(cachedClassification)
			if entry.class.IsWrapper() || entry.generation == generation {
				return entry.class
			}
		}
	}

	class := m.classify(id)
	if m.cache != nil {
		m.cache.Add(id, cachedClassification{class: class, generation: generation})
	}
	return class
}

func (m *WrapperMatcher) classify(id meta.TypeID) Classification {
	info, ok := m.oracle.Lookup(id)
	if !ok {
		return notAWrapper
	}
	if info.Kind == meta.KindWrapper {
		return Classification{Ownership: info.Ownership, Inner: info.Elem}
	}
	if info.Kind != meta.KindOpaque {
		return notAWrapper
	}
	return m.ClassifyName(info.Name)
}

// ClassifyName classifies a type by its name alone. A name that looks
// like a wrapper around an unregistered type is not a wrapper.
func (m *WrapperMatcher) ClassifyName(name string) Classification {
	ownership := meta.OwnershipNone
	var inner string
	if match := sharedTypeRegex.FindStringSubmatch(name); match != nil {
		ownership, inner = meta.OwnershipShared, match[1]
	} else if match := trackingTypeRegex.FindStringSubmatch(name); match != nil {
		ownership, inner = meta.OwnershipTracking, match[1]
	} else {
		return notAWrapper
	}

	info, ok := m.oracle.LookupByName(inner)
	if !ok && !strings.Contains(inner, "[") {
		if dot := strings.LastIndex(inner, "."); dot >= 0 {
			info, ok = m.oracle.LookupByName(inner[dot+1:])
		}
	}
	if !ok {
		m.logger.Debug("wrapper inner type is not registered",
			zap.String("type", name),
			zap.String("inner", inner),
		)
		return notAWrapper
	}
	return Classification{Ownership: ownership, Inner: info.ID}
}
