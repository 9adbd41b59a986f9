package meta

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Registry holds every type known to the converters.
// Entries are immutable once published; lookups take a read lock only.
// Each registration bumps a generation counter so callers caching
// negative lookups can tell when to retry.
type Registry struct {
	mu     sync.RWMutex
	types  []*TypeInfo // index = TypeID-1
	byName map[string]*TypeInfo

	generation atomic.Uint64
}

// NewRegistry creates a registry pre-populated with the builtin scalars
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*TypeInfo),
	}
	for id := TypeBool; id < firstUserType; id++ {
		r.publish(&TypeInfo{ID: id, Name: builtinNames[id], Kind: KindScalar})
	}
	return r
}

// publish stores info under its id. Callers hold r.mu.
func (r *Registry) publish(info *TypeInfo) {
	idx := int(info.ID) - 1
	if idx == len(r.types) {
		r.types = append(r.types, info)
	} else {
		r.types[idx] = info
	}
	r.byName[info.Name] = info
	r.generation.Add(1)
}

func (r *Registry) nextID() TypeID {
	return TypeID(len(r.types) + 1)
}

// Declare returns the id registered under name, registering an opaque
// entry if the name is unknown. Opaque entries are later upgraded in
// place by RegisterObject or RegisterWrapper, keeping their id.
func (r *Registry) Declare(name string) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.byName[name]; ok {
		return info.ID
	}
	info := &TypeInfo{ID: r.nextID(), Name: name, Kind: KindOpaque}
	r.publish(info)
	return info.ID
}

// RegisterObject registers an object type and assigns its ID.
// The supertype, if any, must already be registered in this registry.
func (r *Registry) RegisterObject(t *ObjectType) (TypeID, error) {
	if t == nil || t.Name == "" {
		return InvalidType, fmt.Errorf("object type must have a name")
	}

	seen := make(map[string]struct{}, len(t.Properties))
	for _, p := range t.Properties {
		if p.Name == "" {
			return InvalidType, fmt.Errorf("type %s declares a property without a name", t.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return InvalidType, fmt.Errorf("type %s declares property %s twice", t.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Super != nil {
		super, ok := r.lookupLocked(t.Super.ID)
		if !ok || super.Object != t.Super {
			return InvalidType, fmt.Errorf("supertype %s of %s is not registered: %w", t.Super.Name, t.Name, ErrTypeNotFound)
		}
	}
	for _, p := range t.Properties {
		if _, ok := r.lookupLocked(p.Type); !ok {
			return InvalidType, fmt.Errorf("property %s.%s has unknown type %d: %w", t.Name, p.Name, p.Type, ErrTypeNotFound)
		}
	}

	id := r.nextID()
	if existing, ok := r.byName[t.Name]; ok {
		if existing.Kind != KindOpaque {
			return InvalidType, fmt.Errorf("%w: %s", ErrDuplicateType, t.Name)
		}
		id = existing.ID
	}

	t.ID = id
	r.publish(&TypeInfo{ID: id, Name: t.Name, Kind: KindObject, Object: t})
	return id, nil
}

// RegisterWrapper registers structured metadata for a wrapper of elem.
// Registering the same wrapper twice returns the existing id.
func (r *Registry) RegisterWrapper(o Ownership, elem TypeID) (TypeID, error) {
	if o == OwnershipNone {
		return InvalidType, fmt.Errorf("wrapper ownership must be shared or tracking")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	elemInfo, ok := r.lookupLocked(elem)
	if !ok {
		return InvalidType, fmt.Errorf("wrapper element %d: %w", elem, ErrTypeNotFound)
	}

	name := WrapperName(o, elemInfo.Name)
	id := r.nextID()
	if existing, ok := r.byName[name]; ok {
		switch {
		case existing.Kind == KindWrapper && existing.Ownership == o && existing.Elem == elem:
			return existing.ID, nil
		case existing.Kind != KindOpaque:
			return InvalidType, fmt.Errorf("%w: %s", ErrDuplicateType, name)
		}
		id = existing.ID
	}

	r.publish(&TypeInfo{ID: id, Name: name, Kind: KindWrapper, Ownership: o, Elem: elem})
	return id, nil
}

func (r *Registry) lookupLocked(id TypeID) (*TypeInfo, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(r.types) {
		return nil, false
	}
	return r.types[idx], true
}

// Lookup returns the entry for id
func (r *Registry) Lookup(id TypeID) (*TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(id)
}

// LookupByName returns the entry registered under name
func (r *Registry) LookupByName(name string) (*TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byName[name]
	return info, ok
}

// MetadataFor returns the object metadata for id, if id is an object type
func (r *Registry) MetadataFor(id TypeID) (*ObjectType, bool) {
	info, ok := r.Lookup(id)
	if !ok || info.Kind != KindObject {
		return nil, false
	}
	return info.Object, true
}

// MetadataByName returns the object metadata registered under name
func (r *Registry) MetadataByName(name string) (*ObjectType, bool) {
	info, ok := r.LookupByName(name)
	if !ok || info.Kind != KindObject {
		return nil, false
	}
	return info.Object, true
}

// Construct creates a default instance of the object type id. Types that
// are OwnedByParent record parent as their owner.
func (r *Registry) Construct(id TypeID, parent *Object) (*Object, error) {
	info, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTypeNotFound, id)
	}
	if info.Kind != KindObject {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotObjectType, info.Name, info.Kind)
	}
	if info.Object.Abstract {
		return nil, fmt.Errorf("%w: %s", ErrAbstractType, info.Name)
	}
	return newObject(info.Object, parent), nil
}

// Generation returns a counter that changes on every registration
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}

// Types returns a snapshot of all entries ordered by id
func (r *Registry) Types() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]TypeInfo, len(r.types))
	for i, info := range r.types {
		result[i] = *info
	}
	return result
}

// Find returns the entries whose name matches pattern.
// Pattern supports wildcards: "*" matches any characters.
func (r *Registry) Find(pattern string) []TypeInfo {
	var result []TypeInfo
	for _, info := range r.Types() {
		if matchPattern(info.Name, pattern) {
			result = append(result, info)
		}
	}
	return result
}

// Count returns the number of registered types, builtins included
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// matchPattern matches a string against a pattern with wildcards
func matchPattern(s, pattern string) bool {
	// Exact match
	if pattern == s || pattern == "*" || pattern == "" {
		return true
	}

	// Prefix match (pattern ends with *)
	if strings.HasSuffix(pattern, "*") && !strings.Contains(strings.TrimSuffix(pattern, "*"), "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}

	// Suffix match (pattern starts with *)
	if strings.HasPrefix(pattern, "*") && !strings.Contains(strings.TrimPrefix(pattern, "*"), "*") {
		return strings.HasSuffix(s, strings.TrimPrefix(pattern, "*"))
	}

	// Contains match (pattern has * in the middle)
	if strings.Contains(pattern, "*") {
		parts := strings.Split(pattern, "*")
		if len(parts) == 2 {
			return len(s) >= len(parts[0])+len(parts[1]) &&
				strings.HasPrefix(s, parts[0]) && strings.HasSuffix(s, parts[1])
		}
	}

	return false
}
