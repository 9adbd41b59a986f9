// Package schema loads object type definitions from YAML into a registry.
//
//	types:
//	  - name: Shape
//	    polymorphic: true
//	    abstract: true
//	    properties:
//	      - {name: label, type: string}
//	  - name: Circle
//	    extends: Shape
//	    properties:
//	      - {name: radius, type: float}
//	      - {name: center, type: "Shared[Point]"}
//
// Supertypes are registered before their subtypes regardless of file
// order. Property types may name types defined later in the file.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/objconv/internal/meta"
)

var (
	// ErrUnknownType is returned when a property names a type that is
	// neither registered nor defined in the file
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownSupertype is returned when extends names no object type
	ErrUnknownSupertype = errors.New("unknown supertype")

	// ErrInheritanceCycle is returned when extends chains loop
	ErrInheritanceCycle = errors.New("inheritance cycle")

	// ErrDuplicateDefinition is returned when a name is defined twice
	ErrDuplicateDefinition = errors.New("duplicate definition")
)

// File is a parsed type definition document
type File struct {
	Types []TypeDef `yaml:"types"`
}

// TypeDef defines one object type
type TypeDef struct {
	Name        string        `yaml:"name"`
	Extends     string        `yaml:"extends"`
	Polymorphic bool          `yaml:"polymorphic"`
	Abstract    bool          `yaml:"abstract"`
	Owned       bool          `yaml:"owned"`
	Properties  []PropertyDef `yaml:"properties"`
}

// PropertyDef defines one property of a type
type PropertyDef struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	ReadOnly  bool   `yaml:"readonly"`
	WriteOnly bool   `yaml:"writeonly"`
}

// Parse decodes a definition document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse type definitions: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and parses a definition file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Load reads the definition file at path and registers its types in r
func Load(path string, r *meta.Registry) ([]*meta.ObjectType, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Register(r)
}

func (f *File) validate() error {
	names := make(map[string]struct{}, len(f.Types))
	for i, def := range f.Types {
		if def.Name == "" {
			return fmt.Errorf("type #%d has no name", i+1)
		}
		if _, dup := names[def.Name]; dup {
			return fmt.Errorf("%w: type %s", ErrDuplicateDefinition, def.Name)
		}
		names[def.Name] = struct{}{}

		props := make(map[string]struct{}, len(def.Properties))
		for _, p := range def.Properties {
			if p.Name == "" || p.Type == "" {
				return fmt.Errorf("type %s: property needs a name and a type", def.Name)
			}
			if _, dup := props[p.Name]; dup {
				return fmt.Errorf("%w: property %s.%s", ErrDuplicateDefinition, def.Name, p.Name)
			}
			if p.ReadOnly && p.WriteOnly {
				return fmt.Errorf("property %s.%s cannot be both readonly and writeonly", def.Name, p.Name)
			}
			props[p.Name] = struct{}{}
		}
	}
	return nil
}

// Register registers every type of f in r, supertypes first, and returns
// them in registration order.
func (f *File) Register(r *meta.Registry) ([]*meta.ObjectType, error) {
	l := &loader{
		registry: r,
		defs:     make(map[string]*TypeDef, len(f.Types)),
		state:    make(map[string]visitState, len(f.Types)),
	}
	for i := range f.Types {
		l.defs[f.Types[i].Name] = &f.Types[i]
	}

	for i := range f.Types {
		if _, err := l.visit(f.Types[i].Name, nil); err != nil {
			return nil, err
		}
	}
	return l.loaded, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

type loader struct {
	registry *meta.Registry
	defs     map[string]*TypeDef
	state    map[string]visitState
	loaded   []*meta.ObjectType
}

// visit registers the named file type after its supertype chain
func (l *loader) visit(name string, chain []string) (*meta.ObjectType, error) {
	def := l.defs[name]

	switch l.state[name] {
	case done:
		t, _ := l.registry.MetadataByName(name)
		return t, nil
	case visiting:
		return nil, fmt.Errorf("%w: %s", ErrInheritanceCycle, strings.Join(append(chain, name), " -> "))
	}
	l.state[name] = visiting

	var super *meta.ObjectType
	if def.Extends != "" {
		if _, inFile := l.defs[def.Extends]; inFile {
			var err error
			if super, err = l.visit(def.Extends, append(chain, name)); err != nil {
				return nil, err
			}
		} else {
			var ok bool
			if super, ok = l.registry.MetadataByName(def.Extends); !ok {
				return nil, fmt.Errorf("%w: %s extends %s", ErrUnknownSupertype, name, def.Extends)
			}
		}
	}

	b := meta.Define(name)
	if super != nil {
		b.Extends(super)
	}
	if def.Polymorphic {
		b.Polymorphic()
	}
	if def.Abstract {
		b.Abstract()
	}
	if def.Owned {
		b.OwnedByParent()
	}

	for _, p := range def.Properties {
		typ, err := l.resolve(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %s.%s: %w", name, p.Name, err)
		}
		switch {
		case p.ReadOnly:
			b.ReadOnly(p.Name, typ, nil)
		case p.WriteOnly:
			b.WriteOnly(p.Name, typ)
		default:
			b.Property(p.Name, typ)
		}
	}

	t, err := b.Register(l.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	l.state[name] = done
	l.loaded = append(l.loaded, t)
	return t, nil
}

// resolve maps a property type name to a registry id. Types defined later
// in the file are declared, and wrapper names get structured metadata.
func (l *loader) resolve(name string) (meta.TypeID, error) {
	if o, inner, ok := splitWrapper(name); ok {
		elem, err := l.resolve(inner)
		if err != nil {
			return meta.InvalidType, err
		}
		return l.registry.RegisterWrapper(o, elem)
	}

	if info, ok := l.registry.LookupByName(name); ok {
		return info.ID, nil
	}
	if _, inFile := l.defs[name]; inFile {
		return l.registry.Declare(name), nil
	}
	return meta.InvalidType, fmt.Errorf("%w: %s", ErrUnknownType, name)
}

var wrapperPrefixes = []struct {
	prefix    string
	ownership meta.Ownership
}{
	{"Shared[", meta.OwnershipShared},
	{"Tracking[", meta.OwnershipTracking},
}

func splitWrapper(name string) (meta.Ownership, string, bool) {
	if !strings.HasSuffix(name, "]") {
		return meta.OwnershipNone, "", false
	}
	for _, w := range wrapperPrefixes {
		if strings.HasPrefix(name, w.prefix) {
			return w.ownership, strings.TrimSpace(name[len(w.prefix) : len(name)-1]), true
		}
	}
	return meta.OwnershipNone, "", false
}
