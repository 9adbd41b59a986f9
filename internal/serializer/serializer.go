// Package serializer dispatches values to the type converters plugged
// into it and drives whole-document marshaling.
package serializer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/objconv/internal/converter"
	"github.com/conduit-lang/objconv/internal/jsonvalue"
	"github.com/conduit-lang/objconv/internal/meta"
	"github.com/conduit-lang/objconv/internal/value"
)

// ErrNoConverter is returned when no registered converter handles a type
var ErrNoConverter = errors.New("no converter for type")

// Converter priorities used by NewWithDefaults
const (
	PriorityScalar = 100
	PriorityObject = 0
)

type registration struct {
	name     string
	priority int
	conv     converter.TypeConverter
}

// Serializer picks a converter per type id and implements
// converter.Helper so converters can recurse through it.
type Serializer struct {
	oracle converter.Oracle
	logger *zap.Logger

	mu         sync.RWMutex
	converters []registration

	// chosen memoizes positive converter lookups by type id
	chosen sync.Map
}

var _ converter.Helper = (*Serializer)(nil)

// New creates a serializer with no converters
func New(oracle converter.Oracle, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Serializer{oracle: oracle, logger: logger}
}

// NewWithDefaults creates a serializer with the scalar converter and an
// object converter configured by config.
func NewWithDefaults(oracle converter.Oracle, config converter.Config, logger *zap.Logger) (*Serializer, error) {
	s := New(oracle, logger)

	objects, err := converter.NewObjectConverter(oracle, config, s.logger.Named("object"))
	if err != nil {
		return nil, err
	}

	s.Register("scalar", ScalarConverter{}, PriorityScalar)
	s.Register("object", objects, PriorityObject)
	return s, nil
}

// Register adds a converter. Converters with a higher priority are asked
// first; equal priorities keep registration order.
func (s *Serializer) Register(name string, conv converter.TypeConverter, priority int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.converters = append(s.converters, registration{name: name, priority: priority, conv: conv})
	sort.SliceStable(s.converters, func(i, j int) bool {
		return s.converters[i].priority > s.converters[j].priority
	})

	s.chosen.Range(func(key, _ any) bool {
		s.chosen.Delete(key)
		return true
	})
}

// Converters returns the names of the registered converters in the
// order they are consulted.
func (s *Serializer) Converters() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.converters))
	for i, r := range s.converters {
		names[i] = r.name
	}
	return names
}

// ConverterFor returns the converter handling id
func (s *Serializer) ConverterFor(id meta.TypeID) (converter.TypeConverter, error) {
	if cached, ok := s.chosen.Load(id); ok {
		return cached.(converter.TypeConverter), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.converters {
		if r.conv.CanConvert(id) {
			s.logger.Debug("selected converter",
				zap.String("type", s.typeName(id)),
				zap.String("converter", r.name),
			)
			s.chosen.Store(id, r.conv)
			return r.conv, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoConverter, s.typeName(id))
}

// CanConvert reports whether any converter handles id
func (s *Serializer) CanConvert(id meta.TypeID) bool {
	_, err := s.ConverterFor(id)
	return err == nil
}

// SerializeValue converts v, of type id, to JSON
func (s *Serializer) SerializeValue(id meta.TypeID, v value.Boxed) (jsonvalue.Value, error) {
	e := &encodeState{Serializer: s, PathTracker: converter.NewPathTracker()}
	return e.SerializeValue(id, v)
}

// encodeState is the helper handed to converters during one
// serialization call. It carries the objects on the current path so
// cyclic graphs fail instead of recursing forever.
type encodeState struct {
	*Serializer
	*converter.PathTracker
}

var (
	_ converter.Helper  = (*encodeState)(nil)
	_ converter.Tracker = (*encodeState)(nil)
)

func (e *encodeState) SerializeValue(id meta.TypeID, v value.Boxed) (jsonvalue.Value, error) {
	conv, err := e.ConverterFor(id)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return conv.Serialize(id, v, e)
}

// DeserializeValue converts j to a value of type id. The JSON kind is
// checked against the converter before it sees the document.
func (s *Serializer) DeserializeValue(id meta.TypeID, j jsonvalue.Value, parent *meta.Object) (value.Boxed, error) {
	conv, err := s.ConverterFor(id)
	if err != nil {
		return value.Boxed{}, err
	}
	if !converter.KindAccepted(conv.JSONKinds(), j.Kind()) {
		return value.Boxed{}, fmt.Errorf("%w: %s cannot be read from %s", converter.ErrShapeMismatch, s.typeName(id), j.Kind())
	}
	return conv.Deserialize(id, j, parent, s)
}

// Marshal encodes v as compact JSON
func (s *Serializer) Marshal(v value.Boxed) ([]byte, error) {
	j, err := s.SerializeValue(v.Type, v)
	if err != nil {
		return nil, err
	}
	return j.MarshalJSON()
}

// MarshalIndent encodes v as JSON indented by two spaces
func (s *Serializer) MarshalIndent(v value.Boxed) ([]byte, error) {
	j, err := s.SerializeValue(v.Type, v)
	if err != nil {
		return nil, err
	}
	return jsonvalue.Indent(j)
}

// Unmarshal decodes data as a value of type id
func (s *Serializer) Unmarshal(data []byte, id meta.TypeID, parent *meta.Object) (value.Boxed, error) {
	j, err := jsonvalue.Parse(data)
	if err != nil {
		return value.Boxed{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return s.DeserializeValue(id, j, parent)
}

func (s *Serializer) typeName(id meta.TypeID) string {
	if info, ok := s.oracle.Lookup(id); ok {
		return info.Name
	}
	return fmt.Sprintf("#%d", id)
}
