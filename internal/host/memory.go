package host

import (
	"context"
	"fmt"
	"strings"

	"framecast/internal/model"
)

var _ Adapter = (*Memory)(nil)

// Memory is an in-process adapter used by tests and --dry-run imports.
// It behaves like a host document with a small pre-seeded type catalog.
type Memory struct {
	nextID int64

	levels    map[string]LevelHandle
	materials map[string]MaterialHandle
	types     []*memoryType
	elements  map[ElementHandle]*MemoryElement

	// InstantiateErr, when set, makes every Instantiate call fail. Used
	// to exercise per-element adapter failure handling.
	InstantiateErr error
}

type memoryType struct {
	handle TypeHandle
	kind   model.Kind
	family string
	name   string
	dims   map[string]float64
}

// MemoryElement is the record of one instantiated element.
type MemoryElement struct {
	Kind     model.Kind
	Type     TypeHandle
	Instance Instance
	Tag      Tag
	Tagged   bool
	Updated  bool
}

func NewMemory() *Memory {
	return &Memory{
		levels:    make(map[string]LevelHandle),
		materials: make(map[string]MaterialHandle),
		elements:  make(map[ElementHandle]*MemoryElement),
	}
}

// AddType seeds one pre-existing platform type.
func (m *Memory) AddType(kind model.Kind, family, name string) TypeHandle {
	handle := TypeHandle(m.next())
	m.types = append(m.types, &memoryType{
		handle: handle,
		kind:   kind,
		family: family,
		name:   name,
		dims:   make(map[string]float64),
	})
	return handle
}

// Elements returns every instantiated element keyed by handle.
func (m *Memory) Elements() map[ElementHandle]*MemoryElement {
	return m.elements
}

// TypeCount reports how many types exist, created or seeded.
func (m *Memory) TypeCount() int {
	return len(m.types)
}

func (m *Memory) next() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateOrGetLevel(ctx context.Context, name string, elevationMM float64) (LevelHandle, error) {
	if h, ok := m.levels[name]; ok {
		return h, nil
	}
	h := LevelHandle(m.next())
	m.levels[name] = h
	return h, nil
}

func (m *Memory) CreateOrGetMaterial(ctx context.Context, name string) (MaterialHandle, error) {
	if h, ok := m.materials[name]; ok {
		return h, nil
	}
	h := MaterialHandle(m.next())
	m.materials[name] = h
	return h, nil
}

func (m *Memory) FindTypeByFamily(ctx context.Context, kind model.Kind, candidates []string) (TypeHandle, string, bool, error) {
	if candidates == nil {
		for _, t := range m.types {
			if t.kind == kind {
				return t.handle, t.family, true, nil
			}
		}
		return 0, "", false, nil
	}
	for _, candidate := range candidates {
		for _, t := range m.types {
			if t.kind == kind && strings.EqualFold(t.family, candidate) {
				return t.handle, t.family, true, nil
			}
		}
	}
	return 0, "", false, nil
}

func (m *Memory) CloneType(ctx context.Context, source TypeHandle, newName string) (TypeHandle, error) {
	src := m.typeByHandle(source)
	if src == nil {
		return 0, fmt.Errorf("clone source type %d does not exist", source)
	}
	for _, t := range m.types {
		if t.kind == src.kind && t.name == newName {
			return t.handle, nil
		}
	}
	clone := &memoryType{
		handle: TypeHandle(m.next()),
		kind:   src.kind,
		family: src.family,
		name:   newName,
		dims:   make(map[string]float64, len(src.dims)),
	}
	for k, v := range src.dims {
		clone.dims[k] = v
	}
	m.types = append(m.types, clone)
	return clone.handle, nil
}

func (m *Memory) SetTypeDimension(ctx context.Context, handle TypeHandle, key string, valueMM float64) (bool, error) {
	t := m.typeByHandle(handle)
	if t == nil {
		return false, fmt.Errorf("type %d does not exist", handle)
	}
	normalized, ok := supportedDimension(key)
	if !ok {
		return false, nil
	}
	t.dims[normalized] = valueMM
	return true, nil
}

func (m *Memory) Instantiate(ctx context.Context, kind model.Kind, t TypeHandle, inst Instance) (ElementHandle, error) {
	if m.InstantiateErr != nil {
		return 0, m.InstantiateErr
	}
	if m.typeByHandle(t) == nil {
		return 0, fmt.Errorf("type %d does not exist", t)
	}
	h := ElementHandle(m.next())
	m.elements[h] = &MemoryElement{Kind: kind, Type: t, Instance: inst}
	return h, nil
}

func (m *Memory) UpdateElement(ctx context.Context, e ElementHandle, t TypeHandle, inst Instance) error {
	element, ok := m.elements[e]
	if !ok {
		return fmt.Errorf("element %d does not exist", e)
	}
	element.Type = t
	element.Instance = inst
	element.Updated = true
	return nil
}

func (m *Memory) TagElement(ctx context.Context, e ElementHandle, tag Tag) error {
	element, ok := m.elements[e]
	if !ok {
		return fmt.Errorf("element %d does not exist", e)
	}
	element.Tag = tag
	element.Tagged = true
	return nil
}

func (m *Memory) ExistingTags(ctx context.Context) (map[string]TaggedElement, error) {
	out := make(map[string]TaggedElement)
	for handle, element := range m.elements {
		if !element.Tagged || element.Tag.GUID == "" {
			continue
		}
		out[element.Tag.GUID] = TaggedElement{Element: handle, Tag: element.Tag}
	}
	return out, nil
}

func (m *Memory) typeByHandle(handle TypeHandle) *memoryType {
	for _, t := range m.types {
		if t.handle == handle {
			return t
		}
	}
	return nil
}
