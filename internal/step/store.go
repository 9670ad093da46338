package step

// Store is the read-only entity table produced by a parse. Lookup is
// O(1) by numeric id and by rooted-entity identifier; entities of one
// type are bucketed, and a back-reference index (referenced id to the
// entities that reference it) is built once so inverse-relation queries
// avoid a full scan per call.
type Store struct {
	order    []*Entity
	byID     map[int64]*Entity
	byGUID   map[string]*Entity
	byType   map[string][]*Entity
	backRefs map[int64][]*Entity
	dropped  int
}

func newStore() *Store {
	return &Store{
		byID:     make(map[int64]*Entity),
		byGUID:   make(map[string]*Entity),
		byType:   make(map[string][]*Entity),
		backRefs: make(map[int64][]*Entity),
	}
}

func (s *Store) add(e *Entity) {
	if _, exists := s.byID[e.ID]; exists {
		s.dropped++
		return
	}
	s.order = append(s.order, e)
	s.byID[e.ID] = e
	s.byType[e.Type] = append(s.byType[e.Type], e)
	if guid, ok := e.GUID(); ok {
		if _, exists := s.byGUID[guid]; !exists {
			s.byGUID[guid] = e
		}
	}
}

// index finalises the table: every reference anywhere inside an entity's
// attribute tree registers that entity against the referenced id.
func (s *Store) index() {
	for _, e := range s.order {
		seen := make(map[int64]struct{})
		for _, attr := range e.Attrs {
			collectRefs(attr, seen)
		}
		for id := range seen {
			s.backRefs[id] = append(s.backRefs[id], e)
		}
	}
}

func collectRefs(v Value, out map[int64]struct{}) {
	switch v.Kind {
	case RefValue:
		out[v.Ref] = struct{}{}
	case ListValue:
		for _, item := range v.List {
			collectRefs(item, out)
		}
	}
}

// Get returns the entity with the given id, or nil.
func (s *Store) Get(id int64) *Entity {
	return s.byID[id]
}

// ByGUID returns the rooted entity carrying the given identifier string.
func (s *Store) ByGUID(guid string) *Entity {
	return s.byGUID[guid]
}

// OfType returns all entities of the given uppercase type keyword, in
// file order.
func (s *Store) OfType(entityType string) []*Entity {
	return s.byType[entityType]
}

// Referencing returns every entity whose attributes reference id, in
// file order.
func (s *Store) Referencing(id int64) []*Entity {
	return s.backRefs[id]
}

// All returns every entity in file order.
func (s *Store) All() []*Entity {
	return s.order
}

// Len is the number of accepted entities.
func (s *Store) Len() int {
	return len(s.order)
}

// Dropped is the number of statements discarded during parsing, either
// malformed or carrying a duplicate id.
func (s *Store) Dropped() int {
	return s.dropped
}
