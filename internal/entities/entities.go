package entities

import (
	"encoding/json"
)

// Entity is a single key with its value.
// Value is nil when the pair had no value, which is not the same as "".
type Entity struct {
	Key   *Key
	Value *string
}

// HasValue reports whether the entity carries a value
func (e Entity) HasValue() bool {
	return e.Value != nil
}

// ValueOr returns the value text, or fallback when the value is absent
func (e Entity) ValueOr(fallback string) string {
	if e.Value == nil {
		return fallback
	}
	return *e.Value
}

// Entities is an insertion-ordered mapping from Key to value-or-absent
type Entities struct {
	order  []*Key
	values map[*Key]*string
}

// New returns an empty mapping
func New() *Entities {
	return &Entities{
		values: make(map[*Key]*string),
	}
}

// Add inserts a new entry under a fresh key and returns that key.
// ordinal is the index of the source pair in the document.
func (e *Entities) Add(name string, ordinal int, value *string) *Key {
	key := newKey(name, ordinal)
	e.order = append(e.order, key)
	e.values[key] = value
	return key
}

// Len returns the number of entries
func (e *Entities) Len() int {
	return len(e.order)
}

// Get returns the value for key. ok is false when key is not part of this mapping.
func (e *Entities) Get(key *Key) (value *string, ok bool) {
	value, ok = e.values[key]
	return value, ok
}

// Keys returns the keys in insertion order
func (e *Entities) Keys() []*Key {
	keys := make([]*Key, len(e.order))
	copy(keys, e.order)
	return keys
}

// All returns the entries in insertion order
func (e *Entities) All() []Entity {
	all := make([]Entity, 0, len(e.order))
	for _, key := range e.order {
		all = append(all, Entity{Key: key, Value: e.values[key]})
	}
	return all
}

// Find returns every entry whose key text equals name
func (e *Entities) Find(name string) []Entity {
	var found []Entity
	for _, key := range e.order {
		if key.name == name {
			found = append(found, Entity{Key: key, Value: e.values[key]})
		}
	}
	return found
}

// entityJSON is the wire form of one entry. Value has no omitempty so an
// absent value is written as null.
type entityJSON struct {
	ID      string  `json:"id"`
	Ordinal int     `json:"ordinal"`
	Key     string  `json:"key"`
	Value   *string `json:"value"`
}

// MarshalJSON writes the entries as an ordered array
func (e *Entities) MarshalJSON() ([]byte, error) {
	out := make([]entityJSON, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, entityJSON{
			ID:      key.id.String(),
			Ordinal: key.ordinal,
			Key:     key.name,
			Value:   e.values[key],
		})
	}
	return json.Marshal(out)
}
