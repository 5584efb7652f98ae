package entities

import "github.com/google/uuid"

// Key identifies one extracted entity.
// Two keys with the same text are still distinct: *Key compares by identity,
// so repeated form labels never collapse into a single entry.
type Key struct {
	id      uuid.UUID
	name    string
	ordinal int
}

func newKey(name string, ordinal int) *Key {
	return &Key{
		id:      uuid.New(),
		name:    name,
		ordinal: ordinal,
	}
}

// Name returns the key text as found in the document
func (k *Key) Name() string {
	return k.name
}

// ID returns the unique identifier assigned at extraction time
func (k *Key) ID() uuid.UUID {
	return k.id
}

// Ordinal returns the index of the source pair in keyValuePairs
func (k *Key) Ordinal() int {
	return k.ordinal
}

// String returns the key text
func (k *Key) String() string {
	return k.name
}

// GoString quotes the key text, which keeps duplicate keys readable in %#v output
func (k *Key) GoString() string {
	return "'" + k.name + "'"
}
