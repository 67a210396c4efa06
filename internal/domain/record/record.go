// Package record defines the materialized document value returned by
// terminal criteria accessors.
package record

// Record is a fully materialized document: an opaque identifier plus the
// stored fields.
type Record struct {
	id     string
	fields map[string]any
}

// New creates a record.
func New(id string, fields map[string]any) Record {
	return Record{id: id, fields: fields}
}

// ID returns the document identifier.
func (r Record) ID() string { return r.id }

// Fields returns the stored fields.
func (r Record) Fields() map[string]any { return r.fields }

// Field returns a single stored field value.
func (r Record) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}
