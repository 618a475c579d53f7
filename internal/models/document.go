package models

import "fmt"

// Document is a schema-less record as stored in a collection.
// The store-assigned identifier lives under the "_id" key.
type Document map[string]interface{}

// ID returns the document identifier as a string, or "" if unset.
func (d Document) ID() string {
	return d.str("_id")
}

// UID returns the owning user identifier, or "" if unset.
func (d Document) UID() string {
	return d.str("uid")
}

// Without returns a shallow copy of d with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (d Document) str(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
