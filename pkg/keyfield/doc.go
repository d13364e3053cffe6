// Package keyfield derives index keys from records.
//
// A KeyField is either a single field name or an ordered path of field names
// for nested lookup:
//
//	keyfield.Name("name")
//	keyfield.Path("address", "city")
//
// Records are "record-shaped" when they are structs, maps with string keys, or
// pointers/interfaces holding one of those. Struct fields match by Go field
// name first and by json tag name second.
//
// Resolve never fails on a malformed nested value; it reports the key as absent.
// Passing a top-level value that is not record-shaped is a contract violation
// and yields ErrNotRecord.
package keyfield
