// Package hasharray provides an insertion-ordered record collection indexed by
// one or more derived keys.
//
// A Collection keeps two views of the same records:
//
//   - order: every record once, in insertion order
//   - byKey: derived key -> ordered records sharing that key
//
// Records are stored once in an arena and referenced everywhere else by a
// stable Handle, so a record indexed under several keys is never duplicated.
//
// # Usage
//
//	people, err := hasharray.New[map[string]any](
//	    []keyfield.KeyField{keyfield.Name("id"), keyfield.Path("address", "city")},
//	    hasharray.WithIgnoreDuplicates(true),
//	)
//	err = people.Add(rec1, rec2)
//	oslo := people.GetAsArray("Oslo")
//	everyone := people.GetAll(hasharray.Wildcard)
//
// # Duplicates
//
// With WithIgnoreDuplicates, a record whose derived key under any KeyField
// already exists is rejected in full; it is not partially indexed.
//
// # Thread Safety
//
// Collection is not safe for concurrent use. Serialize access externally.
package hasharray
