// Package docstore is the seam between the workflow core and whatever
// document database backs it. It mirrors the primitives of a hosted
// document store: collections of schemaless JSON documents with
// store-assigned ids, equality filters, single-field ordering, change
// subscriptions and batched partial updates.
package docstore

import (
	"context"
	"errors"
)

// Doc is one schemaless document. Values survive a JSON round-trip, so
// numbers read back as float64 regardless of how they were written.
type Doc map[string]any

// Filter is an equality constraint on a single field.
type Filter struct {
	Field string
	Value any
}

// Where builds an equality filter.
func Where(field string, value any) Filter { return Filter{Field: field, Value: value} }

// OrderBy orders query results by a single field.
type OrderBy struct {
	Field string
	Desc  bool
}

// PatchOp is one element of a batched patch.
type PatchOp struct {
	Collection string
	ID         string
	Patch      Doc
}

type serverTimestamp struct{}

// ServerTimestamp is a sentinel value. Any field set to it is replaced at
// write time with a store-assigned millisecond timestamp that is strictly
// greater than every timestamp previously assigned in the same collection.
var ServerTimestamp any = serverTimestamp{}

type deleteField struct{}

// Delete is a sentinel value. Any field patched to it is removed from the
// document instead of being set.
var Delete any = deleteField{}

// ErrNotFound is returned by Get, Patch and Remove when the document does
// not exist in the collection.
var ErrNotFound = errors.New("docstore: document not found")

// Store is the document-store contract the workflow core depends on.
//
// Mutations are atomic per document; BatchPatch is atomic as a set. Writes
// are not cancellable once submitted: the context only gates the round
// trip, readers never observe partial state.
type Store interface {
	Insert(ctx context.Context, collection string, doc Doc) (string, error)
	Patch(ctx context.Context, collection, id string, patch Doc) error
	Remove(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (Doc, error)
	Query(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Doc, error)

	// Subscribe registers fn to receive the current query result and every
	// subsequent result after a commit touches the collection. Delivery is
	// serialized per subscription. The returned cancel is idempotent and
	// releases the listener; it must be called by the owner of the handle.
	Subscribe(collection string, filters []Filter, order *OrderBy, fn func([]Doc)) (cancel func())

	BatchPatch(ctx context.Context, ops []PatchOp) error
}

// matches reports whether doc satisfies every filter.
func matches(doc Doc, filters []Filter) bool {
	for _, f := range filters {
		if !eqValue(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

// eqValue compares two document values, normalizing numeric types so that
// an int filter matches a float64 read back from JSON.
func eqValue(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// less orders two document values for OrderBy: numbers before strings,
// missing values last.
func less(a, b any) bool {
	fa, aok := asFloat(a)
	fb, bok := asFloat(b)
	switch {
	case aok && bok:
		return fa < fb
	case aok:
		return true
	case bok:
		return false
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	switch {
	case aok && bok:
		return sa < sb
	case aok:
		return true
	default:
		return false
	}
}
