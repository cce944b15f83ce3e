package cbor

import "reflect"

// EncodeFunc writes v's CBOR encoding by appending to e's internal buffer.
// Handlers call e.EncodeValue for any nested values rather than touching
// the buffer through another path, so sharing and recursion bookkeeping
// stays correct.
type EncodeFunc func(e *Encoder, v any) error

// TypeLoader resolves a deferred registration to a concrete type on first
// use. ok is false if the named type's package has not been
// imported/loaded and so cannot yet be resolved; the registry leaves the
// entry deferred and falls through to the next one.
type TypeLoader func() (t reflect.Type, ok bool)

type deferredEntry struct {
	load     TypeLoader
	handler  EncodeFunc
	resolved bool
	typ      reflect.Type
}

// Registry is the encoder's ordered type -> handler mapping. Lookup is
// phase 2 (exact match) then phase 3 (subclass fall-through over deferred
// entries, memoized back into the exact map on first hit).
type Registry struct {
	exact    map[reflect.Type]EncodeFunc
	deferred []*deferredEntry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[reflect.Type]EncodeFunc)}
}

// Register installs handler for the exact type t (phase 2 entries). A later
// call for the same type replaces the handler, matching a per-encoder
// override of a built-in or previously registered mapping.
func (r *Registry) Register(t reflect.Type, handler EncodeFunc) {
	r.exact[t] = handler
}

// RegisterDeferred installs a phase-3 fall-through entry whose target type
// is resolved lazily via load. Entries are tried in registration order; the
// first whose resolved type the value is assignable to wins and is
// memoized into the exact map so later values of the same runtime type hit
// phase 2 directly.
func (r *Registry) RegisterDeferred(load TypeLoader, handler EncodeFunc) {
	r.deferred = append(r.deferred, &deferredEntry{load: load, handler: handler})
}

// Lookup implements phases 2 and 3 of the handler-selection algorithm
// for a value of runtime type t. ok is false if nothing matched,
// in which case the caller falls through to its default handler.
func (r *Registry) Lookup(t reflect.Type) (EncodeFunc, bool) {
	if h, ok := r.exact[t]; ok {
		return h, true
	}
	for _, e := range r.deferred {
		if !e.resolved {
			typ, ok := e.load()
			if !ok {
				continue // type's package not loaded yet; try again next time
			}
			e.typ = typ
			e.resolved = true
		}
		if isSubtype(t, e.typ) {
			r.exact[t] = e.handler
			return e.handler, true
		}
	}
	return nil, false
}

// isSubtype approximates the source ecosystem's isinstance check: t is a
// "subtype" of want if it is identical, assignable (e.g. a defined type
// over the same underlying kind satisfying an interface), or implements
// want when want is an interface type.
func isSubtype(t, want reflect.Type) bool {
	if t == want {
		return true
	}
	if want.Kind() == reflect.Interface {
		return t.Implements(want)
	}
	return t.AssignableTo(want)
}
